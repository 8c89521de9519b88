package post

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotted/pkg/geo"
	"spotted/pkg/poll"
	"spotted/pkg/voting"
)

var (
	postCols = []string{"id", "user_id", "type", "text", "photo_url", "link_url", "poll_id",
		"lat", "lng", "score", "comment_count", "created_at", "expires_at", "is_hidden", "value"}
	created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	center  = geo.Point{Lat: 41.0, Lng: 29.0}
)

type fakePolls map[string]*poll.Poll

func (f fakePolls) Get(ctx context.Context, pollId, viewerId string) (*poll.Poll, error) {
	p, ok := f[pollId]
	if !ok {
		return nil, poll.ErrNotFound
	}
	return p, nil
}

func newRepo(t *testing.T, polls PollLoader) (*Repo, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostRepo(db, polls), mock
}

func postRow(rows *sqlmock.Rows, id string, lat, lng float64, at time.Time, pollId string, vote int) *sqlmock.Rows {
	exp := at.Add(24 * time.Hour)
	return rows.AddRow(id, "u1", "text", "hello", "", "", pollId, lat, lng, 3, 1, at, exp, false, vote)
}

func TestNearbyFirstPage(t *testing.T) {
	pl := &poll.Poll{Id: "poll1", Question: "Tea or coffee?"}
	r, mock := newRepo(t, fakePolls{"poll1": pl})

	rows := sqlmock.NewRows(postCols)
	postRow(rows, "p2", 41.0, 29.0, created, "", 1)
	postRow(rows, "p1", 41.001, 29.0, created.Add(-time.Minute), "poll1", 0)

	mock.ExpectQuery("SELECT (.+) FROM posts p LEFT JOIN votes v").
		WithArgs("viewer", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			center.Lat, center.Lng, 1.0, 20).
		WillReturnRows(rows)

	posts, err := r.Nearby(context.Background(), NearbyQuery{Center: center, RadiusKm: 1, Limit: 20, ViewerId: "viewer"})
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, PostId("p2"), posts[0].Id)
	assert.Equal(t, voting.ScoreUp, posts[0].UserVote)
	assert.InDelta(t, 0.0, posts[0].DistanceKm, 1e-6)
	assert.NotNil(t, posts[0].ExpiresAt)
	assert.Nil(t, posts[0].Poll)

	assert.InDelta(t, 0.111, posts[1].DistanceKm, 0.001)
	assert.Same(t, pl, posts[1].Poll)
	assert.True(t, posts[0].Created.After(posts[1].Created))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNearbyWithCursor(t *testing.T) {
	r, mock := newRepo(t, nil)
	before := created

	mock.ExpectQuery(`AND p.created_at < \$9 ORDER BY p.created_at DESC LIMIT \$10`).
		WithArgs("", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			center.Lat, center.Lng, 5.0, before, DefaultPageSize).
		WillReturnRows(sqlmock.NewRows(postCols))

	posts, err := r.Nearby(context.Background(), NearbyQuery{Center: center, RadiusKm: 5, Before: before})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NotNil(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Each visibility and distance predicate of the feed query must be present.
func TestNearbyFilters(t *testing.T) {
	cases := []struct {
		name string
		sql  string
	}{
		{"viewer vote join", "LEFT JOIN votes v ON v.post_id = p.id AND v.user_id = $1"},
		{"hidden posts excluded", "WHERE p.is_hidden = false"},
		{"expired posts excluded", "AND (p.expires_at IS NULL OR p.expires_at > NOW())"},
		{"bounding box", "AND p.lat BETWEEN $2 AND $3 AND p.lng BETWEEN $4 AND $5"},
		{"center always matches", "AND ((p.lat = $6 AND p.lng = $7) OR 6371 * acos("},
		{"great circle radius", "cos(radians($6)) * cos(radians(p.lat)) * cos(radians(p.lng) - radians($7)) + " +
			"sin(radians($6)) * sin(radians(p.lat))))) <= $8)"},
		{"newest first", "ORDER BY p.created_at DESC LIMIT $9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, mock := newRepo(t, nil)
			mock.ExpectQuery(regexp.QuoteMeta(tc.sql)).
				WillReturnRows(sqlmock.NewRows(postCols))

			_, err := r.Nearby(context.Background(), NearbyQuery{Center: center, RadiusKm: 0})
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNearbyBoundingBoxArgs(t *testing.T) {
	r, mock := newRepo(t, nil)
	box := geo.BoundingBox(center, 2)

	mock.ExpectQuery("FROM posts p").
		WithArgs("", box.MinLat, box.MaxLat, box.MinLng, box.MaxLng, center.Lat, center.Lng, 2.0, 20).
		WillReturnRows(sqlmock.NewRows(postCols))

	_, err := r.Nearby(context.Background(), NearbyQuery{Center: center, RadiusKm: 2})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNearbyDBError(t *testing.T) {
	r, mock := newRepo(t, nil)
	dbErr := fmt.Errorf("mock_db_error")
	mock.ExpectQuery("FROM posts p").WillReturnError(dbErr)

	_, err := r.Nearby(context.Background(), NearbyQuery{Center: center, RadiusKm: 1})
	assert.ErrorIs(t, err, dbErr)
}

func TestGetById(t *testing.T) {
	t.Run("visible post", func(t *testing.T) {
		r, mock := newRepo(t, nil)
		mock.ExpectQuery("WHERE p.id = \\$1 AND p.is_hidden = false").
			WithArgs("p1", "viewer").
			WillReturnRows(postRow(sqlmock.NewRows(postCols), "p1", 41, 29, created, "", -1))

		p, err := r.GetById(context.Background(), "p1", "viewer")
		require.NoError(t, err)
		assert.Equal(t, voting.ScoreDown, p.UserVote)
		assert.Equal(t, "hello", p.Text)
		assert.Equal(t, 3, p.Score)
	})

	t.Run("hidden, expired or missing", func(t *testing.T) {
		r, mock := newRepo(t, nil)
		mock.ExpectQuery("FROM posts p").
			WithArgs("p1", "").
			WillReturnRows(sqlmock.NewRows(postCols))

		_, err := r.GetById(context.Background(), "p1", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("poll failure", func(t *testing.T) {
		r, mock := newRepo(t, fakePolls{})
		mock.ExpectQuery("FROM posts p").
			WillReturnRows(postRow(sqlmock.NewRows(postCols), "p1", 41, 29, created, "poll-gone", 0))

		_, err := r.GetById(context.Background(), "p1", "")
		assert.ErrorIs(t, err, poll.ErrNotFound)
	})
}

func TestAdd(t *testing.T) {
	expires := created.Add(DefaultTTL)

	t.Run("text post", func(t *testing.T) {
		r, mock := newRepo(t, nil)
		p := &Post{Id: "p1", AuthorId: "u1", Type: TypeText, Text: "hello", Lat: 41, Lng: 29, Created: created, ExpiresAt: &expires}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO posts").
			WithArgs("p1", "u1", "text", "hello", nil, nil, nil, 41.0, 29.0, created, expires).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, r.Add(context.Background(), p, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("poll post", func(t *testing.T) {
		r, mock := newRepo(t, nil)
		p := &Post{Id: "p2", AuthorId: "u1", Type: TypePoll, Lat: 41, Lng: 29, Created: created, ExpiresAt: &expires}
		draft := &poll.Draft{Question: "Tea or coffee?", Options: []string{"Tea", "Coffee"}}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO polls").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO poll_options").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO poll_options").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO posts").
			WithArgs("p2", "u1", "poll", nil, nil, nil, sqlmock.AnyArg(), 41.0, 29.0, created, expires).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, r.Add(context.Background(), p, draft))
		assert.NotEmpty(t, p.PollId)
		require.NotNil(t, p.Poll)
		assert.Len(t, p.Poll.Options, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back the poll", func(t *testing.T) {
		r, mock := newRepo(t, nil)
		p := &Post{Id: "p3", AuthorId: "u1", Type: TypePoll, Created: created}
		draft := &poll.Draft{Question: "Q", Options: []string{"A", "B"}}
		dbErr := fmt.Errorf("mock_db_error")

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO polls").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO poll_options").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO poll_options").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO posts").WillReturnError(dbErr)
		mock.ExpectRollback()

		err := r.Add(context.Background(), p, draft)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("poll post without poll", func(t *testing.T) {
		r, mock := newRepo(t, nil)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := r.Add(context.Background(), &Post{Id: "p4", Type: TypePoll}, nil)
		assert.ErrorIs(t, err, poll.ErrInvalidPoll)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  CreateRequest
		err  error
	}{
		{"text", CreateRequest{Type: TypeText, Text: "hi", Lat: 41, Lng: 29}, nil},
		{"blank text", CreateRequest{Type: TypeText, Text: "  ", Lat: 41, Lng: 29}, ErrInvalidPost},
		{"photo", CreateRequest{Type: TypePhoto, PhotoURL: "https://cdn/x.jpg", Lat: 41, Lng: 29}, nil},
		{"photo without url", CreateRequest{Type: TypePhoto, Text: "look", Lat: 41, Lng: 29}, ErrInvalidPost},
		{"link", CreateRequest{Type: TypeLink, LinkURL: "https://x", Lat: 41, Lng: 29}, nil},
		{"poll", CreateRequest{Type: TypePoll, Poll: &poll.Draft{Question: "Q", Options: []string{"a", "b"}}, Lat: 41, Lng: 29}, nil},
		{"poll with one option", CreateRequest{Type: TypePoll, Poll: &poll.Draft{Question: "Q", Options: []string{"a", " "}}, Lat: 41, Lng: 29}, poll.ErrInvalidPoll},
		{"poll missing", CreateRequest{Type: TypePoll, Lat: 41, Lng: 29}, poll.ErrInvalidPoll},
		{"unknown type", CreateRequest{Type: "video", Text: "x", Lat: 41, Lng: 29}, ErrInvalidPost},
		{"bad location", CreateRequest{Type: TypeText, Text: "x", Lat: 95, Lng: 29}, geo.ErrInvalidCoordinate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}

	// A text post drops a stray poll.
	req := CreateRequest{Type: TypeText, Text: "x", Poll: &poll.Draft{Question: "Q"}}
	require.NoError(t, req.Validate())
	assert.Nil(t, req.Poll)
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 123456000, time.FixedZone("TRT", 3*3600))
	got, err := DecodeCursor(EncodeCursor(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(got))

	_, err = DecodeCursor("yesterday")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}
