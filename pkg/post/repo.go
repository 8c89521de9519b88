package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"

	"spotted/pkg/geo"
	"spotted/pkg/poll"
	"spotted/pkg/voting"
)

// PollLoader fills poll results for poll posts.
type PollLoader interface {
	Get(ctx context.Context, pollId, viewerId string) (*poll.Poll, error)
}

type Repo struct {
	db    *sql.DB
	polls PollLoader
}

func NewPostRepo(db *sql.DB, polls PollLoader) *Repo {
	return &Repo{
		db:    db,
		polls: polls,
	}
}

// NearbyQuery selects a feed page. Center is expected to be snapped already.
type NearbyQuery struct {
	Center   geo.Point
	RadiusKm float64
	// Zero means first page.
	Before   time.Time
	Limit    int
	ViewerId string
}

const postColumns = `p.id, p.user_id, p.type, COALESCE(p.text, ''), COALESCE(p.photo_url, ''),
	COALESCE(p.link_url, ''), COALESCE(p.poll_id, ''), p.lat, p.lng, p.score, p.comment_count,
	p.created_at, p.expires_at, p.is_hidden, COALESCE(v.value, 0)`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row scanner) (*Post, error) {
	p := new(Post)
	var (
		expires sql.NullTime
		vote    int
	)
	err := row.Scan(&p.Id, &p.AuthorId, &p.Type, &p.Text, &p.PhotoURL, &p.LinkURL, &p.PollId,
		&p.Lat, &p.Lng, &p.Score, &p.CommentCount, &p.Created, &expires, &p.IsHidden, &vote)
	if err != nil {
		return nil, err
	}
	if expires.Valid {
		t := expires.Time
		p.ExpiresAt = &t
	}
	p.UserVote = voting.VotingScore(vote)
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Add stores the post; a poll post stores its poll in the same transaction.
func (r *Repo) Add(ctx context.Context, p *Post, pd *poll.Draft) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("post/repo: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if p.Type == TypePoll {
		if pd == nil {
			return poll.ErrInvalidPoll
		}
		pl, err := poll.Insert(ctx, tx, *pd)
		if err != nil {
			return err
		}
		p.PollId, p.Poll = pl.Id, pl
	}

	var expires sql.NullTime
	if p.ExpiresAt != nil {
		expires = sql.NullTime{Time: *p.ExpiresAt, Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO posts(id, user_id, type, text, photo_url, link_url, poll_id, lat, lng,
			score, comment_count, created_at, expires_at, is_hidden)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, $10, $11, false)`,
		string(p.Id), p.AuthorId, string(p.Type), nullString(p.Text), nullString(p.PhotoURL),
		nullString(p.LinkURL), nullString(p.PollId), p.Lat, p.Lng, p.Created, expires)
	if err != nil {
		return fmt.Errorf("post/repo: failed inserting a post: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("post/repo: commit: %w", err)
	}
	return nil
}

// GetById returns a visible post. Hidden and expired posts are reported as
// not found, the same as missing ones.
func (r *Repo) GetById(ctx context.Context, id PostId, viewerId string) (*Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		LEFT JOIN votes v ON v.post_id = p.id AND v.user_id = $2
		WHERE p.id = $1 AND p.is_hidden = false
		AND (p.expires_at IS NULL OR p.expires_at > NOW())`,
		string(id), viewerId)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("post/repo: could not scan row: %w", err)
	}
	if err := r.loadPoll(ctx, p, viewerId); err != nil {
		return nil, err
	}
	return p, nil
}

// Nearby returns visible posts within the radius, newest first. The bounding
// box narrows the scan to an index range before the exact great circle test;
// posts exactly at the center always match so a zero radius is usable.
func (r *Repo) Nearby(ctx context.Context, q NearbyQuery) ([]*Post, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	box := geo.BoundingBox(q.Center, q.RadiusKm)

	args := []interface{}{q.ViewerId, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng,
		q.Center.Lat, q.Center.Lng, q.RadiusKm}
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN votes v ON v.post_id = p.id AND v.user_id = $1
		WHERE p.is_hidden = false
		AND (p.expires_at IS NULL OR p.expires_at > NOW())
		AND p.lat BETWEEN $2 AND $3 AND p.lng BETWEEN $4 AND $5
		AND ((p.lat = $6 AND p.lng = $7) OR 6371 * acos(LEAST(1, GREATEST(-1,
			cos(radians($6)) * cos(radians(p.lat)) * cos(radians(p.lng) - radians($7)) +
			sin(radians($6)) * sin(radians(p.lat))))) <= $8)`
	if !q.Before.IsZero() {
		args = append(args, q.Before)
		query += fmt.Sprintf(" AND p.created_at < $%d", len(args))
	}
	args = append(args, q.Limit)
	query += fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed finding posts: %w", err)
	}
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("post/repo: could not scan row: %w", err)
		}
		p.DistanceKm = geo.DistanceKm(q.Center, geo.Point{Lat: p.Lat, Lng: p.Lng})
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("post/repo: rows: %w", err)
	}
	rows.Close()

	for _, p := range posts {
		if err := r.loadPoll(ctx, p, q.ViewerId); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (r *Repo) loadPoll(ctx context.Context, p *Post, viewerId string) error {
	if p.PollId == "" || r.polls == nil {
		return nil
	}
	pl, err := r.polls.Get(ctx, p.PollId, viewerId)
	if err != nil {
		return fmt.Errorf("post/repo: failed loading poll of %s: %w", p.Id, err)
	}
	p.Poll = pl
	return nil
}
