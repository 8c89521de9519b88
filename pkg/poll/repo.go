package poll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v4/stdlib"
)

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func NewPollRepo(db *sql.DB) *Repo {
	return &Repo{
		db:  db,
		now: time.Now,
	}
}

// Insert writes a poll and its options using the caller's transaction, so a
// poll never exists without the post that owns it.
func Insert(ctx context.Context, ex Execer, d Draft) (*Poll, error) {
	d, err := d.Normalize()
	if err != nil {
		return nil, err
	}
	p := &Poll{Id: uuid.NewString(), Question: d.Question}
	if _, err := ex.ExecContext(ctx, "INSERT INTO polls(id, question) VALUES($1, $2)", p.Id, p.Question); err != nil {
		return nil, fmt.Errorf("poll/repo: insert poll: %w", err)
	}
	for i, text := range d.Options {
		o := &Option{Id: uuid.NewString(), Text: text}
		_, err := ex.ExecContext(ctx,
			"INSERT INTO poll_options(id, poll_id, text, position) VALUES($1, $2, $3, $4)",
			o.Id, p.Id, o.Text, i)
		if err != nil {
			return nil, fmt.Errorf("poll/repo: insert option: %w", err)
		}
		p.Options = append(p.Options, o)
	}
	return p, nil
}

// Get loads a poll with per-option vote counts and the viewer's choice.
func (r *Repo) Get(ctx context.Context, pollId, viewerId string) (*Poll, error) {
	p := &Poll{Id: pollId}
	err := r.db.QueryRowContext(ctx, "SELECT question FROM polls WHERE id = $1", pollId).Scan(&p.Question)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("poll/repo: get poll: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.text, COUNT(v.id)
		FROM poll_options o
		LEFT JOIN poll_votes v ON v.option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id, o.text, o.position
		ORDER BY o.position`, pollId)
	if err != nil {
		return nil, fmt.Errorf("poll/repo: get options: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		o := new(Option)
		if err := rows.Scan(&o.Id, &o.Text, &o.Votes); err != nil {
			return nil, fmt.Errorf("poll/repo: could not scan row: %w", err)
		}
		p.Options = append(p.Options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("poll/repo: rows: %w", err)
	}
	fillPercents(p.Options)

	if viewerId != "" {
		err := r.db.QueryRowContext(ctx,
			"SELECT option_id FROM poll_votes WHERE poll_id = $1 AND user_id = $2",
			pollId, viewerId).Scan(&p.UserOptionId)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("poll/repo: get user vote: %w", err)
		}
	}
	return p, nil
}

// Vote records the user's choice. A second vote redirects the existing row
// to the new option instead of adding one.
func (r *Repo) Vote(ctx context.Context, pollId, optionId, userId string) error {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM polls WHERE id = $1", pollId).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("poll/repo: find poll: %w", err)
	}

	var optionPoll string
	err = r.db.QueryRowContext(ctx, "SELECT poll_id FROM poll_options WHERE id = $1", optionId).Scan(&optionPoll)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && optionPoll != pollId) {
		return ErrInvalidOption
	}
	if err != nil {
		return fmt.Errorf("poll/repo: find option: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO poll_votes(id, poll_id, option_id, user_id, created_at) VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (poll_id, user_id) DO UPDATE SET option_id = EXCLUDED.option_id`,
		uuid.NewString(), pollId, optionId, userId, r.now().UTC())
	if err != nil {
		return fmt.Errorf("poll/repo: upsert vote: %w", err)
	}
	return nil
}
