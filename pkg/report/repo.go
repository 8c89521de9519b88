package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v4/stdlib"
)

type Repo struct {
	db        *sql.DB
	threshold int
	now       func() time.Time
}

func NewReportRepo(db *sql.DB, threshold int) *Repo {
	if threshold <= 0 {
		threshold = DefaultHideThreshold
	}
	return &Repo{
		db:        db,
		threshold: threshold,
		now:       time.Now,
	}
}

// Add records a report and hides the post once the number of reporters
// reaches the threshold. The count and the flag flip happen in one
// conditional UPDATE; concurrent reporters crossing the threshold at once
// all end with is_hidden = true and only one of them sees the flip.
// Hidden posts are never unhidden here.
func (r *Repo) Add(ctx context.Context, postId, userId, reason string) (Outcome, error) {
	reason, err := normalizeReason(reason)
	if err != nil {
		return Outcome{}, err
	}

	var one int
	err = r.db.QueryRowContext(ctx, "SELECT 1 FROM posts WHERE id = $1", postId).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return Outcome{}, ErrPostNotFound
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("report/repo: find post: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reports(id, post_id, user_id, reason, created_at) VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (post_id, user_id) DO NOTHING`,
		uuid.NewString(), postId, userId, reason, r.now().UTC())
	if err != nil {
		return Outcome{}, fmt.Errorf("report/repo: insert report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Outcome{}, fmt.Errorf("report/repo: insert report: %w", err)
	}
	out := Outcome{Recorded: n == 1}

	res, err = r.db.ExecContext(ctx,
		`UPDATE posts SET is_hidden = true
		WHERE id = $1 AND is_hidden = false
		AND (SELECT COUNT(*) FROM reports WHERE post_id = $1) >= $2`,
		postId, r.threshold)
	if err != nil {
		return out, fmt.Errorf("report/repo: hide post: %w", err)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return out, fmt.Errorf("report/repo: hide post: %w", err)
	}
	out.Hidden = n == 1
	return out, nil
}

// Count returns how many users reported the post.
func (r *Repo) Count(ctx context.Context, postId string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports WHERE post_id = $1", postId).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("report/repo: count reports: %w", err)
	}
	return n, nil
}
