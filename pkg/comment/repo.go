package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v4/stdlib"
)

var ErrPostNotFound = errors.New("comment: post not found")

type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func NewCommentRepo(db *sql.DB) *Repo {
	return &Repo{
		db:  db,
		now: time.Now,
	}
}

// Add stores the comment and bumps the post comment counter in one
// transaction, so the counter never drifts from the rows.
func (r *Repo) Add(ctx context.Context, postId, userId, text string) (*Comment, error) {
	body, err := NormalizeText(text)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("comment/repo: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE posts SET comment_count = comment_count + 1 WHERE id = $1", postId)
	if err != nil {
		return nil, fmt.Errorf("comment/repo: update comment count: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("comment/repo: update comment count: %w", err)
	}
	if n == 0 {
		return nil, ErrPostNotFound
	}

	c := &Comment{
		Id:      CommentId(uuid.NewString()),
		PostId:  postId,
		UserId:  userId,
		Created: r.now().UTC(),
		Body:    body,
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO comments(id, post_id, user_id, text, created_at) VALUES($1, $2, $3, $4, $5)",
		string(c.Id), c.PostId, c.UserId, c.Body, c.Created)
	if err != nil {
		return nil, fmt.Errorf("comment/repo: insert comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("comment/repo: commit: %w", err)
	}
	return c, nil
}

// ListByPost returns up to limit comments newest first. A non-zero before
// continues a previous page strictly after its last comment.
func (r *Repo) ListByPost(ctx context.Context, postId string, limit int, before time.Time) ([]*Comment, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if before.IsZero() {
		rows, err = r.db.QueryContext(ctx, `
			SELECT c.id, c.post_id, c.user_id, COALESCE(u.nickname, ''), c.text, c.created_at
			FROM comments c
			LEFT JOIN users u ON u.id = c.user_id
			WHERE c.post_id = $1
			ORDER BY c.created_at DESC
			LIMIT $2`, postId, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT c.id, c.post_id, c.user_id, COALESCE(u.nickname, ''), c.text, c.created_at
			FROM comments c
			LEFT JOIN users u ON u.id = c.user_id
			WHERE c.post_id = $1 AND c.created_at < $2
			ORDER BY c.created_at DESC
			LIMIT $3`, postId, before, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("comment/repo: failed finding comments: %w", err)
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		c := new(Comment)
		if err := rows.Scan(&c.Id, &c.PostId, &c.UserId, &c.Nickname, &c.Body, &c.Created); err != nil {
			return nil, fmt.Errorf("comment/repo: could not scan row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("comment/repo: rows: %w", err)
	}
	return comments, nil
}
