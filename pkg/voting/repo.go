package voting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
)

var ErrPostNotFound = errors.New("voting: post not found")

type Repo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *Repo {
	return &Repo{
		db: db,
	}
}

// Vote moves the user's vote on a post to score. Re-sending the current
// value changes nothing. The post score moves by the transition delta with a
// single increment, inside the same transaction as the vote row.
func (r *Repo) Vote(ctx context.Context, postId, userId string, score VotingScore) (Result, error) {
	if err := score.Validate(); err != nil {
		return Result{}, err
	}
	if score == ScoreDiscard {
		return r.Unvote(ctx, postId, userId)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("voting/repo: begin: %w", err)
	}
	defer tx.Rollback()

	if err := postExists(ctx, tx, postId); err != nil {
		return Result{}, err
	}

	prev, err := lockVote(ctx, tx, postId, userId)
	if err != nil {
		return Result{}, err
	}
	if prev == score {
		if err := tx.Commit(); err != nil {
			return Result{}, fmt.Errorf("voting/repo: commit: %w", err)
		}
		return Result{Previous: prev, Current: prev}, nil
	}

	if prev == ScoreDiscard {
		inserted, err := insertVote(ctx, tx, postId, userId, score)
		if err != nil {
			return Result{}, err
		}
		if !inserted {
			// A parallel request of the same user created the row first.
			// The insert waited for it, so reading again sees it.
			if prev, err = lockVote(ctx, tx, postId, userId); err != nil {
				return Result{}, err
			}
			if prev == score {
				if err := tx.Commit(); err != nil {
					return Result{}, fmt.Errorf("voting/repo: commit: %w", err)
				}
				return Result{Previous: prev, Current: prev}, nil
			}
			if err := updateVote(ctx, tx, postId, userId, score); err != nil {
				return Result{}, err
			}
		}
	} else if err := updateVote(ctx, tx, postId, userId, score); err != nil {
		return Result{}, err
	}

	delta := Delta(prev, score)
	if err := bumpScore(ctx, tx, postId, delta); err != nil {
		return Result{}, err
	}
	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("voting/repo: commit: %w", err)
	}
	return Result{Previous: prev, Current: score, Delta: delta}, nil
}

// Unvote removes the user's vote, if any, and takes its value back out of
// the post score.
func (r *Repo) Unvote(ctx context.Context, postId, userId string) (Result, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("voting/repo: begin: %w", err)
	}
	defer tx.Rollback()

	if err := postExists(ctx, tx, postId); err != nil {
		return Result{}, err
	}

	var prev VotingScore
	err = tx.QueryRowContext(ctx,
		"DELETE FROM votes WHERE post_id = $1 AND user_id = $2 RETURNING value",
		postId, userId).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		if err := tx.Commit(); err != nil {
			return Result{}, fmt.Errorf("voting/repo: commit: %w", err)
		}
		return Result{}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("voting/repo: delete vote: %w", err)
	}

	delta := Delta(prev, ScoreDiscard)
	if err := bumpScore(ctx, tx, postId, delta); err != nil {
		return Result{}, err
	}
	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("voting/repo: commit: %w", err)
	}
	return Result{Previous: prev, Current: ScoreDiscard, Delta: delta}, nil
}

// Get returns the user's current vote on a post, ScoreDiscard when absent.
func (r *Repo) Get(ctx context.Context, postId, userId string) (VotingScore, error) {
	var s VotingScore
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM votes WHERE post_id = $1 AND user_id = $2", postId, userId).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return ScoreDiscard, nil
	}
	if err != nil {
		return ScoreDiscard, fmt.Errorf("voting/repo: get vote: %w", err)
	}
	return s, nil
}

func postExists(ctx context.Context, tx *sql.Tx, postId string) error {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM posts WHERE id = $1", postId).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("voting/repo: find post: %w", err)
	}
	return nil
}

func lockVote(ctx context.Context, tx *sql.Tx, postId, userId string) (VotingScore, error) {
	var s VotingScore
	err := tx.QueryRowContext(ctx,
		"SELECT value FROM votes WHERE post_id = $1 AND user_id = $2 FOR UPDATE",
		postId, userId).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return ScoreDiscard, nil
	}
	if err != nil {
		return ScoreDiscard, fmt.Errorf("voting/repo: lock vote: %w", err)
	}
	return s, nil
}

func insertVote(ctx context.Context, tx *sql.Tx, postId, userId string, score VotingScore) (bool, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO votes(post_id, user_id, value) VALUES($1, $2, $3) ON CONFLICT (post_id, user_id) DO NOTHING",
		postId, userId, int(score))
	if err != nil {
		return false, fmt.Errorf("voting/repo: insert vote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("voting/repo: insert vote: %w", err)
	}
	return n == 1, nil
}

func updateVote(ctx context.Context, tx *sql.Tx, postId, userId string, score VotingScore) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE votes SET value = $3 WHERE post_id = $1 AND user_id = $2",
		postId, userId, int(score))
	if err != nil {
		return fmt.Errorf("voting/repo: update vote: %w", err)
	}
	return nil
}

func bumpScore(ctx context.Context, tx *sql.Tx, postId string, delta int) error {
	_, err := tx.ExecContext(ctx, "UPDATE posts SET score = score + $1 WHERE id = $2", delta, postId)
	if err != nil {
		return fmt.Errorf("voting/repo: update score: %w", err)
	}
	return nil
}
