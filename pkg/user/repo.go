package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v4/stdlib"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

// UpsertByPhone returns the user owning the phone number, creating it on
// first login. The device id is refreshed on every login.
func (r *UserRepo) UpsertByPhone(ctx context.Context, phone, deviceId string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users(id, phone_e164, nickname, device_id) VALUES($1, $2, $3, $4)
		ON CONFLICT (phone_e164) DO UPDATE SET device_id = EXCLUDED.device_id
		RETURNING id, phone_e164, nickname, device_id`,
		uuid.NewString(), phone, DefaultNickname, deviceId)
	u := new(User)
	if err := row.Scan(&u.Id, &u.PhoneE164, &u.Nickname, &u.DeviceId); err != nil {
		return nil, fmt.Errorf("user/repo: upsert by phone: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetById(ctx context.Context, uid string) (*User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id, phone_e164, nickname, device_id FROM users where id=$1", uid)
	u := new(User)
	if err := row.Scan(&u.Id, &u.PhoneE164, &u.Nickname, &u.DeviceId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user/repo: could not scan row: %w", err)
	}
	return u, nil
}

func (r *UserRepo) UpdateNickname(ctx context.Context, uid, nickname string) error {
	nickname, err := NormalizeNickname(nickname)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, "UPDATE users SET nickname = $1 WHERE id = $2", nickname, uid)
	if err != nil {
		return fmt.Errorf("user/repo: update nickname: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("user/repo: update nickname: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RegisterDeviceToken binds a push token to the user. A token moves to the
// latest user that registers it.
func (r *UserRepo) RegisterDeviceToken(ctx context.Context, uid, token, platform string) error {
	platform, err := NormalizePlatform(platform)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO device_tokens(token, user_id, platform) VALUES($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform`,
		token, uid, platform)
	if err != nil {
		return fmt.Errorf("user/repo: register device token: %w", err)
	}
	return nil
}

// Returns all users. Used only for seeding the DB.
func (r *UserRepo) GetAll(ctx context.Context) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, phone_e164, nickname, device_id FROM users")
	if err != nil {
		return nil, fmt.Errorf("repo: failed executing query for getting all users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u := new(User)
		err := rows.Scan(&u.Id, &u.PhoneE164, &u.Nickname, &u.DeviceId)
		if err != nil {
			return nil, fmt.Errorf("user/repo: could not scan row: %w", err)
		}
		users = append(users, u)
	}

	return users, nil
}
