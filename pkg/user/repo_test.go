package user

import (
	"context"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	userID   = "1"
	phone    = "+905551112233"
	nickname = "pike"
	deviceID = "dev-1"
	userCols = []string{"id", "phone_e164", "nickname", "device_id"}
)

func TestGetById(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	r := NewUserRepo(db)

	t.Run("should return user", func(t *testing.T) {
		expect := &User{Id: userID, PhoneE164: phone, Nickname: nickname, DeviceId: deviceID}

		rows := sqlmock.NewRows(userCols)
		rows.AddRow(expect.Id, expect.PhoneE164, expect.Nickname, expect.DeviceId)

		mock.
			ExpectQuery("SELECT id, phone_e164, nickname, device_id FROM users where").
			WithArgs(userID).
			WillReturnRows(rows)

		gotUser, err := r.GetById(context.TODO(), userID)
		if err != nil {
			t.Errorf("unexpected err: %s", err)
			return
		}
		assert.Equal(t, expect, gotUser)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})

	t.Run("should return not found", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT id, phone_e164, nickname, device_id FROM users where").
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(userCols))
		_, err = r.GetById(context.TODO(), userID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should return DB error", func(t *testing.T) {
		expectedErr := fmt.Errorf("mock_db_error")
		mock.
			ExpectQuery("SELECT id, phone_e164, nickname, device_id FROM users where").
			WithArgs(userID).
			WillReturnError(expectedErr)
		_, err = r.GetById(context.TODO(), userID)
		assert.ErrorIs(t, err, expectedErr)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})
}

func TestUpsertByPhone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	r := NewUserRepo(db)

	t.Run("creates or refreshes the user", func(t *testing.T) {
		mock.
			ExpectQuery("INSERT INTO users").
			WithArgs(sqlmock.AnyArg(), phone, DefaultNickname, deviceID).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(userID, phone, nickname, deviceID))

		u, err := r.UpsertByPhone(context.TODO(), phone, deviceID)
		require.NoError(t, err)
		// Existing users keep their nickname.
		assert.Equal(t, &User{Id: userID, PhoneE164: phone, Nickname: nickname, DeviceId: deviceID}, u)
		assert.False(t, u.NeedsNickname())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DB error", func(t *testing.T) {
		expectedErr := fmt.Errorf("mock_db_error")
		mock.ExpectQuery("INSERT INTO users").WillReturnError(expectedErr)

		_, err := r.UpsertByPhone(context.TODO(), phone, deviceID)
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestUpdateNickname(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	r := NewUserRepo(db)

	t.Run("trims and saves", func(t *testing.T) {
		mock.
			ExpectExec("UPDATE users SET nickname").
			WithArgs("pike", userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, r.UpdateNickname(context.TODO(), userID, "  pike "))
	})

	t.Run("too short", func(t *testing.T) {
		assert.ErrorIs(t, r.UpdateNickname(context.TODO(), userID, "p"), ErrInvalidNickname)
	})

	t.Run("unknown user", func(t *testing.T) {
		mock.
			ExpectExec("UPDATE users SET nickname").
			WithArgs("pike", "nope").
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, r.UpdateNickname(context.TODO(), "nope", "pike"), ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDeviceToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	r := NewUserRepo(db)

	mock.
		ExpectExec("INSERT INTO device_tokens").
		WithArgs("tok", userID, PlatformIOS).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, r.RegisterDeviceToken(context.TODO(), userID, "tok", ""))

	assert.ErrorIs(t, r.RegisterDeviceToken(context.TODO(), userID, "tok", "web"), ErrInvalidPlatform)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	r := NewUserRepo(db)

	mock.ExpectQuery("SELECT id, phone_e164, nickname, device_id FROM users").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("1", phone, nickname, deviceID).
			AddRow("2", "+15550001111", DefaultNickname, ""))

	users, err := r.GetAll(context.TODO())
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.True(t, users[1].NeedsNickname())
}
