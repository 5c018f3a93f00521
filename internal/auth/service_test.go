package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/user"
)

const testSecret = "auth-test-secret-with-enough-bytes"

func newTestService(t *testing.T) (*Service, *user.MockRepository, *crypto.TokenIssuer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := user.NewMockRepository(ctrl)
	issuer := crypto.NewTokenIssuer(testSecret, "library-api", "library-clients", time.Hour)
	svc, err := NewService(users, crypto.NewBcryptHasher(bcrypt.MinCost), issuer)
	require.NoError(t, err)
	return svc, users, issuer
}

type failingHasher struct{ err error }

func (h failingHasher) Hash(string) (string, error) { return "", h.err }
func (h failingHasher) Verify(string, string) bool { return false }

func TestNewService_HasherFailure(t *testing.T) {
	boom := errors.New("entropy exhausted")
	issuer := crypto.NewTokenIssuer(testSecret, "library-api", "library-clients", time.Hour)

	svc, err := NewService(user.NewMockRepository(gomock.NewController(t)), failingHasher{err: boom}, issuer)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, svc)
}

func TestService_Register(t *testing.T) {
	req := RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "Password123!"}

	t.Run("success", func(t *testing.T) {
		svc, users, issuer := newTestService(t)

		users.EXPECT().ExistsByUsernameOrEmail(gomock.Any(), "alice", "alice@example.com").Return(false, nil)
		users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *user.User) error {
			assert.Equal(t, "alice", u.Username)
			assert.NotEqual(t, "Password123!", u.PasswordHash)
			assert.True(t, crypto.NewBcryptHasher(bcrypt.MinCost).Verify(u.PasswordHash, "Password123!"))
			u.ID = 7
			return nil
		})

		res, err := svc.Register(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "alice", res.Username)
		assert.Equal(t, "alice@example.com", res.Email)
		assert.True(t, res.ExpiresAt.After(time.Now()))

		claims, err := issuer.Parse(res.Token)
		require.NoError(t, err)
		id, _ := claims.UserID()
		assert.Equal(t, int64(7), id)
	})

	t.Run("taken by pre-check", func(t *testing.T) {
		svc, users, _ := newTestService(t)

		users.EXPECT().ExistsByUsernameOrEmail(gomock.Any(), "alice", "alice@example.com").Return(true, nil)

		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("taken by concurrent registration", func(t *testing.T) {
		svc, users, _ := newTestService(t)

		users.EXPECT().ExistsByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(user.ErrAlreadyExists)

		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, users, _ := newTestService(t)
		boom := errors.New("connection refused")

		users.EXPECT().ExistsByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, boom)

		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrConflict)
	})
}

func TestService_Login(t *testing.T) {
	hash, err := crypto.NewBcryptHasher(bcrypt.MinCost).Hash("Password123!")
	require.NoError(t, err)
	stored := user.User{ID: 3, Username: "alice", Email: "alice@example.com", PasswordHash: hash}

	t.Run("success", func(t *testing.T) {
		svc, users, issuer := newTestService(t)
		users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(stored, nil)

		res, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "Password123!"})
		require.NoError(t, err)
		assert.Equal(t, "alice", res.Username)
		assert.Equal(t, "alice@example.com", res.Email)

		claims, err := issuer.Parse(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		svc, users, _ := newTestService(t)
		users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(stored, nil)
		users.EXPECT().GetByUsername(gomock.Any(), "mallory").Return(user.User{}, user.ErrNotFound)

		_, wrongPassword := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "nope"})
		_, unknownUser := svc.Login(context.Background(), LoginRequest{Username: "mallory", Password: "Password123!"})

		assert.ErrorIs(t, wrongPassword, ErrUnauthorized)
		assert.ErrorIs(t, unknownUser, ErrUnauthorized)
		assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	})

	t.Run("store failure", func(t *testing.T) {
		svc, users, _ := newTestService(t)
		boom := errors.New("timeout")
		users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user.User{}, boom)

		_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "Password123!"})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrUnauthorized)
	})
}
