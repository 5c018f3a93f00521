package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/user"
)

var (
	// ErrConflict is returned by Register when the username or email is taken.
	ErrConflict = errors.New("username or email already registered")
	// ErrUnauthorized is returned by Login for an unknown user or a wrong
	// password alike.
	ErrUnauthorized = errors.New("invalid username or password")
)

// TokenIssuer mints bearer tokens for an authenticated identity.
type TokenIssuer interface {
	Issue(id crypto.Identity) (crypto.IssuedToken, error)
}

type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

type RegisterResult struct {
	Username  string
	Email     string
	Token     string
	ExpiresAt time.Time
}

type LoginRequest struct {
	Username string
	Password string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Email     string
}

type Service struct {
	users  user.Repository
	hasher crypto.PasswordHasher
	tokens TokenIssuer

	// compared against when the user does not exist, so both failure paths
	// pay for one bcrypt comparison
	dummyHash string
}

func NewService(users user.Repository, hasher crypto.PasswordHasher, tokens TokenIssuer) (*Service, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Service{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
	}, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (RegisterResult, error) {
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		registrations.WithLabelValues("error").Inc()
		return RegisterResult{}, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		registrations.WithLabelValues("conflict").Inc()
		return RegisterResult{}, ErrConflict
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		registrations.WithLabelValues("error").Inc()
		return RegisterResult{}, fmt.Errorf("hash password: %w", err)
	}

	u := user.User{Username: req.Username, Email: req.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, &u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, user.ErrAlreadyExists) {
			registrations.WithLabelValues("conflict").Inc()
			return RegisterResult{}, ErrConflict
		}
		registrations.WithLabelValues("error").Inc()
		return RegisterResult{}, fmt.Errorf("create user: %w", err)
	}

	issued, err := s.issue(u)
	if err != nil {
		registrations.WithLabelValues("error").Inc()
		return RegisterResult{}, err
	}

	registrations.WithLabelValues("success").Inc()
	return RegisterResult{
		Username:  u.Username,
		Email:     u.Email,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	u, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.hasher.Verify(s.dummyHash, req.Password)
			logins.WithLabelValues("unauthorized").Inc()
			return LoginResult{}, ErrUnauthorized
		}
		logins.WithLabelValues("error").Inc()
		return LoginResult{}, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(u.PasswordHash, req.Password) {
		logins.WithLabelValues("unauthorized").Inc()
		return LoginResult{}, ErrUnauthorized
	}

	issued, err := s.issue(u)
	if err != nil {
		logins.WithLabelValues("error").Inc()
		return LoginResult{}, err
	}

	logins.WithLabelValues("success").Inc()
	return LoginResult{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		Username:  u.Username,
		Email:     u.Email,
	}, nil
}

func (s *Service) issue(u user.User) (crypto.IssuedToken, error) {
	issued, err := s.tokens.Issue(crypto.Identity{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
	})
	if err != nil {
		return crypto.IssuedToken{}, fmt.Errorf("issue token: %w", err)
	}
	tokensIssued.Inc()
	return issued, nil
}
