package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/airtickets/internal/domain"
	"github.com/Domenick1991/airtickets/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserUseCase interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	EnsureAdmin(ctx context.Context, in RegisterInput) error
}

type TokenIssuer interface {
	Issue(username string, role domain.Role) (string, time.Time, error)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (in RegisterInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return domain.Validationf("username is required")
	}
	if len(in.Password) < 6 {
		return domain.Validationf("password must be at least 6 characters")
	}
	return nil
}

// Session is the result of a successful login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

type UserService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	cost   int
	log    logrus.FieldLogger
}

type UserServiceOption func(*UserService)

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) UserServiceOption {
	return func(s *UserService) {
		s.cost = cost
	}
}

func NewUserService(users repository.UserRepository, tokens TokenIssuer, log logrus.FieldLogger, opts ...UserServiceOption) *UserService {
	s := &UserService{users: users, tokens: tokens, cost: bcrypt.DefaultCost, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.create(ctx, in, domain.RoleUser)
}

func (s *UserService) create(ctx context.Context, in RegisterInput, role domain.Role) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("user registered")
	return user, nil
}

// Login checks the password and issues a token. Unknown users and wrong
// passwords fail the same way.
func (s *UserService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, User: *user}, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// EnsureAdmin creates the configured admin account unless the username is
// already taken. An empty username disables it.
func (s *UserService) EnsureAdmin(ctx context.Context, in RegisterInput) error {
	if in.Username == "" {
		return nil
	}
	_, err := s.create(ctx, in, domain.RoleAdmin)
	if errors.Is(err, domain.ErrDuplicateUsername) {
		return nil
	}
	return err
}

var _ UserUseCase = (*UserService)(nil)
