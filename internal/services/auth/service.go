package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/cardwar/internal/dependencies/clock"
	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUsernameExists     = errors.New("username already exists")
)

// Token is a signed access token and the identity it carries
type Token struct {
	Value     string
	User      model.User
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	// Secret signs and verifies HS256 tokens
	Secret string
	// Issuer is written to and required in the iss claim
	Issuer string
	// TokenTTL is how long issued tokens stay valid
	TokenTTL time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		Secret:   "cardwar-dev-secret",
		Issuer:   "cardwar",
		TokenTTL: 24 * time.Hour,
	}
}

// claims is the JWT payload; the subject is the decimal user id
type claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Guest bool   `json:"guest,omitempty"`
}

// Service is the identity provider: accounts and stateless access tokens
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaults.TokenTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaults.Issuer
	}
	if cfg.Secret == "" {
		cfg.Secret = defaults.Secret
	}
	return &Service{
		storage: storage,
		clock:   clock,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "auth")),
	}
}

// CreateGuest creates an account without credentials and issues a token
func (s *Service) CreateGuest(ctx context.Context, displayName string) (*Token, error) {
	user, err := s.newUser(ctx, displayName, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("guest created", slog.Int64("user_id", int64(user.ID)))
	return s.Issue(user)
}

// Register creates an account with a username and password and issues a token
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*Token, error) {
	_, err := s.storage.GetRegisteredUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.newUser(ctx, displayName, false)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ru := &model.RegisteredUser{
		UserID:       user.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.storage.SaveRegisteredUser(ctx, ru); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.Int64("user_id", int64(user.ID)),
		slog.String("username", username))
	return s.Issue(user)
}

// Login checks a username and password and issues a token
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	ru, err := s.storage.GetRegisteredUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ru.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.storage.GetUser(ctx, ru.UserID)
	if err != nil {
		return nil, err
	}
	return s.Issue(user)
}

// Issue signs a token for user
func (s *Service) Issue(user *model.User) (*Token, error) {
	now := s.clock.Now()
	expires := now.Add(s.cfg.TokenTTL)

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Name:  user.DisplayName,
		Guest: user.IsGuest,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{
		Value:     signed,
		User:      *user,
		ExpiresAt: expires,
	}, nil
}

// ValidateToken verifies a token and returns the identity it carries
func (s *Service) ValidateToken(token string) (*model.User, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := model.ParseUserID(c.Subject)
	if err != nil || id <= 0 {
		return nil, ErrInvalidToken
	}

	return &model.User{
		ID:          id,
		DisplayName: c.Name,
		IsGuest:     c.Guest,
	}, nil
}

func (s *Service) newUser(ctx context.Context, displayName string, guest bool) (*model.User, error) {
	id, err := s.storage.NextUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate user id: %w", err)
	}

	user := &model.User{
		ID:          id,
		DisplayName: displayName,
		IsGuest:     guest,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
