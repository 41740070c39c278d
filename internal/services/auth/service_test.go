package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cardwar/internal/dependencies/mocks"
	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/storage/memory"
	"github.com/mcoot/cardwar/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

// CreateGuest tests

func (s *ServiceSuite) TestCreateGuestSucceeds() {
	tok, err := s.service.CreateGuest(s.ctx, "Alice")
	s.Require().NoError(err)

	s.NotEmpty(tok.Value)
	s.Equal("Alice", tok.User.DisplayName)
	s.True(tok.User.IsGuest)
	s.Equal(model.UserID(1), tok.User.ID)
	s.Equal(s.clock.Now().Add(24*time.Hour), tok.ExpiresAt)
}

func (s *ServiceSuite) TestCreateGuestAssignsSequentialIDs() {
	a, _ := s.service.CreateGuest(s.ctx, "Alice")
	b, _ := s.service.CreateGuest(s.ctx, "Bob")

	s.Equal(a.User.ID+1, b.User.ID)
}

func (s *ServiceSuite) TestCreateGuestPersistsUser() {
	tok, _ := s.service.CreateGuest(s.ctx, "Alice")

	user, err := s.storage.GetUser(s.ctx, tok.User.ID)
	s.Require().NoError(err)
	s.Equal("Alice", user.DisplayName)
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	tok, err := s.service.Register(s.ctx, "alice", "password123", "Alice")
	s.Require().NoError(err)

	s.NotEmpty(tok.Value)
	s.False(tok.User.IsGuest)
}

func (s *ServiceSuite) TestRegisterHashesPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice")

	ru, err := s.storage.GetRegisteredUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEmpty(ru.PasswordHash)
	s.NotEqual("password123", ru.PasswordHash)
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice")

	_, err := s.service.Register(s.ctx, "alice", "other", "Alice 2")
	s.ErrorIs(err, ErrUsernameExists)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	reg, _ := s.service.Register(s.ctx, "alice", "password123", "Alice")

	tok, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	s.Equal(reg.User.ID, tok.User.ID)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice")

	_, err := s.service.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUser() {
	_, err := s.service.Login(s.ctx, "ghost", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// ValidateToken tests

func (s *ServiceSuite) TestValidateTokenReturnsIdentity() {
	tok, _ := s.service.CreateGuest(s.ctx, "Alice")

	user, err := s.service.ValidateToken(tok.Value)
	s.Require().NoError(err)
	s.Equal(tok.User.ID, user.ID)
	s.Equal("Alice", user.DisplayName)
	s.True(user.IsGuest)
}

func (s *ServiceSuite) TestValidateTokenExpired() {
	tok, _ := s.service.CreateGuest(s.ctx, "Alice")
	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateToken(tok.Value)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestValidateTokenGarbage() {
	_, err := s.service.ValidateToken("not-a-token")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestValidateTokenWrongSecret() {
	other := New(s.storage, s.clock, Config{Secret: "different"}, testutil.NopLogger())
	tok, _ := other.CreateGuest(s.ctx, "Mallory")

	_, err := s.service.ValidateToken(tok.Value)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestValidateTokenWrongIssuer() {
	other := New(s.storage, s.clock, Config{Issuer: "elsewhere"}, testutil.NopLogger())
	tok, _ := other.CreateGuest(s.ctx, "Mallory")

	_, err := s.service.ValidateToken(tok.Value)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestValidateTokenRejectsNoneAlgorithm() {
	c := claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "cardwar",
		ExpiresAt: jwt.NewNumericDate(s.clock.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	s.Require().NoError(err)

	_, err = s.service.ValidateToken(unsigned)
	s.ErrorIs(err, ErrInvalidToken)
}
