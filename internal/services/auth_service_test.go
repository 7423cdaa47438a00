package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"fitfinder-backend/internal/clock"
	"fitfinder-backend/internal/domain/user"
	fitfinder_errors "fitfinder-backend/pkg/errors"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceSuite struct {
	suite.Suite
	ctx   context.Context
	clock *clock.MockClock
	users *fakeUserRepo
	svc   *AuthService
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewMock(issuedAt)
	s.users = newFakeUserRepo()

	issuer, err := NewTokenIssuer(testSecret, "HS256", time.Hour, s.clock)
	s.Require().NoError(err)
	s.svc = NewAuthService(s.users, issuer)
	s.svc.bcryptCost = bcrypt.MinCost
}

func validRegister() RegisterInput {
	return RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
		Age:      28,
		Gender:   user.GenderFemale,
	}
}

func (s *AuthServiceSuite) TestRegisterIssuesToken() {
	res, err := s.svc.Register(s.ctx, validRegister())
	s.Require().NoError(err)

	s.NotZero(res.User.ID)
	s.Equal(user.RoleUser, res.User.Role)
	s.NotEqual("correct-horse", res.User.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("correct-horse")))

	authed, err := s.svc.Authenticate(s.ctx, res.AccessToken)
	s.Require().NoError(err)
	s.Equal("alice", authed.Username)
}

func (s *AuthServiceSuite) TestRegisterDuplicateUsernameConflicts() {
	_, err := s.svc.Register(s.ctx, validRegister())
	s.Require().NoError(err)

	again := validRegister()
	again.Email = "someone-else@example.com"
	_, err = s.svc.Register(s.ctx, again)
	s.ErrorIs(err, fitfinder_errors.ErrAlreadyExists)
	s.Equal(http.StatusBadRequest, fitfinder_errors.HTTPStatus(err))
	s.Equal("CONFLICT", fitfinder_errors.Code(err))
}

func (s *AuthServiceSuite) TestRegisterDuplicateEmailConflicts() {
	_, err := s.svc.Register(s.ctx, validRegister())
	s.Require().NoError(err)

	again := validRegister()
	again.Username = "alice2"
	_, err = s.svc.Register(s.ctx, again)
	s.ErrorIs(err, fitfinder_errors.ErrAlreadyExists)
}

func (s *AuthServiceSuite) TestRegisterValidation() {
	in := RegisterInput{
		Username: "al",
		Email:    "not-an-email",
		Password: "short",
		Age:      15,
		Gender:   "Other",
		Role:     "root",
	}
	_, err := s.svc.Register(s.ctx, in)

	var verr *fitfinder_errors.ValidationError
	s.Require().True(errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	s.ElementsMatch([]string{"user_username", "user_email", "user_password", "user_age", "user_gender", "user_role"}, fields)
	s.Equal(http.StatusBadRequest, fitfinder_errors.HTTPStatus(err))
}

func (s *AuthServiceSuite) TestRegisterAgeBoundsInclusive() {
	for i, age := range []int{16, 80} {
		in := validRegister()
		in.Username = []string{"young", "elder"}[i]
		in.Email = in.Username + "@example.com"
		in.Age = age
		_, err := s.svc.Register(s.ctx, in)
		s.NoError(err, "age %d", age)
	}
}

func (s *AuthServiceSuite) TestLoginSucceeds() {
	_, err := s.svc.Register(s.ctx, validRegister())
	s.Require().NoError(err)

	res, err := s.svc.Login(s.ctx, "alice", "correct-horse")
	s.Require().NoError(err)
	s.NotEmpty(res.AccessToken)
	s.Equal("alice", res.User.Username)
}

func (s *AuthServiceSuite) TestLoginFailuresAreIndistinguishable() {
	_, err := s.svc.Register(s.ctx, validRegister())
	s.Require().NoError(err)

	_, wrongPassword := s.svc.Login(s.ctx, "alice", "wrong-password")
	_, unknownUser := s.svc.Login(s.ctx, "nobody", "wrong-password")

	s.ErrorIs(wrongPassword, fitfinder_errors.ErrInvalidCredentials)
	s.ErrorIs(unknownUser, fitfinder_errors.ErrInvalidCredentials)
	s.Equal(wrongPassword.Error(), unknownUser.Error())
	s.Equal(http.StatusUnauthorized, fitfinder_errors.HTTPStatus(unknownUser))
}

func (s *AuthServiceSuite) TestAuthenticateFailures() {
	_, err := s.svc.Authenticate(s.ctx, "")
	s.ErrorIs(err, fitfinder_errors.ErrNotAuthenticated)

	_, err = s.svc.Authenticate(s.ctx, "garbage")
	s.ErrorIs(err, fitfinder_errors.ErrInvalidCredentials)

	res, err := s.svc.Register(s.ctx, validRegister())
	s.Require().NoError(err)

	s.users.delete("alice")
	_, err = s.svc.Authenticate(s.ctx, res.AccessToken)
	s.ErrorIs(err, fitfinder_errors.ErrUserNotFound)
	s.Equal(http.StatusUnauthorized, fitfinder_errors.HTTPStatus(err))
}

func (s *AuthServiceSuite) TestAuthenticateExpiredToken() {
	res, err := s.svc.Register(s.ctx, validRegister())
	s.Require().NoError(err)

	s.clock.Advance(time.Hour + time.Second)
	_, err = s.svc.Authenticate(s.ctx, res.AccessToken)
	s.ErrorIs(err, fitfinder_errors.ErrInvalidCredentials)
}

func (s *AuthServiceSuite) TestEnsureAdminIsIdempotent() {
	in := validRegister()
	in.Username = "admin"
	in.Email = "admin@example.com"

	admin, created, err := s.svc.EnsureAdmin(s.ctx, in)
	s.Require().NoError(err)
	s.True(created)
	s.Equal(user.RoleAdmin, admin.Role)

	again, created, err := s.svc.EnsureAdmin(s.ctx, in)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(admin.ID, again.ID)
}

func (s *AuthServiceSuite) TestEnsureAdminRejectsEmailOwnedByAnotherUser() {
	_, err := s.svc.Register(s.ctx, validRegister())
	s.Require().NoError(err)

	in := validRegister()
	in.Username = "admin"

	_, created, err := s.svc.EnsureAdmin(s.ctx, in)
	s.ErrorIs(err, fitfinder_errors.ErrAlreadyExists)
	s.False(created)
}

func (s *AuthServiceSuite) TestAuthorize() {
	s.NoError(Authorize(user.User{Role: user.RoleAdmin}, user.RoleAdmin))
	s.NoError(Authorize(user.User{Role: user.RoleAdmin}, user.RoleUser))
	s.NoError(Authorize(user.User{Role: user.RoleUser}, user.RoleUser))

	err := Authorize(user.User{Role: user.RoleUser}, user.RoleAdmin)
	s.ErrorIs(err, fitfinder_errors.ErrForbidden)
	s.ErrorIs(Authorize(user.User{Role: "ghost"}, user.RoleUser), fitfinder_errors.ErrForbidden)
}
