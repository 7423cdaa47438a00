package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"fitfinder-backend/internal/domain/user"
	"fitfinder-backend/internal/repository"
	fitfinder_errors "fitfinder-backend/pkg/errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	maxEmailLength    = 100
	minPasswordLength = 8
	// bcrypt ignores input beyond 72 bytes.
	maxPasswordLength = 72
	minAge            = 16
	maxAge            = 80
)

type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *TokenIssuer
	bcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(userRepo repository.UserRepository, tokens *TokenIssuer) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Age      int
	Gender   user.Gender
	Role     user.Role
}

type AuthResult struct {
	User        user.User
	AccessToken string
}

func (s *AuthService) TokenTTL() int {
	return int(s.tokens.TTL().Seconds())
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = user.RoleUser
	}
	if err := validateRegister(in); err != nil {
		return AuthResult{}, err
	}

	taken, err := s.userRepo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if taken {
		return AuthResult{}, fitfinder_errors.ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return AuthResult{}, err
	}

	newUser := &user.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Age:          in.Age,
		Gender:       in.Gender,
		Role:         in.Role,
	}
	// A concurrent registration can still win between the check and the
	// insert; the repository maps the unique violation to ErrAlreadyExists.
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return AuthResult{}, err
	}

	token, err := s.tokens.Issue(newUser.Username)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: *newUser, AccessToken: token}, nil
}

// Login fails with ErrInvalidCredentials for an unknown username and for a
// wrong password alike.
func (s *AuthService) Login(ctx context.Context, username, password string) (AuthResult, error) {
	if username == "" || password == "" {
		return AuthResult{}, fitfinder_errors.ErrInvalidCredentials
	}

	u, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, fitfinder_errors.ErrUserNotFound) {
			// Burn the same bcrypt work so unknown usernames are not
			// distinguishable by response time.
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return AuthResult{}, fitfinder_errors.ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, fitfinder_errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.Username)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u, AccessToken: token}, nil
}

// Authenticate resolves a session token to the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (user.User, error) {
	if token == "" {
		return user.User{}, fitfinder_errors.ErrNotAuthenticated
	}
	username, err := s.tokens.Verify(token)
	if err != nil {
		return user.User{}, err
	}
	return s.userRepo.GetUserByUsername(ctx, username)
}

// Authorize checks that u holds a role satisfying required.
func Authorize(u user.User, required user.Role) error {
	if !u.Role.Satisfies(required) {
		return fitfinder_errors.ErrForbidden
	}
	return nil
}

// EnsureAdmin creates an admin account unless the username already exists.
// created reports whether a new row was written.
func (s *AuthService) EnsureAdmin(ctx context.Context, in RegisterInput) (u user.User, created bool, err error) {
	existing, err := s.userRepo.GetUserByUsername(ctx, strings.TrimSpace(in.Username))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, fitfinder_errors.ErrUserNotFound) {
		return user.User{}, false, err
	}

	if owner, err := s.userRepo.GetUserByEmail(ctx, strings.TrimSpace(in.Email)); err == nil {
		return user.User{}, false, fmt.Errorf("email belongs to %q: %w", owner.Username, fitfinder_errors.ErrAlreadyExists)
	} else if !errors.Is(err, fitfinder_errors.ErrUserNotFound) {
		return user.User{}, false, err
	}

	in.Role = user.RoleAdmin
	res, err := s.Register(ctx, in)
	if err != nil {
		return user.User{}, false, err
	}
	return res.User, true, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("fitfinder-dummy-password"), s.bcryptCost)
	})
	return s.dummyHash
}

func validateRegister(in RegisterInput) error {
	verr := &fitfinder_errors.ValidationError{}
	add := func(field, msg string) {
		verr.Fields = append(verr.Fields, fitfinder_errors.FieldError{Field: field, Message: msg})
	}

	if n := len(in.Username); n < minUsernameLength || n > maxUsernameLength {
		add("user_username", "must be between 3 and 50 characters")
	}
	if len(in.Email) > maxEmailLength {
		add("user_email", "must be at most 100 characters")
	} else if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		add("user_email", "must be a valid email address")
	}
	if n := len(in.Password); n < minPasswordLength || n > maxPasswordLength {
		add("user_password", "must be between 8 and 72 characters")
	}
	if in.Age < minAge || in.Age > maxAge {
		add("user_age", "must be between 16 and 80")
	}
	if !in.Gender.Valid() {
		add("user_gender", "must be one of Male, Female")
	}
	if !in.Role.Valid() {
		add("user_role", "must be one of user, admin")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
