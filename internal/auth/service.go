package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/emanuelaromano/book-manager/internal/config"
	"github.com/emanuelaromano/book-manager/internal/entities"
	domainerrors "github.com/emanuelaromano/book-manager/internal/errors"
	"github.com/emanuelaromano/book-manager/internal/validation"
)

var (
	ErrCredentialsRequired = domainerrors.Validation("Email and password required")
	ErrEmailTaken          = domainerrors.Conflict("Email already registered")
	ErrInvalidCredentials  = domainerrors.ErrInvalidCredentials
)

// UserStore is the account storage the service needs.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Credentials is the register and login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is the outcome of a successful register or login.
type Session struct {
	User      entities.PublicUser
	Token     string
	ExpiresAt time.Time
}

// Service handles registration, login and session lookup.
type Service struct {
	users      UserStore
	tokens     *TokenManager
	validator  *validation.Validator
	bcryptCost int
}

// NewService creates a new authentication service.
func NewService(users UserStore, tokens *TokenManager, cfg config.Auth) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		validator:  validation.New(),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates an account and starts a session for it.
func (s *Service) Register(ctx context.Context, creds Credentials) (*Session, error) {
	creds, err := s.checkCredentials(creds)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, creds.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(creds.Password, s.bcryptCost)
	if err != nil {
		return nil, domainerrors.Wrap(err, "failed to hash password")
	}

	// A concurrent registration can still win between the check and here;
	// the store reports that as a conflict too.
	user, err := s.users.Create(ctx, creds.Email, hash)
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login verifies credentials and starts a session. Unknown emails and wrong
// passwords produce the same error.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	creds, err := s.checkCredentials(creds)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := CheckPassword(creds.Password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, domainerrors.Internal("failed to check password", err)
	}

	return s.issue(user)
}

// Me returns the account behind a verified session. A user deleted after
// the token was issued no longer has a session.
func (s *Service) Me(ctx context.Context, userID uint) (*entities.PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// Authenticate verifies a session token.
func (s *Service) Authenticate(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}

func (s *Service) checkCredentials(creds Credentials) (Credentials, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := s.validator.Validate(creds); err != nil {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return creds, ErrCredentialsRequired.WithDetails(domainErr.Details)
		}
		return creds, err
	}
	return creds, nil
}

func (s *Service) issue(user *entities.User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, domainerrors.Internal("failed to issue session", err)
	}
	return &Session{User: user.Public(), Token: token, ExpiresAt: expiresAt}, nil
}
