package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/recipebox/recipebox-api/internal/crypto"
	"github.com/recipebox/recipebox-api/internal/metrics"
	"github.com/recipebox/recipebox-api/internal/model"
	"github.com/recipebox/recipebox-api/internal/repository"
	"github.com/recipebox/recipebox-api/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrEmailRequired      = errors.New("users must have an email address")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles account and token business logic.
type AuthService struct {
	users    *repository.UserRepository
	hasher   *crypto.Hasher
	tokens   *crypto.TokenIssuer
	validate *validation.Validator
	metrics  *metrics.Metrics

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users *repository.UserRepository,
	hasher *crypto.Hasher,
	tokens *crypto.TokenIssuer,
	validate *validation.Validator,
	m *metrics.Metrics,
) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, validate: validate, metrics: m}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a regular, active account.
func (s *AuthService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	return s.create(ctx, req, false)
}

// CreateSuperuser registers an active account with staff and superuser rights.
func (s *AuthService) CreateSuperuser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	return s.create(ctx, req, true)
}

func (s *AuthService) create(ctx context.Context, req model.CreateUserRequest, superuser bool) (*model.User, error) {
	req.Email = NormalizeEmail(req.Email)
	if req.Email == "" {
		return nil, validation.Field("email", "is required", ErrEmailRequired)
	}
	req.Name = strings.TrimSpace(req.Name)
	if superuser && req.Name == "" {
		req.Name = req.Email
	}
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		IsActive:     true,
		IsStaff:      superuser,
		IsSuperuser:  superuser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, validation.Field("email", ErrEmailTaken.Error(), ErrEmailTaken)
		}
		return nil, err
	}

	slog.Info("user created", "user_id", user.ID, "superuser", superuser)
	return user, nil
}

// IssueToken exchanges credentials for a bearer token. Unknown users, wrong
// passwords and inactive accounts all fail with ErrInvalidCredentials.
func (s *AuthService) IssueToken(ctx context.Context, req model.TokenRequest) (model.TokenResponse, error) {
	if err := s.validate.Validate(req); err != nil {
		return model.TokenResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return model.TokenResponse{}, err
		}
		// Burn the same hashing cost so unknown emails are not distinguishable by timing.
		s.hasher.Verify(req.Password, s.dummy())
		s.metrics.TokenRequest("invalid")
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.TokenResponse{}, err
	}
	if !match || !user.IsActive {
		s.metrics.TokenRequest("invalid")
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.TokenResponse{}, err
	}

	s.metrics.TokenRequest("success")
	return model.TokenResponse{Token: token}, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("recipebox-dummy-password")
	})
	return s.dummyHash
}

// GetUser returns the account with the given ID.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetActive enables or disables login for the account with the given email.
func (s *AuthService) SetActive(ctx context.Context, email string, active bool) error {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.users.SetActive(ctx, user.ID, active); err != nil {
		return err
	}
	slog.Info("user activation changed", "user_id", user.ID, "active", active)
	return nil
}

// UpdateProfile changes the caller's own account. With partial set only the
// supplied fields change; otherwise email, password and name are all required.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateUserRequest, partial bool) (*model.User, error) {
	if !partial {
		missing := map[string]string{}
		if req.Email == nil {
			missing["email"] = "is required"
		}
		if req.Password == nil {
			missing["password"] = "is required"
		}
		if req.Name == nil {
			missing["name"] = "is required"
		}
		if len(missing) > 0 {
			return nil, &validation.Error{Fields: missing, Err: validation.ErrInvalid}
		}
	}

	if req.Email != nil {
		email := NormalizeEmail(*req.Email)
		if email == "" {
			return nil, validation.Field("email", "is required", ErrEmailRequired)
		}
		req.Email = &email
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, validation.Field("email", ErrEmailTaken.Error(), ErrEmailTaken)
		}
		return nil, err
	}
	return user, nil
}
