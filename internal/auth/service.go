package auth

import (
	"log/slog"
	"strings"

	"github.com/frahmantamala/iam-service/internal"
	iamDatamodel "github.com/frahmantamala/iam-service/internal/core/datamodel/iam"
)

// Repository is the store contract for the authentication flow. Uniqueness
// is ultimately enforced by the store's constraints; implementations
// translate duplicate-key violations into the Conflict errors from the
// internal package.
type Repository interface {
	// WithTx runs fn against a transactional view of the repository.
	WithTx(fn func(Repository) error) error

	UserExistsByEmail(email string) (bool, error)
	CreateUser(user *User) error
	GetUserByEmail(email string) (*User, error)
	GetUserByID(id string) (*User, error)
	GetRoleByName(name string) (*Role, error)
	CreateRefreshToken(record *iamDatamodel.RefreshToken) error
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// NormalizeEmail trims and lower-cases. Every lookup and uniqueness check
// runs on the normalized form, so normalize(normalize(e)) == normalize(e).
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with the default USER role and a hashed
// credential. The uniqueness check and insert run in one transaction; a
// concurrent duplicate that slips past the check is rejected by the unique
// constraint and surfaces as the same Conflict.
func (s *Service) Register(dto SignUpDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(dto.Email)

	passwordHash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	var created *User
	err = s.repo.WithTx(func(tx Repository) error {
		exists, err := tx.UserExistsByEmail(email)
		if err != nil {
			return internal.NewInternalError("failed to check email uniqueness", err)
		}
		if exists {
			return internal.ErrEmailAlreadyRegistered
		}

		defaultRole, err := tx.GetRoleByName(DefaultRoleName)
		if err != nil {
			if isNotFound(err) {
				// Provisioning invariant violated: bootstrap never ran.
				return internal.ErrDefaultRoleMissing
			}
			return internal.NewInternalError("failed to load default role", err)
		}

		user := &User{
			Email:        email,
			FullName:     strings.TrimSpace(dto.FullName),
			PasswordHash: passwordHash,
			Roles:        []Role{*defaultRole},
		}

		if err := tx.CreateUser(user); err != nil {
			return err
		}

		// Re-read with the role/permission graph populated; the in-memory
		// role slice does not reflect store-computed associations.
		created, err = tx.GetUserByID(user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", created.ID, "email", created.Email)
	return created, nil
}

// SignIn verifies the credential and returns an access/refresh pair. An
// unknown email and a wrong password produce the identical Unauthorized
// outcome. The refresh ledger row is written before any token leaves this
// function: if the write fails, no tokens are returned.
func (s *Service) SignIn(dto SignInDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	email := NormalizeEmail(dto.Email)

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		if isNotFound(err) {
			return AuthTokens{}, internal.ErrInvalidCredentials
		}
		return AuthTokens{}, internal.NewInternalError("failed to load user", err)
	}

	if !s.hasher.Verify(dto.Password, user.PasswordHash) {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue access token", err)
	}

	refresh, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue refresh token", err)
	}

	record := &iamDatamodel.RefreshToken{
		UserID:    user.ID,
		TokenID:   refresh.TokenID,
		TokenHash: HashToken(refresh.Token),
		ExpiresAt: refresh.ExpiresAt,
	}
	if err := s.repo.CreateRefreshToken(record); err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to persist refresh token record", err)
	}

	s.logger.Info("user signed in", "user_id", user.ID)

	return AuthTokens{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		TokenType:        "Bearer",
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

// VerifyAccessToken parses and verifies a bearer token against the access
// signing domain.
func (s *Service) VerifyAccessToken(token string) (*internal.Principal, error) {
	claims, err := s.tokens.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}
	return PrincipalFromClaims(claims), nil
}

func isNotFound(err error) bool {
	appErr, ok := internal.IsAppError(err)
	return ok && appErr.Type == internal.ErrorTypeNotFound
}
