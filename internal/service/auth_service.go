package service

import (
	"context"
	"errors"
	"time"

	"gym-coach-app/internal/domain"
	"gym-coach-app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrRegistrationDisabled = errors.New("registration is currently disabled")
	ErrEmailNotAllowed      = errors.New("this email is not authorized")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// AuthService handles registration and credential-based authentication.
type AuthService interface {
	// Register creates a new user account. The default role set is
	// {TRAINEE} when roles is empty.
	Register(ctx context.Context, name, email, password string, roles []domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo           repository.UserRepository
	policy             *AccessPolicy
	enableRegistration bool
	jwtSecret          string
	jwtExpiration      time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, policy *AccessPolicy, enableRegistration bool, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		userRepo:           userRepo,
		policy:             policy,
		enableRegistration: enableRegistration,
		jwtSecret:          jwtSecret,
		jwtExpiration:      jwtExpiration,
	}
}

// Register handles new user self-registration.
func (s *authService) Register(ctx context.Context, name, email, password string, roles []domain.Role) (*domain.User, error) {
	if !s.enableRegistration {
		return nil, ErrRegistrationDisabled
	}
	if email == "" || password == "" {
		return nil, errors.New("email and password cannot be empty")
	}
	if !s.policy.CanAuthenticate(email) {
		return nil, ErrEmailNotAllowed
	}

	// Check if user already exists.
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, ErrHashingFailed
	}

	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleTrainee}
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Roles:        roles,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// The unique index catches registrations racing between the
		// GetByEmail check and the insert.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID

	// Never hand the hash back to callers.
	user.PasswordHash = ""
	return user, nil
}

// Login handles user authentication and JWT generation. Every failure mode
// (unknown user, allow-list rejection, no password set, wrong password)
// maps to the same error so account existence never leaks.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		err = ErrAuthenticationFailed
		return
	}

	if !s.policy.CanAuthenticate(email) {
		err = ErrAuthenticationFailed
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
			user = nil
			return
		}
		user = nil
		return
	}

	if !VerifyPassword(password, user.PasswordHash) {
		err = ErrAuthenticationFailed
		user = nil
		return
	}

	// Authentication successful - generate a JWT carrying the full role
	// set. Role changes are picked up on the next login, not mid-session.
	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// --- JWT Helper ---

// Claims defines the structure of the JWT payload. Exported so the API
// middleware can parse the same shape.
type Claims struct {
	UserID string        `json:"uid"`
	Roles  []domain.Role `json:"roles"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &Claims{
		UserID: user.ID.Hex(),
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "gym-coach-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication.
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
