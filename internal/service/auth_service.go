package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// AuthService handles registration, login and JWT issuance. It is the auth
// gate the rest of the system consumes: everything downstream trusts the
// (userID, role) pair resolved from the token.
type AuthService interface {
	Register(ctx context.Context, name, email, password, phone string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo           repository.UserRepository
	jwtSecret          string
	jwtExpiration      time.Duration
	registrationPrefix string
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration, registrationPrefix string) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:           userRepo,
		jwtSecret:          jwtSecret,
		jwtExpiration:      jwtExpiration,
		registrationPrefix: registrationPrefix,
	}
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, name, email, password, phone string, role domain.Role) (*domain.User, error) {
	if name == "" || email == "" || password == "" || role == "" {
		return nil, errors.New("name, email, password, and role cannot be empty")
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Phone:        phone,
	}

	// The insert can hit two unique indexes: email (a registration race on
	// the same address) or registrationId (two registrations minting the
	// same member number). The former is terminal; the latter re-derives
	// the sequence and tries again.
	for attempt := 0; attempt < maxRegistrationIDAttempts; attempt++ {
		registrationID, err := s.nextRegistrationID(ctx)
		if err != nil {
			return nil, err
		}
		user.RegistrationID = registrationID

		userID, err := s.userRepo.Create(ctx, user)
		if err == nil {
			user.ID = userID
			user.PasswordHash = ""
			return user, nil
		}
		if !errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, err
		}

		if _, lookupErr := s.userRepo.GetByEmail(ctx, email); lookupErr == nil {
			return nil, ErrUserAlreadyExists
		} else if !errors.Is(lookupErr, repository.ErrNotFound) {
			return nil, lookupErr
		}
	}
	return nil, errors.New("could not allocate a unique registration ID")
}

// How many registration ID collisions Register tolerates before giving up.
const maxRegistrationIDAttempts = 3

// nextRegistrationID issues the next human-readable member number, e.g.
// "26LEVELUP0042": two-digit year, gym prefix, four-digit sequence that
// resets each year.
func (s *authService) nextRegistrationID(ctx context.Context) (string, error) {
	yearSuffix := fmt.Sprintf("%02d", time.Now().Year()%100)

	latest, err := s.userRepo.LatestRegistrationID(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Sprintf("%s%s%04d", yearSuffix, s.registrationPrefix, 1), nil
		}
		return "", err
	}

	seq := 1
	if len(latest) >= 6 && latest[:2] == yearSuffix {
		lastSeq, convErr := strconv.Atoi(latest[len(latest)-4:])
		if convErr == nil {
			seq = lastSeq + 1
		}
	}
	return fmt.Sprintf("%s%s%04d", yearSuffix, s.registrationPrefix, seq), nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		err = errors.New("email and password cannot be empty")
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
			return
		}
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		err = ErrAuthenticationFailed
		user = nil
		return
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "gym-app",
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
