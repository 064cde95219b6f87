// Package auth implements credential storage and session tokens.
//
// Passwords are stored as bcrypt digests. Sessions are stateless signed JWTs
// carrying the user id and username; the reserved admin identity is a username
// comparison, not a role claim.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jspicer/mediahub/internal/models"
	"github.com/jspicer/mediahub/internal/repositories"
	"github.com/jspicer/mediahub/internal/shared"
)

// HashPassword returns the bcrypt digest of a password at default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt digest.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Session identifies an authenticated caller for the duration of one request.
type Session struct {
	UserID   string
	Username string
}

// Authenticator registers and authenticates users and mints session tokens.
type Authenticator struct {
	users  *repositories.UserRepository
	secret []byte
	ttl    time.Duration
}

// NewAuthenticator creates an Authenticator over the given user repository.
func NewAuthenticator(users *repositories.UserRepository, secret string, ttl time.Duration) *Authenticator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Authenticator{users: users, secret: []byte(secret), ttl: ttl}
}

// Register creates a new account.
//
// Both fields are trimmed first; empty values report [shared.ErrInvalidInput]
// and a taken username reports [shared.ErrDuplicateUsername].
func (a *Authenticator) Register(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", shared.ErrInvalidInput)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(0, username, hash)
	if err := a.users.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies a username/password pair.
//
// Every failure path reports the same [shared.ErrAuthFailed] so responses
// never reveal whether the username exists.
func (a *Authenticator) Authenticate(username, password string) (*models.User, error) {
	user, err := a.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrAuthFailed
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}

	if !CheckPassword(user.PasswordHash(), password) {
		return nil, shared.ErrAuthFailed
	}

	return user, nil
}

// MintToken issues a signed session token for the user.
func (a *Authenticator) MintToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID(),
		"username": user.Username(),
		"iat":      now.Unix(),
		"exp":      now.Add(a.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a session token and returns the session it carries.
func (a *Authenticator) VerifyToken(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, shared.ErrNotAuthenticated
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	if sub == "" || username == "" {
		return nil, shared.ErrNotAuthenticated
	}

	return &Session{UserID: sub, Username: username}, nil
}
