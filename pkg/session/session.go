package session

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// CookieName is the browser cookie carrying the signed session token
const CookieName = "roster_session"

var signingMethod = jwt.SigningMethodHS256

// Claims represents the session token claims
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens. A session only identifies
// which form a browser is editing; it carries no user identity.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a manager signing with secret. An empty secret is
// replaced by a random one, so tokens do not survive a restart.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: key, ttl: ttl}, nil
}

// TTL returns the lifetime of issued tokens
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a new session id and its signed token
func (m *Manager) Issue() (id string, token string, err error) {
	id = uuid.NewString()
	token, err = m.Sign(id)
	return id, token, err
}

// Sign creates a token for an existing session id
func (m *Manager) Sign(id string) (string, error) {
	claims := &Claims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(signingMethod, claims).SignedString(m.secret)
}

// Verify checks a token and returns the session id it carries
func (m *Manager) Verify(tokenString string) (string, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.SessionID, nil
}

// Refresh verifies a token and, once more than half of its lifetime has
// passed, returns a newly signed token for the same session. fresh is empty
// while the current token is still young.
func (m *Manager) Refresh(tokenString string) (id string, fresh string, err error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return "", "", err
	}
	if claims.IssuedAt == nil || time.Since(claims.IssuedAt.Time) > m.ttl/2 {
		fresh, err = m.Sign(claims.SessionID)
		if err != nil {
			return "", "", err
		}
	}
	return claims.SessionID, fresh, nil
}

func (m *Manager) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != signingMethod {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid session token")
	}

	return claims, nil
}
