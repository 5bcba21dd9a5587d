// Package session identifies browser sessions. A session id is a random UUID
// carried in an encrypted PASETO v4.local cookie so clients can neither forge
// nor enumerate other sessions.
package session

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"github.com/listenupapp/swatches/internal/id"
)

const (
	tokenIssuer   = "swatches"
	tokenAudience = "swatches-browser"

	// PASETO v4 symmetric keys are 256 bits.
	keyBytesSize = 32
)

// ErrInvalidToken is returned for tokens that fail decryption or validation.
var ErrInvalidToken = errors.New("invalid session token")

// Claims are the verified contents of a session token.
type Claims struct {
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies session tokens.
type TokenService struct {
	key paseto.V4SymmetricKey
	ttl time.Duration
	now func() time.Time
}

// NewTokenService creates a token service. A nil key generates a random one,
// so tokens do not survive a restart; neither does the state they point at.
func NewTokenService(key []byte, ttl time.Duration) (*TokenService, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}

	var symmetricKey paseto.V4SymmetricKey
	if key == nil {
		symmetricKey = paseto.NewV4SymmetricKey()
	} else {
		if len(key) != keyBytesSize {
			return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyBytesSize, len(key))
		}
		var err error
		symmetricKey, err = paseto.V4SymmetricKeyFromBytes(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
		}
	}

	return &TokenService{key: symmetricKey, ttl: ttl, now: time.Now}, nil
}

// TTL returns the token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// NewSession mints a fresh session id and its token.
func (s *TokenService) NewSession() (string, *Claims, error) {
	return s.Issue(uuid.NewString())
}

// Issue creates a token for an existing session id.
func (s *TokenService) Issue(sessionID string) (string, *Claims, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return "", nil, fmt.Errorf("session id must be a uuid: %w", err)
	}

	now := s.now()
	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(sessionID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.ttl))

	jti, err := id.Generate(id.PrefixToken)
	if err != nil {
		return "", nil, fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(jti)

	claims := &Claims{
		SessionID: sessionID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	return token.V4Encrypt(s.key, nil), claims, nil
}

// Verify decrypts a token and checks issuer, audience and validity window.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	now := s.now()

	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(now))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	subject, err := token.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if _, err := uuid.Parse(subject); err != nil {
		return nil, fmt.Errorf("%w: subject is not a session id", ErrInvalidToken)
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return &Claims{SessionID: subject, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

// NeedsRefresh reports whether less than half of the token's lifetime remains.
func (s *TokenService) NeedsRefresh(c *Claims) bool {
	return c.ExpiresAt.Sub(s.now()) < s.ttl/2
}
