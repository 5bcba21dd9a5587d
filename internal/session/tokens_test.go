package session

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(bytes.Repeat([]byte{7}, keyBytesSize), time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	_, err := NewTokenService(nil, time.Hour)
	require.NoError(t, err, "nil key generates one")

	_, err = NewTokenService(make([]byte, 16), time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(nil, 0)
	assert.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestTokenService(t)

	token, issued, err := svc.NewSession()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Contains(t, token, "v4.local.")

	_, err = uuid.Parse(issued.SessionID)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, issued.SessionID, claims.SessionID)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
	assert.WithinDuration(t, issued.IssuedAt, claims.IssuedAt, time.Second)
}

func TestIssue_RequiresUUID(t *testing.T) {
	svc := newTestTokenService(t)

	_, _, err := svc.Issue("not-a-uuid")
	assert.Error(t, err)
}

func TestIssue_SameSessionDifferentTokens(t *testing.T) {
	svc := newTestTokenService(t)
	sid := uuid.NewString()

	a, _, err := svc.Issue(sid)
	require.NoError(t, err)
	b, _, err := svc.Issue(sid)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerify_Rejects(t *testing.T) {
	svc := newTestTokenService(t)
	token, _, err := svc.NewSession()
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := NewTokenService(bytes.Repeat([]byte{9}, keyBytesSize), time.Hour)
		require.NoError(t, err)
		_, err = other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered", func(t *testing.T) {
		tampered := []byte(token)
		tampered[len(tampered)-2] ^= 0x01
		_, err := svc.Verify(string(tampered))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { svc.now = time.Now }()

		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNeedsRefresh(t *testing.T) {
	svc := newTestTokenService(t)
	now := time.Now()
	svc.now = func() time.Time { return now }

	assert.False(t, svc.NeedsRefresh(&Claims{ExpiresAt: now.Add(45 * time.Minute)}))
	assert.True(t, svc.NeedsRefresh(&Claims{ExpiresAt: now.Add(20 * time.Minute)}))
}

func TestContextHelpers(t *testing.T) {
	_, ok := IDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = IDFromContext(WithID(context.Background(), ""))
	assert.False(t, ok)

	sid, ok := IDFromContext(WithID(context.Background(), "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", sid)
}

func TestCookie(t *testing.T) {
	now := time.Now()
	c := Cookie("tok", &Claims{IssuedAt: now, ExpiresAt: now.Add(time.Hour)}, true)

	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	assert.Equal(t, "tok", TokenFromRequest(r))
}
