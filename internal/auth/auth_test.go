package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/biomax/dashboard/internal/metrics"
)

func TestGate(t *testing.T) {
	gate := NewGate("admin", "123456", "")

	cases := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"exact match", "admin", "123456", false},
		{"wrong password", "admin", "1234567", true},
		{"wrong user", "Admin", "123456", true},
		{"padded user", "  admin\t", "123456", true},
		{"padded password", "admin", "123456 ", true},
		{"empty", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := gate.Check(tc.username, tc.password)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGateWithHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	gate := NewGate("admin", "ignored", string(hash))
	assert.NoError(t, gate.Check("admin", "s3cret"))
	assert.ErrorIs(t, gate.Check("admin", "ignored"), ErrInvalidCredentials)
}

func TestGateWithoutUsernameRejectsAll(t *testing.T) {
	assert.ErrorIs(t, NewGate("", "", "").Check("", ""), ErrInvalidCredentials)
}

func newTestAuthenticator(t *testing.T, now *time.Time) (*Authenticator, *MemoryStore, *prometheus.Registry) {
	t.Helper()
	store := NewMemoryStore()
	store.now = func() time.Time { return *now }
	reg := prometheus.NewRegistry()
	a := NewAuthenticator(NewGate("admin", "123456", ""), store, time.Hour, nil, metrics.New(reg))
	a.now = func() time.Time { return *now }
	return a, store, reg
}

func TestLoginLogoutCycle(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	a, store, _ := newTestAuthenticator(t, &now)
	ctx := context.Background()

	_, err := a.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	s, err := a.Login(ctx, "admin", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "admin", s.Username)
	assert.Equal(t, now.Add(time.Hour), s.ExpiresAt)

	got, err := a.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	require.NoError(t, a.Logout(ctx, s.Token))
	_, err = a.Resolve(ctx, s.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())

	assert.NoError(t, a.Logout(ctx, "never-issued"))
}

func TestWrongCredentialsStayAnonymous(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	a, store, reg := newTestAuthenticator(t, &now)

	_, err := a.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 0, store.Len())

	_, err = a.Login(context.Background(), "  admin\t", "123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 0, store.Len())

	series, err := testutil.GatherAndCount(reg, "biomax_login_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	a, store, _ := newTestAuthenticator(t, &now)
	ctx := context.Background()

	s, err := a.Login(ctx, "admin", "123456")
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, err = a.Resolve(ctx, s.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// the next save sweeps expired sessions
	_, err = a.Login(ctx, "admin", "123456")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestCookieManager(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	m := NewCookieManager(true)
	m.now = func() time.Time { return now }

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	m.Set(c, "token-1", now.Add(time.Hour))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.Equal(t, "token-1", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "token-1"})
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = r
	token, ok := m.ReadToken(c)
	assert.True(t, ok)
	assert.Equal(t, "token-1", token)

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok = m.ReadToken(c)
	assert.False(t, ok)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 0)
	defer func() { _ = client.Close() }()
	store := NewRedisStore(client)
	ctx := context.Background()

	s := Session{Token: "test-" + time.Now().Format("150405.000"), Username: "admin", CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.Username, got.Username)

	require.NoError(t, store.Delete(ctx, s.Token))
	_, err = store.Get(ctx, s.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
