package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/tokens"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testManager() *tokens.Manager {
	return tokens.NewManager(tokens.Options{
		Secret:      "middleware-secret",
		Issuer:      "volunteerhub-test",
		AccessTTL:   time.Minute,
		RefreshTTL:  time.Hour,
		DownloadTTL: time.Hour,
		ResetTTL:    time.Hour,
	})
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	r.GET("/", handlers...)
	return r
}

func doGet(r http.Handler, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	tm := testManager()
	r := newEngine(RequireAuth(tm))

	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")

	w = doGet(r, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")

	pair, err := tm.IssuePair(42, models.RoleOrganization)
	require.NoError(t, err)

	w = doGet(r, pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42,"role":"organization"}`, w.Body.String())
}

func TestRequireAuthExpired(t *testing.T) {
	past := testManager().WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
	token, err := past.IssueAccess(1, models.RoleVolunteer)
	require.NoError(t, err)

	w := doGet(newEngine(RequireAuth(testManager())), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token has expired")
}

func TestOptionalAuth(t *testing.T) {
	tm := testManager()
	r := newEngine(OptionalAuth(tm))

	w := doGet(r, "garbage")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"role":""}`, w.Body.String())

	token, err := tm.IssueAccess(7, models.RoleVolunteer)
	require.NoError(t, err)
	w = doGet(r, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"role":"volunteer"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	tm := testManager()
	r := newEngine(RequireAuth(tm), RequireRole(models.RoleAdmin))

	volunteer, err := tm.IssueAccess(1, models.RoleVolunteer)
	require.NoError(t, err)
	admin, err := tm.IssueAccess(2, models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(r, volunteer).Code)
	assert.Equal(t, http.StatusOK, doGet(r, admin).Code)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("1.2.3.4"))
	assert.True(t, limiter.Allow("1.2.3.4"))
	assert.False(t, limiter.Allow("1.2.3.4"))
	assert.True(t, limiter.Allow("5.6.7.8"))

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("1.2.3.4"))

	now = now.Add(limiterIdleTTL + time.Second)
	limiter.Allow("9.9.9.9")
	assert.Len(t, limiter.clients, 1)
}

func TestIPRateLimiterMiddleware(t *testing.T) {
	r := newEngine(NewIPRateLimiter(0.001, 1).Middleware())

	assert.Equal(t, http.StatusOK, doGet(r, "").Code)
	w := doGet(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestRequestLogger(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetOutput(&bytes.Buffer{})
	r := newEngine(RequestLogger(log))

	doGet(r, "")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.Equal(t, "/", entry.Data["path"])
}
