package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disasterprep/config"
	"disasterprep/session"
)

var opts = CookieOptions{SessionCookie: "dp_session", NoticeCookie: "dp_notice", MaxAge: time.Hour}

func newRouter(manager *session.Manager, protectedCalls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Cors([]string{"https://example.org"}), Session(manager, opts))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"notice": TakeNotice(c, opts), "session": SessionState(c)})
	})
	r.GET("/dashboard", RequireMember(opts), func(c *gin.Context) {
		*protectedCalls++
		c.String(http.StatusOK, "member content")
	})
	return r
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func newManager() *session.Manager {
	provider := session.NewStaticIdentityProvider([]config.Member{{Email: "ana@example.org", Passcode: "pw", Nickname: "Ana"}})
	return session.NewManager(provider, time.Hour)
}

func TestRequireMemberRedirectsAnonymous(t *testing.T) {
	calls := 0
	r := newRouter(newManager(), &calls)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "member content")
	assert.Zero(t, calls, "the protected handler must never run")

	notice := cookieNamed(w, opts.NoticeCookie)
	require.NotNil(t, notice)

	// The landing page shows the notice once, then clears it.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(notice)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), SignInNotice)
	cleared := cookieNamed(w, opts.NoticeCookie)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestRequireMemberReevaluatesEveryRequest(t *testing.T) {
	manager := newManager()
	calls := 0
	r := newRouter(manager, &calls)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	sessionCookie := cookieNamed(w, opts.SessionCookie)
	require.NotNil(t, sessionCookie)

	gate, ok := manager.Lookup(sessionCookie.Value)
	require.True(t, ok)
	_, err := gate.Login(context.Background(), session.Credentials{Email: "ana@example.org", Passcode: "pw"})
	require.NoError(t, err)

	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(sessionCookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, get().Code)
	assert.Equal(t, 1, calls)

	gate.Logout()
	assert.Equal(t, http.StatusFound, get().Code)
	assert.Equal(t, 1, calls)
}

func TestSessionCookieIsReused(t *testing.T) {
	manager := newManager()
	calls := 0
	r := newRouter(manager, &calls)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	first := cookieNamed(w, opts.SessionCookie)
	require.NotNil(t, first)
	assert.True(t, first.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(first)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Nil(t, cookieNamed(w, opts.SessionCookie), "a live session is not reissued")
	assert.Equal(t, 1, manager.Len())
}

func TestCorsPreflight(t *testing.T) {
	calls := 0
	r := newRouter(newManager(), &calls)
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://example.org")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCorsAllowedOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	serve := func(allowed []string, origin string) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(Cors(allowed))
		r.GET("/auth/session", func(c *gin.Context) { c.Status(http.StatusOK) })
		req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("listed origin gets credentials", func(t *testing.T) {
		w := serve([]string{"https://Example.org/"}, "https://example.org")
		assert.Equal(t, "https://example.org", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unlisted origin gets nothing", func(t *testing.T) {
		w := serve([]string{"https://example.org"}, "https://evil.example")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("no list means same-origin only", func(t *testing.T) {
		w := serve(nil, "https://evil.example")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("wildcard never carries credentials", func(t *testing.T) {
		w := serve([]string{"*"}, "https://evil.example")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("listed origin wins over wildcard", func(t *testing.T) {
		w := serve([]string{"*", "https://example.org"}, "https://example.org")
		assert.Equal(t, "https://example.org", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestLoggerPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
