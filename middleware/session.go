package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"disasterprep/session"
)

const (
	gateKey      = "session_gate"
	sessionIDKey = "session_id"
	managerKey   = "session_manager"
)

// SignInNotice is shown on the landing page after a protected page turned a visitor away.
const SignInNotice = "Sign in to access your volunteer dashboard"

// CookieOptions controls the session and notice cookies.
type CookieOptions struct {
	SessionCookie string
	NoticeCookie  string
	MaxAge        time.Duration
	Secure        bool
}

// Session attaches the visitor's gate to the request, opening a new session
// (and setting its cookie) when the request carries none or an expired one.
func Session(manager *session.Manager, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		incoming, _ := c.Cookie(opts.SessionCookie)
		id, gate := manager.Open(incoming)
		if id != incoming {
			setSessionCookie(c, opts, id)
		}
		c.Set(gateKey, gate)
		c.Set(sessionIDKey, id)
		c.Set(managerKey, manager)
		c.Next()
	}
}

func setSessionCookie(c *gin.Context, opts CookieOptions, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.SessionCookie, id, int(opts.MaxAge.Seconds()), "/", "", opts.Secure, true)
}

// RenewSessionID moves the visitor's gate to a new session id and sends the
// new cookie. Call it when the gate's privileges change, so an id known to
// someone else before sign-in is worthless afterwards.
func RenewSessionID(c *gin.Context, opts CookieOptions) bool {
	v, ok := c.Get(managerKey)
	if !ok {
		return false
	}
	manager, ok := v.(*session.Manager)
	if !ok {
		return false
	}
	next, ok := manager.Rotate(c.GetString(sessionIDKey))
	if !ok {
		return false
	}
	setSessionCookie(c, opts, next)
	c.Set(sessionIDKey, next)
	return true
}

// Gate returns the gate attached by Session. Without the Session middleware
// every visitor is anonymous.
func Gate(c *gin.Context) *session.Gate {
	if v, ok := c.Get(gateKey); ok {
		if g, ok := v.(*session.Gate); ok {
			return g
		}
	}
	return nil
}

// SessionState is the read-only view of the visitor's gate.
func SessionState(c *gin.Context) session.State {
	if g := Gate(c); g != nil {
		return g.Snapshot()
	}
	return session.State{}
}

// RequireMember guards member-only routes. It checks the gate on every
// request; anonymous visitors are redirected to "/" with a one-shot notice
// and the protected handler never runs.
func RequireMember(opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionState(c).Authenticated {
			c.Next()
			return
		}
		zap.L().Named("Session").Info("Redirecting anonymous visitor from protected page", zap.String("path", c.Request.URL.Path))
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.NoticeCookie, SignInNotice, 60, "/", "", opts.Secure, true)
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
}

// TakeNotice returns the pending notice, if any, and clears it.
func TakeNotice(c *gin.Context, opts CookieOptions) string {
	notice, err := c.Cookie(opts.NoticeCookie)
	if err != nil || notice == "" {
		return ""
	}
	c.SetCookie(opts.NoticeCookie, "", -1, "/", "", opts.Secure, true)
	return notice
}
