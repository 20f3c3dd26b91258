package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"disasterprep/middleware"
	"disasterprep/session"
	"disasterprep/utils"
)

// LoginHandler signs the visitor in and renews their session id.
// POST /auth/login
func (h *APIHandler) LoginHandler(c *gin.Context) {
	gate := middleware.Gate(c)
	if gate == nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "", errors.New("session middleware not installed"))
		return
	}
	var creds session.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Email and passcode are required", err)
		return
	}

	state, err := gate.Login(c.Request.Context(), creds)
	switch {
	case err == nil:
		if !middleware.RenewSessionID(c, h.opts.Cookies) {
			h.log.Warn("Could not renew session id after sign-in")
		}
		utils.SendData(c, http.StatusOK, "Signed in", state)
	case errors.Is(err, session.ErrInvalidCredentials):
		utils.SendJSONError(c, http.StatusUnauthorized, "Invalid email or passcode", nil)
	case errors.Is(err, session.ErrLoginSuperseded):
		utils.SendJSONError(c, http.StatusConflict, "Signed out while signing in", nil)
	default:
		utils.SendJSONError(c, http.StatusServiceUnavailable, "", err)
	}
}

// LogoutHandler signs the visitor out.
// POST /auth/logout
func (h *APIHandler) LogoutHandler(c *gin.Context) {
	if gate := middleware.Gate(c); gate != nil {
		gate.Logout()
	}
	utils.SendData(c, http.StatusOK, "Signed out", middleware.SessionState(c))
}

// SessionHandler reports the visitor's session state.
// GET /auth/session
func (h *APIHandler) SessionHandler(c *gin.Context) {
	utils.SendData(c, http.StatusOK, "OK", middleware.SessionState(c))
}
