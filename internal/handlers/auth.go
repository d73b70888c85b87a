package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pmadmin/console/internal/models"
	"pmadmin/console/internal/service"
)

func (h HandlerSet) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		h.failErr(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.failErr(c, err)
		return
	}

	ok(c, result.Response())
}

func (h HandlerSet) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		h.failErr(c, models.FieldErrors{"refreshToken": "refresh token is required"})
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.failErr(c, err)
		return
	}

	ok(c, result.Response())
}

func (h HandlerSet) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), principal(c).SessionID); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, nil)
}

// LogoutAll revokes every session of the account named by the email query
// parameter. Only the account owner or an admin may do so.
func (h HandlerSet) LogoutAll(c *gin.Context) {
	p := principal(c)
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		email = p.Employee.Email
	}
	if !strings.EqualFold(email, p.Employee.Email) && !p.IsAdmin() {
		h.failErr(c, service.ErrForbidden)
		return
	}

	revoked, err := h.auth.LogoutAll(c.Request.Context(), email)
	if err != nil {
		h.failErr(c, err)
		return
	}

	h.log.Info().Str("email", email).Int("revoked", revoked).Msg("sessions revoked")
	c.JSON(http.StatusOK, envelope{Code: http.StatusOK, Message: "Logged out from all devices", Data: gin.H{"revoked": revoked}})
}
