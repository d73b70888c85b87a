package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"pmadmin/console/internal/middleware"
	"pmadmin/console/internal/models"
	"pmadmin/console/internal/repository"
	"pmadmin/console/internal/service"
)

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorBody struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Code: http.StatusOK, Message: "Success", Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, envelope{Code: http.StatusCreated, Message: "Created", Data: data})
}

func fail(c *gin.Context, status int, message string, details ...string) {
	c.AbortWithStatusJSON(status, errorBody{Code: status, Message: message, Errors: details})
}

// failErr maps a service error onto a status and writes it.
func (h HandlerSet) failErr(c *gin.Context, err error) {
	var fieldErrs models.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		fail(c, http.StatusBadRequest, "Validation failed", fieldMessages(fieldErrs)...)
	case service.IsNotFound(err):
		fail(c, http.StatusNotFound, capitalize(err.Error()))
	case errors.Is(err, repository.ErrEmailTaken), errors.Is(err, repository.ErrProjectCodeTaken):
		fail(c, http.StatusConflict, capitalize(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrSessionExpired):
		fail(c, http.StatusUnauthorized, capitalize(err.Error()))
	case errors.Is(err, service.ErrAccountLocked),
		errors.Is(err, service.ErrAccountDisabled),
		errors.Is(err, service.ErrForbidden):
		fail(c, http.StatusForbidden, capitalize(err.Error()))
	case errors.Is(err, service.ErrWrongPassword):
		fail(c, http.StatusBadRequest, capitalize(err.Error()))
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func fieldMessages(errs models.FieldErrors) []string {
	out := make([]string, 0, len(errs))
	for field, msg := range errs {
		out = append(out, field+": "+msg)
	}
	sort.Strings(out)
	return out
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func principal(c *gin.Context) service.Principal {
	p, _ := middleware.CurrentPrincipal(c)
	return p
}

// pathID parses a numeric path parameter, writing a 400 when it is not one.
func pathID(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		fail(c, http.StatusBadRequest, "Validation failed", name+": must be a positive number")
		return 0, false
	}
	return v, true
}

// pageRequest reads page, size, sortBy and sortDir from the query string.
func pageRequest(c *gin.Context) (service.PageRequest, bool) {
	req := service.PageRequest{
		SortBy:  c.Query("sortBy"),
		SortDir: c.Query("sortDir"),
	}
	errs := models.FieldErrors{}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs["page"] = "must be a non-negative number"
		}
		req.Page = n
	}
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errs["size"] = "must be a positive number"
		}
		req.Size = n
	}
	if len(errs) > 0 {
		fail(c, http.StatusBadRequest, "Validation failed", fieldMessages(errs)...)
		return service.PageRequest{}, false
	}
	return req, true
}

// bindJSON decodes the body into dst, writing a 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, "Malformed request body", err.Error())
		return false
	}
	return true
}
