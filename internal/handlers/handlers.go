package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/j-bridge/volunteerhub.com/internal/errors"
	"github.com/j-bridge/volunteerhub.com/internal/middleware"
	"github.com/j-bridge/volunteerhub.com/internal/services"
)

// respondServiceError maps a service error kind to its HTTP response.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		apierrors.InvalidTransition(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, err.Error()))
	case errors.Is(err, services.ErrInvalidToken):
		apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeInvalidToken, err.Error()))
	case errors.Is(err, services.ErrUnauthorized):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrPDFGenerationFailed):
		_ = c.Error(err)
		apierrors.InternalError(c, "Certificate document could not be generated")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}

// respondBindError reports a malformed body, listing failed fields when the
// validator produced them.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[toSnake(fe.Field())] = fe.Tag()
		}
		apierrors.BadRequestWithDetails(c, "Invalid request body", details)
		return
	}
	apierrors.BadRequest(c, "Invalid request body")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// currentUserID returns the authenticated caller, writing 401 when absent.
func currentUserID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return userID, true
}

// idParam parses a positive numeric path parameter, writing 400 when invalid.
func idParam(c *gin.Context, name, label string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// optionalUintQuery parses an optional numeric query parameter.
func optionalUintQuery(c *gin.Context, name string) (*uint64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &v, true
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	s := strings.TrimSpace(*raw)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
