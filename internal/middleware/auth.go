package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/j-bridge/volunteerhub.com/internal/constants"
	apierrors "github.com/j-bridge/volunteerhub.com/internal/errors"
	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/tokens"
)

// RequireAuth checks for a valid bearer access token
func RequireAuth(tm *tokens.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := tm.Parse(raw, tokens.PurposeAccess)
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, tokens.ErrTokenExpired) {
				message = "Token has expired"
			}
			apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeInvalidToken, message))
			c.Abort()
			return
		}

		if !setIdentity(c, claims) {
			apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeInvalidToken, "Invalid token"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth records the caller when a valid bearer token is present and
// lets the request through either way.
func OptionalAuth(tm *tokens.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if claims, err := tm.Parse(raw, tokens.PurposeAccess); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole allows only callers whose token carries one of roles. It must
// run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !slices.Contains(roles, role) {
			apierrors.Forbidden(c, "Insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
	return raw, raw != ""
}

func setIdentity(c *gin.Context, claims *tokens.Claims) bool {
	userID, err := claims.UserID()
	if err != nil {
		return false
	}
	c.Set(constants.ContextKeyUserID, userID)
	c.Set(constants.ContextKeyRole, claims.Role)
	return true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetRole retrieves the role claim of the current user from context
func GetRole(c *gin.Context) (models.Role, bool) {
	role, exists := c.Get(constants.ContextKeyRole)
	if !exists {
		return "", false
	}
	r, ok := role.(models.Role)
	return r, ok
}
