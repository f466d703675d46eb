package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	autherrors "leaveflow/internal/auth/errors"
	"leaveflow/internal/policy"
	"leaveflow/internal/shared/response"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// DenylistKey is the Redis key holding a revoked access token.
func DenylistKey(token string) string {
	return "auth:denylist:" + token
}

// AuthMiddleware verifies the bearer token (header or cookie), rejects
// tokens revoked via logout, and stores the session identity on the request.
// rdb may be nil; the denylist check is skipped then.
func AuthMiddleware(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		if rdb != nil {
			if exists, err := rdb.Exists(c.Request.Context(), DenylistKey(tokenString)).Result(); err == nil && exists > 0 {
				errObj := autherrors.ErrTokenRevoked
				response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
				c.Abort()
				return
			}
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "User ID not found in token", nil)
			c.Abort()
			return
		}
		if _, err := uuid.Parse(userID); err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "User ID is not a valid id", nil)
			c.Abort()
			return
		}

		roleClaim, _ := claims["role"].(string)
		if _, ok := policy.ParseRole(roleClaim); !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Role not found in token", nil)
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, roleClaim)

		c.Next()
	}
}

// ActorFromContext rebuilds the policy actor from the verified session keys.
// Authorization checks always receive this explicit value, never ambient
// lookups.
func ActorFromContext(c *gin.Context) (policy.Actor, bool) {
	userID := c.GetString(ContextUserID)
	role, ok := policy.ParseRole(c.GetString(ContextRole))
	if !ok || userID == "" {
		return policy.Actor{}, false
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return policy.Actor{}, false
	}
	return policy.Actor{ID: id, Role: role}, true
}

// RequireRoles gates a route to the listed roles. Policy checks inside the
// services still run; this only fails fast at the edge.
func RequireRoles(allowed ...policy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			errObj := autherrors.ErrForbidden
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		for _, role := range allowed {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		errObj := autherrors.ErrForbidden
		response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
		c.Abort()
	}
}
