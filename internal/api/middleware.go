package api

import (
	"errors"
	"fmt"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Constants for context keys
const (
	ContextRoleKey  = "accessRole"
	ContextLabelKey = "accessLabel"
)

// AccessKeyMiddleware requires a valid "Authorization: Bearer <access key>".
func AccessKeyMiddleware(accessService service.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {key}")
			return
		}

		claims, err := accessService.ParseKey(parts[1])
		if err != nil {
			if errors.Is(err, service.ErrAccessKeyExpired) {
				abortWithError(c, http.StatusUnauthorized, "Access key has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid access key")
			}
			return
		}

		c.Set(ContextRoleKey, claims.Role)
		c.Set(ContextLabelKey, claims.Label)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RoleMiddleware rejects callers whose key grants none of allowedRoles.
// Must run AFTER AccessKeyMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := getRoleFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", role))
	}
}

func getRoleFromContext(c *gin.Context) (domain.Role, error) {
	roleRaw, exists := c.Get(ContextRoleKey)
	if !exists {
		return "", errors.New("access role not found in context")
	}
	role, ok := roleRaw.(domain.Role)
	if !ok {
		return "", errors.New("invalid access role type in context")
	}
	return role, nil
}

func getLabelFromContext(c *gin.Context) string {
	return c.GetString(ContextLabelKey)
}

func isCoach(c *gin.Context) bool {
	role, err := getRoleFromContext(c)
	return err == nil && role == domain.RoleCoach
}
