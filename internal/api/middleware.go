package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gym-coach-app/internal/domain"
	"gym-coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextUserRolesKey = "userRoles"
)

// AuthMiddleware creates a Gin middleware for JWT authentication. On
// success the caller's ID and full role set are stored in the context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &service.Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}

		if !token.Valid || claims.UserID == "" || len(claims.Roles) == 0 {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID) // Hex representation
		c.Set(ContextUserRolesKey, claims.Roles)

		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RoleMiddleware creates middleware that requires the caller's role set to
// contain at least one of the allowed roles. Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesRaw, exists := c.Get(ContextUserRolesKey)
		if !exists {
			abortWithError(c, http.StatusInternalServerError, "User roles not found in context")
			return
		}

		userRoles, ok := rolesRaw.([]domain.Role)
		if !ok {
			abortWithError(c, http.StatusInternalServerError, "Invalid user roles type in context")
			return
		}

		allowed := false
		for _, userRole := range userRoles {
			for _, allowedRole := range allowedRoles {
				if userRole == allowedRole {
					allowed = true
					break
				}
			}
		}

		if !allowed {
			abortWithError(c, http.StatusForbidden, "Access denied: insufficient role")
			return
		}

		c.Next()
	}
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid user ID format in context")
	}
	return id, nil
}

// Helper function to get the caller's role set from context (used by handlers)
func getUserRolesFromContext(c *gin.Context) ([]domain.Role, error) {
	rolesRaw, exists := c.Get(ContextUserRolesKey)
	if !exists {
		return nil, errors.New("user roles not found in context")
	}
	roles, ok := rolesRaw.([]domain.Role)
	if !ok {
		return nil, errors.New("invalid user roles type in context")
	}
	return roles, nil
}
