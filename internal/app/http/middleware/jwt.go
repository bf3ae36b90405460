package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"art-catalog-app/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware verifies the bearer credential issued by the external
// auth provider and copies the claims the workflow needs into the
// context: the contributor token and the can_review capability flag.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtKey := []byte(config.JWT_SECRET)
		if len(jwtKey) == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
			c.Abort()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtKey, nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if userToken, ok := claims["user_token"].(string); ok {
				c.Set("user_token", userToken)
			}
			if canReview, ok := claims["can_review"].(bool); ok {
				c.Set("can_review", canReview)
			}
			c.Next()
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
		}
	}
}

// RequireReviewer gates the moderation queue behind the can_review
// capability supplied by the auth provider.
func RequireReviewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("can_review")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Reviewer capability not found in token"})
			c.Abort()
			return
		}

		if canReview, ok := value.(bool); !ok || !canReview {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// MustUserToken pulls the contributor token set by AuthMiddleware.
func MustUserToken(c *gin.Context) (string, bool) {
	token := c.GetString("user_token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return token, true
}
