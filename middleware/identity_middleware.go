package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ContextUserIDKey = "userID"

// IdentityHandler resolves the caller's identity. Identity is optional for
// most endpoints; handlers that require it return 401 themselves when the
// context carries no user id.
type IdentityHandler interface {
	IdentityMiddleware() gin.HandlerFunc
}

type identityHandler struct {
	jwks *keyfunc.JWKS
}

// NewIdentityHandler builds the identity middleware. With an empty jwksURL
// bearer tokens are not verified and only the X-User-Id header is honored.
func NewIdentityHandler(jwksURL string) (IdentityHandler, error) {
	if jwksURL == "" {
		return &identityHandler{}, nil
	}

	options := keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			log.Printf("There was an error with the jwt.Keyfunc\nError: %s", err.Error())
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}

	jwks, err := keyfunc.Get(jwksURL, options)
	if err != nil {
		return nil, err
	}

	return &identityHandler{jwks: jwks}, nil
}

func (h *identityHandler) IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := strings.TrimSpace(c.GetHeader("X-User-Id")); userID != "" {
			c.Set(ContextUserIDKey, userID)
			c.Next()
			return
		}

		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.Next()
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		if h.jwks == nil {
			// No verification configured; treat the subject claim as opaque.
			if subject := unverifiedSubject(tokenString); subject != "" {
				c.Set(ContextUserIDKey, subject)
			}
			c.Next()
			return
		}

		var claims jwt.RegisteredClaims
		token, err := jwt.ParseWithClaims(tokenString, &claims, h.jwks.Keyfunc)
		if err != nil || !token.Valid {
			c.Next()
			return
		}
		if claims.Subject != "" {
			c.Set(ContextUserIDKey, claims.Subject)
		}

		c.Next()
	}
}

func unverifiedSubject(tokenString string) string {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return ""
	}
	return claims.Subject
}

// UserID reads the resolved caller identity, if any.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if userID, ok := v.(string); ok {
			return userID
		}
	}
	return ""
}
