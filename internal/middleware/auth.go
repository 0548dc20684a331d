package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kingrain94/tagorder-api/internal/config"
	"github.com/kingrain94/tagorder-api/internal/utils"
)

var ErrInvalidToken = errors.New("invalid or expired token")

//go:generate mockery --name TokenVerifier --output ../mocks
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (utils.Identity, error)
}

// JWTVerifier checks HS256 tokens signed with the auth service's JWT secret.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (utils.Identity, error) {
	if token == "" {
		return utils.Identity{}, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return utils.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return utils.Identity{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)

	return utils.Identity{UserID: sub, Email: email}, nil
}

type AuthMiddleware struct {
	config   *config.Config
	verifier TokenVerifier
}

func NewAuthMiddleware(config *config.Config, verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		config:   config,
		verifier: verifier,
	}
}

// JWTAuth requires a bearer token. Browsers cannot set headers on websocket
// upgrades, so the access_token query parameter is accepted as well.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			token = c.Query("access_token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		identity, err := m.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(string(utils.IdentityKey), identity)
		c.Request = c.Request.WithContext(utils.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// GenerateToken signs a token shaped like the auth service's, for local
// development and tests.
func (m *AuthMiddleware) GenerateToken(userID, email string) (string, error) {
	return GenerateToken(m.config.Auth.JWTSecretKey, userID, email, time.Duration(m.config.Auth.JWTExpirationHours)*time.Hour)
}

func GenerateToken(secret, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  "authenticated",
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
