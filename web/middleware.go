package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/guidex/internal/telemetry"
	"github.com/amonks/guidex/store"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const ownerKey = "owner"

var errInvalidToken = errors.New("invalid token")

func recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic_recovered", zap.Any("panic", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start).Seconds()

		telemetry.RequestCount.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(status),
		).Inc()

		telemetry.RequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(duration)

		logger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Float64("duration", duration),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// authenticate resolves the owner for the request. With a JWT secret the
// bearer token's subject is the owner; without one every request acts as
// the configured owner.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.JWTSecret == "" {
			if strings.TrimSpace(s.opts.Owner) == "" {
				writeError(c, store.ErrAuth)
				return
			}
			c.Set(ownerKey, s.opts.Owner)
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			writeError(c, store.ErrAuth)
			return
		}
		owner, err := ParseToken(s.opts.JWTSecret, tokenStr)
		if err != nil {
			s.logger.Debug("token_rejected", zap.Error(err))
			writeError(c, store.ErrAuth)
			return
		}
		c.Set(ownerKey, owner)
		c.Next()
	}
}

// IssueToken signs an HS256 token whose subject is owner.
func IssueToken(secret, owner string, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(owner) == "" {
		return "", store.ErrAuth
	}
	claims := jwt.RegisteredClaims{
		Subject:  owner,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies tokenStr and returns its subject.
func ParseToken(secret, tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}
