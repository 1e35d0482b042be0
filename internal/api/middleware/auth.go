package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/flexbook/FlexBook-BookingService/internal/api/handlers"
	"github.com/flexbook/FlexBook-BookingService/internal/domain"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// Claims структура JWT claims
type Claims struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth проверяет JWT из заголовка Authorization и кладет userID и роль в контекст
// Для WebSocket соединений токен принимается также из query-параметра token
func Auth(secret string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				logger.Warn("%s %s - Missing authorization token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w)
				return
			}

			claims, err := ParseToken(tokenString, secret)
			if err != nil {
				logger.Warn("%s %s - Invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w)
				return
			}

			ctx := WithIdentity(r.Context(), claims.UserID, domain.ParseRole(claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseToken валидирует подпись и возвращает claims
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// WithIdentity кладет идентификацию пользователя в контекст
func WithIdentity(ctx context.Context, userID int64, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// GetRole возвращает роль пользователя из контекста
// При отсутствии в контексте возвращает роль обычного пользователя
func GetRole(ctx context.Context) domain.Role {
	role, ok := ctx.Value(roleKey).(domain.Role)
	if !ok {
		return domain.RoleUser
	}
	return role
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
