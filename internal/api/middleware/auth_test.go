package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
)

const testSecret = "test-secret"

type noopLogger struct{}

func (noopLogger) Warn(string, ...interface{}) {}

func signToken(t *testing.T, userID int64, role string, expiresAt time.Time) string {
	t.Helper()

	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestAuth(t *testing.T) {
	validToken := signToken(t, 42, "admin", time.Now().Add(time.Hour))
	expiredToken := signToken(t, 42, "admin", time.Now().Add(-time.Hour))

	tests := []struct {
		name       string
		setRequest func(r *http.Request)
		wantStatus int
		wantUserID int64
		wantRole   domain.Role
	}{
		{
			name: "valid bearer token",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+validToken)
			},
			wantStatus: http.StatusOK,
			wantUserID: 42,
			wantRole:   domain.RoleAdmin,
		},
		{
			name: "token from query parameter",
			setRequest: func(r *http.Request) {
				q := r.URL.Query()
				q.Set("token", validToken)
				r.URL.RawQuery = q.Encode()
			},
			wantStatus: http.StatusOK,
			wantUserID: 42,
			wantRole:   domain.RoleAdmin,
		},
		{
			name:       "missing token",
			setRequest: func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+expiredToken)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "garbage token",
			setRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer not-a-jwt")
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			var gotRole domain.Role
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = GetUserID(r.Context())
				gotRole = GetRole(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations", nil)
			tt.setRequest(req)
			rec := httptest.NewRecorder()

			Auth(testSecret, noopLogger{})(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantUserID, gotUserID)
				assert.Equal(t, tt.wantRole, gotRole)
			}
		})
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token := signToken(t, 42, "user", time.Now().Add(time.Hour))

	_, err := ParseToken(token, "another-secret")
	assert.Error(t, err)
}

func TestGetRole_DefaultsToUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, domain.RoleUser, GetRole(req.Context()))
}
