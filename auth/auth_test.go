package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MonMotDePasseTr0pSûr!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	// Negative comparison (wrong password)
	match, err = ComparePassword("MauvaisMDP", hash)
	req.NoError(err)
	req.False(match)
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{Name: "Alice", Email: "test@example.com", Password: "ComplexPass123"}, false},
		{"Invalid email", RegisterRequest{Name: "Alice", Email: "notanemail", Password: "ComplexPass123"}, true},
		{"Password too short", RegisterRequest{Name: "Alice", Email: "test@example.com", Password: "Sh0rt"}, true},
		{"Missing digit", RegisterRequest{Name: "Alice", Email: "test@example.com", Password: "NoDigitPassword"}, true},
		{"Missing uppercase", RegisterRequest{Name: "Alice", Email: "test@example.com", Password: "nouppercase123"}, true},
		{"Missing name", RegisterRequest{Email: "test@example.com", Password: "ComplexPass123"}, true},
		{"Password too long (edge case)", RegisterRequest{Name: "Alice", Email: "test@example.com", Password: strings.Repeat("Aa1", 25)}, true},
		{"Bad pic URL", RegisterRequest{Name: "Alice", Email: "test@example.com", Password: "ComplexPass123", Pic: "not a url"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("user-7", time.Hour)
	req.NoError(err)

	claims, err := ValidateToken(token)
	req.NoError(err)
	req.Equal("user-7", claims.UserID)
	req.Equal("chat-relay", claims.Issuer)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("user-7", -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(token)
	req.Error(err)
}

func TestMiddleware(t *testing.T) {
	req := require.New(t)

	var seenUserID string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// Missing header
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	req.Equal(http.StatusUnauthorized, rec.Code)

	// Garbage token
	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(rec, r)
	req.Equal(http.StatusUnauthorized, rec.Code)

	// Valid token flows through with the user ID in context
	token, err := GenerateToken("user-7", time.Hour)
	req.NoError(err)
	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, r)
	req.Equal(http.StatusOK, rec.Code)
	req.Equal("user-7", seenUserID)
}

// BenchmarkHashPassword measures the CPU/RAM impact of the argon2id params
func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123")
	}
}
