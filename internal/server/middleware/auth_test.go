package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct {
	ownerID uuid.UUID
	err     error
	token   string
}

type fakeClaims struct{ ownerID uuid.UUID }

func (c *fakeClaims) GetOwnerID() uuid.UUID { return c.ownerID }

func (v *fakeValidator) ValidateToken(tokenString string) (OwnerIDGetter, error) {
	v.token = tokenString
	if v.err != nil {
		return nil, v.err
	}
	return &fakeClaims{ownerID: v.ownerID}, nil
}

func TestAuthValidToken(t *testing.T) {
	ownerID := uuid.New()
	validator := &fakeValidator{ownerID: ownerID}

	var gotOwner uuid.UUID
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		gotOwner, err = GetOwnerID(r)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ownerID, gotOwner)
	assert.Equal(t, "valid-token", validator.token)
}

func TestAuthCaseInsensitiveScheme(t *testing.T) {
	validator := &fakeValidator{ownerID: uuid.New()}
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, scheme := range []string{"bearer", "BEARER", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
		req.Header.Set("Authorization", scheme+" some-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "scheme %q", scheme)
	}
}

func TestAuthRejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "no token", header: "Bearer"},
		{name: "too many parts", header: "Bearer one two"},
	}

	validator := &fakeValidator{ownerID: uuid.New()}
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthInvalidToken(t *testing.T) {
	validator := &fakeValidator{err: errors.New("expired")}
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetOwnerIDWithoutContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	_, err := GetOwnerID(req)
	assert.Error(t, err)
}
