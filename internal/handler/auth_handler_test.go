package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activities-be/internal/domain"
	"activities-be/internal/middleware"
)

func newAuthRouter(t *testing.T, auth *stubAuthSvc) *chi.Mux {
	t.Helper()
	c := testContainer(t, &stubActivityService{}, auth)
	h := NewAuthHandler(c)

	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(auth, c.GetLogger()))
			r.Get("/me", h.Me)
		})
	})
	return r
}

func TestRegisterEndpoint(t *testing.T) {
	router := newAuthRouter(t, &stubAuthSvc{})

	payload := `{"username":"alice","email":"alice@example.com","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		Success bool              `json:"success"`
		Data    domain.AuthResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "issued-token", body.Data.Token)
	assert.Equal(t, "alice", body.Data.User.Username)
}

func TestRegisterEndpointValidation(t *testing.T) {
	router := newAuthRouter(t, &stubAuthSvc{})

	tests := []struct {
		name    string
		payload string
	}{
		{"missing email", `{"username":"alice","password":"correct-horse"}`},
		{"bad email", `{"username":"alice","email":"not-an-email","password":"correct-horse"}`},
		{"short password", `{"username":"alice","email":"alice@example.com","password":"short"}`},
		{"short username", `{"username":"al","email":"alice@example.com","password":"correct-horse"}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.payload))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	auth := &stubAuthSvc{user: &domain.User{ID: "user-1", Username: "alice"}}
	router := newAuthRouter(t, auth)

	payload := `{"usernameOrEmail":"alice","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLoginEndpointRejectsBadCredentials(t *testing.T) {
	auth := &stubAuthSvc{user: &domain.User{ID: "user-1", Username: "alice"}}
	router := newAuthRouter(t, auth)

	payload := `{"usernameOrEmail":"alice","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestMeEndpoint(t *testing.T) {
	auth := &stubAuthSvc{user: &domain.User{ID: "user-1", Username: "alice"}}
	router := newAuthRouter(t, auth)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data domain.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice", body.Data.Username)
}

func TestMeEndpointRequiresAuth(t *testing.T) {
	router := newAuthRouter(t, &stubAuthSvc{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
