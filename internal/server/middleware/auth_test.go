package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	config := AuthConfig{
		Enabled:     true,
		APIKey:      "secret",
		HeaderName:  "X-API-Key",
		PublicPaths: []string{"/health"},
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name    string
		config  AuthConfig
		path    string
		headers map[string]string
		want    int
	}{
		{"disabled", AuthConfig{}, "/api/v1/vehicles", nil, http.StatusOK},
		{"public path", config, "/health", nil, http.StatusOK},
		{"missing key", config, "/api/v1/vehicles", nil, http.StatusUnauthorized},
		{"wrong key", config, "/api/v1/vehicles", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"custom header", config, "/api/v1/vehicles", map[string]string{"X-API-Key": "secret"}, http.StatusOK},
		{"bearer", config, "/api/v1/favorites", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
		{"raw authorization", config, "/api/v1/favorites", map[string]string{"Authorization": "secret"}, http.StatusOK},
		{"enabled without key", AuthConfig{Enabled: true, HeaderName: "X-API-Key"}, "/api/v1/vehicles", map[string]string{"X-API-Key": ""}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			Auth(tt.config, nil)(ok).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestDefaultAuthConfig(t *testing.T) {
	t.Setenv("API_KEY", "from-env")
	cfg := DefaultAuthConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Contains(t, cfg.PublicPaths, "/api/v1/ready")
}
