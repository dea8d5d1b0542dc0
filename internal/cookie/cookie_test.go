package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_SetSession(t *testing.T) {
	cfg := NewConfig(true, 24*time.Hour)
	rec := httptest.NewRecorder()

	cfg.SetSession(rec, "abc")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, DefaultSessionCookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 86400, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestConfig_ClearSession(t *testing.T) {
	cfg := &Config{Name: "sid"}
	rec := httptest.NewRecorder()

	cfg.ClearSession(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestConfig_SessionID(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
		want   string
	}{
		{"present", &http.Cookie{Name: "sid", Value: "xyz"}, "xyz"},
		{"other cookie", &http.Cookie{Name: "other", Value: "xyz"}, ""},
		{"no cookie", nil, ""},
	}

	cfg := &Config{Name: "sid"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			assert.Equal(t, tt.want, cfg.SessionID(req))
		})
	}
}
