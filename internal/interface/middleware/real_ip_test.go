package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// resolveIP runs a request through RealIP and reports the resolved client IP
// and whether AllowPrivateIP would bypass rate limiting for it.
func resolveIP(t *testing.T, trustProxy bool, xff string) (ip string, bypass bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RealIP(trustProxy), func(c *gin.Context) {
		ip = ipFromCtx(c)
		bypass = AllowPrivateIP()(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4321"
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	r.ServeHTTP(httptest.NewRecorder(), req)
	return ip, bypass
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		xff        string
		wantIP     string
		wantBypass bool
	}{
		{
			name:       "no proxy trust ignores forwarded header",
			trustProxy: false,
			xff:        "10.0.0.5",
			wantIP:     "203.0.113.9",
			wantBypass: false,
		},
		{
			name:       "spoofed loopback cannot dodge the rate limiter",
			trustProxy: false,
			xff:        "127.0.0.1",
			wantIP:     "203.0.113.9",
			wantBypass: false,
		},
		{
			name:       "trusted proxy honors left-most forwarded entry",
			trustProxy: true,
			xff:        "10.0.0.5, 198.51.100.7",
			wantIP:     "10.0.0.5",
			wantBypass: true,
		},
		{
			name:       "trusted proxy with garbage header falls back to peer",
			trustProxy: true,
			xff:        "not-an-ip",
			wantIP:     "203.0.113.9",
			wantBypass: false,
		},
		{
			name:       "no header at all uses peer address",
			trustProxy: true,
			xff:        "",
			wantIP:     "203.0.113.9",
			wantBypass: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip, bypass := resolveIP(t, tt.trustProxy, tt.xff)
			assert.Equal(t, tt.wantIP, ip)
			assert.Equal(t, tt.wantBypass, bypass)
		})
	}
}
