package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"viajei/internal/logging"
	mem "viajei/pkg/memcache"
	"viajei/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwt := utils.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	userID := uuid.New()
	pair, err := jwt.CreateTokenPair(userID, "user")
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(jwt), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id")+"|"+c.GetString("role"))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"refresh token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"access token", "Bearer " + pair.AccessToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Authorization", tt.header)
			}
			w := perform(r, http.MethodGet, "/me", h)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.status == http.StatusOK && w.Body.String() != userID.String()+"|user" {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	for _, role := range []string{"user", RoleAdmin} {
		r := gin.New()
		r.GET("/admin", func(c *gin.Context) { c.Set("role", role) }, RoleMiddleware(RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		w := perform(r, http.MethodGet, "/admin", nil)
		want := http.StatusForbidden
		if role == RoleAdmin {
			want = http.StatusNoContent
		}
		if w.Code != want {
			t.Errorf("role %s: status = %d, want %d", role, w.Code, want)
		}
	}
}

func TestTraceIDReachesRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, logging.TraceIDFromContext(c.Request.Context()))
	})

	w := perform(r, http.MethodGet, "/", nil)
	generated := w.Header().Get(TraceIDHeader)
	if generated == "" || w.Body.String() != generated {
		t.Errorf("header %q, context %q", generated, w.Body.String())
	}

	h := http.Header{}
	h.Set(TraceIDHeader, "upstream-1")
	w = perform(r, http.MethodGet, "/", h)
	if w.Body.String() != "upstream-1" || w.Header().Get(TraceIDHeader) != "upstream-1" {
		t.Errorf("incoming trace id not reused: %q", w.Body.String())
	}
}

func TestLockoutGuardBlocksAfterFailures(t *testing.T) {
	store := mem.NewMemoryLockoutStore(mem.LockoutPolicy{MaxAttempts: 2, Window: time.Minute, BlockDuration: 15 * time.Minute})
	lockout := NewLockout(store)

	r := gin.New()
	r.POST("/login", lockout.Guard(), func(c *gin.Context) {
		if c.Query("ok") == "1" {
			lockout.Succeed(c)
			c.Status(http.StatusOK)
			return
		}
		lockout.Fail(c)
		c.Status(http.StatusUnauthorized)
	})

	if w := perform(r, http.MethodPost, "/login", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("first failure status = %d", w.Code)
	}
	if w := perform(r, http.MethodPost, "/login?ok=1", nil); w.Code != http.StatusOK {
		t.Fatalf("success status = %d", w.Code)
	}
	for i := 0; i < 2; i++ {
		perform(r, http.MethodPost, "/login", nil)
	}

	w := perform(r, http.MethodPost, "/login?ok=1", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("blocked status = %d", w.Code)
	}
	var body struct {
		Data LockoutResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.RemainingMinutes != 15 || body.Data.BlockedUntil.IsZero() {
		t.Errorf("lockout body = %+v", body.Data)
	}

	blocked, err := store.Blocked(context.Background())
	if err != nil || len(blocked) != 1 || blocked[0].Attempts != 2 {
		t.Errorf("blocked = %+v, %v", blocked, err)
	}
}

func TestRateLimiterPerKey(t *testing.T) {
	rl := NewRateLimiter("auth", 2, time.Hour, ByClientIP)
	r := gin.New()
	r.GET("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := perform(r, http.MethodGet, "/", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
	w := perform(r, http.MethodGet, "/", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:4000"
	other := httptest.NewRecorder()
	r.ServeHTTP(other, req)
	if other.Code != http.StatusOK {
		t.Errorf("other address status = %d", other.Code)
	}
}

func TestByUserKey(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ByUser(c); got != "ip:192.0.2.1" {
		t.Errorf("anonymous key = %q", got)
	}
	c.Set("user_id", "u1")
	if got := ByUser(c); got != "user:u1" {
		t.Errorf("user key = %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	h := http.Header{}
	h.Set("Origin", "http://localhost:5173")
	h.Set("Access-Control-Request-Method", http.MethodGet)
	w := perform(r, http.MethodOptions, "/", h)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}
}
