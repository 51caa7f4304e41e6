package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterBurstAndRefill(t *testing.T) {
	clock := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return clock })
	rule := RateLimitRule{Rate: 1, Burst: 2}

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.Allow("10.0.0.1|ANALYZE", rule); !ok {
			t.Fatalf("request %d within burst should pass", i+1)
		}
	}
	ok, retryAfter := limiter.Allow("10.0.0.1|ANALYZE", rule)
	if ok {
		t.Fatal("request over burst should be rejected")
	}
	if retryAfter <= 0 {
		t.Fatalf("retry-after = %v, want positive", retryAfter)
	}

	clock = clock.Add(1500 * time.Millisecond)
	if ok, _ := limiter.Allow("10.0.0.1|ANALYZE", rule); !ok {
		t.Fatal("bucket should refill after waiting")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	clock := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return clock })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("10.0.0.1|ANALYZE", rule); !ok {
		t.Fatal("first client should pass")
	}
	if ok, _ := limiter.Allow("10.0.0.1|ANALYZE", rule); ok {
		t.Fatal("first client should be exhausted")
	}
	if ok, _ := limiter.Allow("10.0.0.2|ANALYZE", rule); !ok {
		t.Fatal("second client must have its own bucket")
	}
}

func TestRateLimiterDisabledRulePasses(t *testing.T) {
	limiter := NewRateLimiter(nil)
	for i := 0; i < 100; i++ {
		if ok, _ := limiter.Allow("k", RateLimitRule{Rate: 0, Burst: 0}); !ok {
			t.Fatal("zero rate must disable limiting")
		}
	}
}

func newRateLimitedRouter(rate float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		Rules: map[string]RateLimitRule{
			"ANALYZE": {Rate: rate, Burst: burst},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/v1/documents/analyze" {
				return "ANALYZE"
			}
			return ""
		},
	}))
	r.POST("/v1/documents/analyze", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/v1/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRateLimitMiddlewareRejectsOverBurst(t *testing.T) {
	r := newRateLimitedRouter(0.001, 2)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/documents/analyze", nil)
		r.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(last.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "rate_limited" {
		t.Fatalf("error code = %q, want rate_limited", body.Error.Code)
	}
}

func TestRateLimitMiddlewareIgnoresOtherRoutes(t *testing.T) {
	r := newRateLimitedRouter(0.001, 1)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/cache/stats", nil)
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d to unlimited route status = %d", i+1, rec.Code)
		}
	}
}
