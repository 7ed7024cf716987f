package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/rategate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGateRouter(t *testing.T) (*gin.Engine, *rategate.FormTokenIssuer) {
	t.Helper()
	issuer := &rategate.FormTokenIssuer{Secret: []byte("test-secret")}
	gate := &rategate.Gate{
		Limiter: rategate.NewMemoryLimiter(),
		Tokens:  issuer,
	}

	echo := func(c *gin.Context) {
		// Binding after the gate proves the body was restored.
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, body)
	}

	r := gin.New()
	r.Use(RequestID())
	r.POST("/echo", FormGate(gate), echo)
	r.POST("/select", Gate(gate), echo)
	r.GET("/ping", Gate(gate), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, issuer
}

func gateRequest(method, path string, body any) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept-Language", "es-CO,es;q=0.9")
	return req
}

func agedToken(t *testing.T, issuer *rategate.FormTokenIssuer) string {
	t.Helper()
	issued := time.Now().Add(-10 * time.Second)
	issuer.Now = func() time.Time { return issued }
	defer func() { issuer.Now = nil }()
	token, err := issuer.Issue()
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestGateRestoresBodyForHandler(t *testing.T) {
	r, issuer := newGateRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, gateRequest(http.MethodPost, "/echo", gin.H{
		"form_token": agedToken(t, issuer),
		"first_name": "Ana",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var echoed map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &echoed); err != nil {
		t.Fatalf("decode echo: %v", err)
	}
	if echoed["first_name"] != "Ana" {
		t.Fatalf("echoed body = %v", echoed)
	}
}

func TestGateRateLimitsRepeatedRequests(t *testing.T) {
	r, _ := newGateRouter(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < rategate.Threshold+1; i++ {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, gateRequest(http.MethodGet, "/ping", nil))
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", last.Code)
	}

	retryAfter, err := strconv.Atoi(last.Header().Get("Retry-After"))
	if err != nil || retryAfter <= 0 {
		t.Fatalf("Retry-After = %q", last.Header().Get("Retry-After"))
	}
	var body struct {
		RetryAfterSeconds int `json:"retry_after_seconds"`
	}
	if err := json.Unmarshal(last.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.RetryAfterSeconds != retryAfter {
		t.Fatalf("body retry %d != header retry %d", body.RetryAfterSeconds, retryAfter)
	}
}

func TestGateRejectsMissingUserAgent(t *testing.T) {
	r, _ := newGateRouter(t)

	req := gateRequest(http.MethodGet, "/ping", nil)
	req.Header.Del("User-Agent")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestGateRejectsHoneypotSubmission(t *testing.T) {
	r, issuer := newGateRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, gateRequest(http.MethodPost, "/echo", gin.H{
		"form_token": agedToken(t, issuer),
		"website":    "http://spam",
		"first_name": "Ana",
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
}

func TestGateScreensNestedFields(t *testing.T) {
	r, _ := newGateRouter(t)

	// Screening applies even on routes without the form-token requirement.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, gateRequest(http.MethodPost, "/select", gin.H{
		"passengers": []gin.H{
			{"first_name": "<script>alert(1)</script>"},
		},
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
}

func TestGateAllowsTokenlessJSONOutsideFormRoutes(t *testing.T) {
	r, _ := newGateRouter(t)

	// A first-time visitor posts a search before ever fetching a form
	// token; only form-submission routes demand one.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, gateRequest(http.MethodPost, "/select", gin.H{
		"origin":      "Medellín",
		"destination": "Cartagena",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestGateRequiresTokenOnFormRoutes(t *testing.T) {
	r, _ := newGateRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, gateRequest(http.MethodPost, "/echo", gin.H{
		"first_name": "Ana",
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
}

func TestGateSkipsFormChecksForGet(t *testing.T) {
	r, _ := newGateRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, gateRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}
