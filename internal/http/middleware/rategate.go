package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/rategate"
)

// maxPeekBytes bounds how much request body the gate will buffer for
// inspection. Booking forms are tiny; anything bigger is left to the
// handler's own binding limits.
const maxPeekBytes = 64 << 10

// Gate runs the protection pipeline before the handler: rate check, bot
// heuristics and, for JSON bodies, input screening. The body is buffered
// and restored so handlers can bind it again.
func Gate(g *rategate.Gate) gin.HandlerFunc {
	return gateHandler(g, false)
}

// FormGate is Gate plus the honeypot and form-age checks, for routes fed
// by a rendered booking form (passenger data, payment). Requests there
// must carry the issued form token or a rendered_at timestamp.
func FormGate(g *rategate.Gate) gin.HandlerFunc {
	return gateHandler(g, true)
}

func gateHandler(g *rategate.Gate, submission bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		form := peekForm(c)
		if form != nil {
			form.Submission = submission
		}

		if err := g.Evaluate(c.Request.Context(), key, c.Request.Header, form); err != nil {
			abortGate(c, err)
			return
		}
		c.Next()
	}
}

func abortGate(c *gin.Context, err error) {
	reqID := GetRequestID(c)
	switch {
	case domain.IsRateLimited(err):
		var rl domain.RateLimitedError
		retryAfter := 1
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			retryAfter = int(rl.RetryAfter.Round(time.Second).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":               "demasiadas solicitudes, inténtelo más tarde",
			"retry_after_seconds": retryAfter,
			"request_id":          reqID,
		})
	case domain.IsBotSuspected(err):
		// Deliberately vague: no detail about the detection rules.
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":      "solicitud rechazada",
			"request_id": reqID,
		})
	case domain.IsSuspiciousInput(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":      "solicitud no válida",
			"request_id": reqID,
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":      "error interno",
			"request_id": reqID,
		})
	}
}

// peekForm buffers a JSON body, restores it, and flattens its string
// fields for the gate. Non-JSON and bodyless requests yield nil, which
// limits the gate to the rate and bot checks.
func peekForm(c *gin.Context) *rategate.FormData {
	if c.Request.Body == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodDelete {
		return nil
	}
	if ct := c.ContentType(); ct != "" && !strings.Contains(ct, "json") {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPeekBytes))
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), c.Request.Body))
	if err != nil || len(raw) == 0 {
		return nil
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	form := &rategate.FormData{Fields: map[string]string{}}
	collectStrings("", payload, form.Fields)

	form.Honeypot.Website, _ = payload["website"].(string)
	form.Honeypot.Fax, _ = payload["fax"].(string)
	form.Honeypot.FormToken, _ = payload["form_token"].(string)
	if at, ok := payload["rendered_at"].(float64); ok {
		form.Honeypot.RenderedAt = int64(at)
	}
	return form
}

// collectStrings flattens nested objects and arrays into dotted field
// names so passenger entries are screened too.
func collectStrings(prefix string, value any, out map[string]string) {
	switch v := value.(type) {
	case string:
		if prefix != "" {
			out[prefix] = v
		}
	case map[string]any:
		for key, inner := range v {
			name := key
			if prefix != "" {
				name = prefix + "." + key
			}
			collectStrings(name, inner, out)
		}
	case []any:
		for i, inner := range v {
			collectStrings(prefix+"["+strconv.Itoa(i)+"]", inner, out)
		}
	}
}
