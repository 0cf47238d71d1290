package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"summitapi/internal/dto"
)

func LoggingMiddleware() ginext.HandlerFunc {
	return func(c *ginext.Context) {
		start := time.Now()
		c.Next()
		zlog.Logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("request handled")
	}
}

func SecurityHeaders() ginext.HandlerFunc {
	return func(c *ginext.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

var (
	scriptTagRegex    = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	jsSchemeRegex     = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRegex = regexp.MustCompile(`(?i)\bon\w+=`)
)

func SanitizeString(s string) string {
	s = scriptTagRegex.ReplaceAllString(s, "")
	s = jsSchemeRegex.ReplaceAllString(s, "")
	s = eventHandlerRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case string:
		return SanitizeString(val)
	case []any:
		for i := range val {
			val[i] = sanitizeValue(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = sanitizeValue(val[k])
		}
		return val
	default:
		return v
	}
}

// SanitizeInput strips script-tag and inline-event-handler substrings from
// every string in the JSON body and from all query values before the
// handlers see them. A body that is not valid JSON passes through unchanged
// so the handler can reject it itself.
func SanitizeInput() ginext.HandlerFunc {
	return func(c *ginext.Context) {
		if c.Request.Body != nil && c.Request.ContentLength != 0 {
			raw, err := io.ReadAll(c.Request.Body)
			if err == nil {
				var payload any
				if json.Unmarshal(raw, &payload) == nil {
					if clean, err := json.Marshal(sanitizeValue(payload)); err == nil {
						raw = clean
					}
				}
				c.Request.Body = io.NopCloser(bytes.NewReader(raw))
				c.Request.ContentLength = int64(len(raw))
			}
		}

		if c.Request.URL.RawQuery != "" {
			query := c.Request.URL.Query()
			clean := make(url.Values, len(query))
			for key, values := range query {
				for _, v := range values {
					clean.Add(key, SanitizeString(v))
				}
			}
			c.Request.URL.RawQuery = clean.Encode()
		}

		c.Next()
	}
}

// RateLimiter counts requests per client IP over a fixed window. go-cache
// expires a counter when its window ends, which starts the next window on
// the following request.
type RateLimiter struct {
	max     int
	window  time.Duration
	message string
	hits    *gocache.Cache
}

func NewRateLimiter(max int, window time.Duration, message string) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		message: message,
		hits:    gocache.New(window, 2*window),
	}
}

func (rl *RateLimiter) Middleware() ginext.HandlerFunc {
	return func(c *ginext.Context) {
		ip := c.ClientIP()
		count := 1
		if err := rl.hits.Add(ip, 1, rl.window); err != nil {
			count, _ = rl.hits.IncrementInt(ip, 1)
		}
		if count > rl.max {
			zlog.Logger.Warn().
				Str("ip", ip).
				Str("path", c.Request.URL.Path).
				Msg("rate limit exceeded")
			dto.TooManyRequestsResponse(c, rl.message)
			c.Abort()
			return
		}
		c.Next()
	}
}
