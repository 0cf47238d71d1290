package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/ginext"
)

func TestSanitizeStringStripsScriptTags(t *testing.T) {
	assert.Equal(t, "Acme Corp",
		SanitizeString("<script>alert('x')</script>Acme Corp"))
	assert.Equal(t, "before after",
		SanitizeString("before <SCRIPT type=\"text/javascript\">evil()</SCRIPT> after"))
}

func TestSanitizeStringStripsJavascriptScheme(t *testing.T) {
	assert.Equal(t, "alert(1)", SanitizeString("javascript:alert(1)"))
	assert.Equal(t, "alert(1)", SanitizeString("JaVaScRiPt:alert(1)"))
}

func TestSanitizeStringStripsInlineEventHandlers(t *testing.T) {
	assert.Equal(t, `<img "x">`, SanitizeString(`<img onerror="x">`))
	assert.Equal(t, `<div "y">`, SanitizeString(`<div onClick="y">`))
}

func TestSanitizeStringLeavesPlainTextAlone(t *testing.T) {
	assert.Equal(t, "Acme Corp", SanitizeString("  Acme Corp  "))
	assert.Equal(t, "O'Connor & Sons", SanitizeString("O'Connor & Sons"))
}

func TestSanitizeInputCleansBodyAndQuery(t *testing.T) {
	app := ginext.New("release")
	app.Use(SanitizeInput())

	var gotBody map[string]any
	var gotQuery string
	app.POST("/echo", func(c *ginext.Context) {
		require.NoError(t, c.ShouldBindJSON(&gotBody))
		gotQuery = c.Query("search")
		c.Status(http.StatusOK)
	})

	body := `{"organization":"<script>alert(1)</script>Acme Corp","nested":{"note":"javascript:boom"}}`
	req := httptest.NewRequest(http.MethodPost, "/echo?search=%3Cscript%3Ex%3C%2Fscript%3Eacme", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme Corp", gotBody["organization"])
	nested, ok := gotBody["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boom", nested["note"])
	assert.Equal(t, "acme", gotQuery)
}

func TestSanitizeInputPassesInvalidJSONThrough(t *testing.T) {
	app := ginext.New("release")
	app.Use(SanitizeInput())
	app.POST("/echo", func(c *ginext.Context) {
		var payload map[string]any
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	app := ginext.New("release")
	app.Use(SecurityHeaders())
	app.GET("/", func(c *ginext.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
}

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	app := ginext.New("release")
	limiter := NewRateLimiter(2, time.Minute, "slow down")
	app.Use(limiter.Middleware())
	app.GET("/", func(c *ginext.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "slow down")
}
