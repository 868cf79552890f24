package check_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/maskrapp/spamguard/internal/check"
	"github.com/stretchr/testify/assert"
)

func TestGuardMarksOnce(t *testing.T) {
	guard := check.NewGuard()
	assert.False(t, guard.Executed())

	var wins atomic.Int32
	wg := sync.WaitGroup{}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if guard.MarkExecuted() {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.True(t, guard.Executed())
}

func TestResultReset(t *testing.T) {
	r := check.NewResult()
	assert.Equal(t, check.DefaultAllow, r.Allow)
	assert.Equal(t, check.DefaultComment, r.Comment)

	r.Allow = 0
	r.Success = true
	assert.True(t, r.Blocked())

	r.Reset()
	assert.False(t, r.Blocked())
	assert.False(t, r.Success)
	assert.Empty(t, r.SkipReason)
}

func TestFromHTTPRequest(t *testing.T) {
	form := url.Values{
		"email": {"user@example.com"},
		"tags":  {"a", "b"},
	}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	req.Header.Set("X-Real-IP", "198.51.100.2")
	req.Header.Set("Referer", "https://example.com/signup")
	req.Header.Set("User-Agent", "test-agent")
	req.RemoteAddr = "203.0.113.5:43210"

	values := check.FromHTTPRequest(req)
	assert.Equal(t, "203.0.113.5", values.RemoteAddr)
	assert.Equal(t, "198.51.100.1", values.XForwardedFor)
	assert.Equal(t, "198.51.100.2", values.XRealIP)
	assert.Equal(t, "https://example.com/signup", values.Referrer)
	assert.Equal(t, "test-agent", values.UserAgent)
	assert.Equal(t, "user@example.com", values.FormData["email"])
	assert.Equal(t, []any{"a", "b"}, values.FormData["tags"])
}
