package check

import (
	"errors"
	"net/http"
)

const (
	DefaultAllow   = 1
	DefaultComment = "Not spam"
)

var (
	ErrNoAccessKey     = errors.New("no access key")
	ErrPolicySkip      = errors.New("skipped by policy")
	ErrAlreadyExecuted = errors.New("already executed")
	ErrInvalidMessage  = errors.New("invalid message")
	ErrTransport       = errors.New("transport error")
	ErrProtocol        = errors.New("protocol error")
)

// Result is the verdict of a single spam check. A zero Allow is the only
// value that blocks; everything else, including every skip, lets the
// request through.
type Result struct {
	Allow      int    `json:"allow"`
	Comment    string `json:"comment"`
	Data       string `json:"data"`
	SkipReason string `json:"skip_reason"`
	Success    bool   `json:"success"`
	Err        error  `json:"-"`
}

func NewResult() *Result {
	r := &Result{}
	r.Reset()
	return r
}

func (r *Result) Reset() {
	r.Allow = DefaultAllow
	r.Comment = DefaultComment
	r.Data = ""
	r.SkipReason = ""
	r.Success = false
	r.Err = nil
}

func (r *Result) Blocked() bool {
	return r.Success && r.Allow == 0
}

type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RequestContext is a read-only snapshot of the inbound request a check is
// made for.
type RequestContext struct {
	RemoteAddr    string
	XForwardedFor string
	XRealIP       string
	Referrer      string
	UserAgent     string
	Headers       http.Header
	FormData      map[string]any
}
