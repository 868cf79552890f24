package cleantalk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/maskrapp/spamguard/internal/check"
	"github.com/maskrapp/spamguard/internal/message"
	"github.com/sirupsen/logrus"
)

const (
	stageSkipped   = "Request skipped"
	stageBadParams = "Bad params"
	stageFailed    = "Request failed"
)

// skipError explains why a check ended without a verdict. Error() is what
// ends up in Result.SkipReason, Unwrap exposes the category.
type skipError struct {
	stage  string
	reason string
	cause  error
}

func (e *skipError) Error() string {
	return e.stage + ": " + e.reason
}

func (e *skipError) Unwrap() error {
	return e.cause
}

func skip(stage string, cause error, reason string) error {
	return &skipError{stage: stage, reason: reason, cause: cause}
}

// CheckRequest asks the moderation endpoint for a verdict on req. If custom
// is nil a message is built from req. It never fails: anything that keeps a
// verdict from arriving is reported through SkipReason and the result keeps
// allowing the request.
//
// The returned Result is owned by the client and reset on every call.
func (c *Client) CheckRequest(ctx context.Context, req check.RequestContext, custom *message.Message) *check.Result {
	c.result.Reset()
	if err := c.checkRequest(ctx, req, custom); err != nil {
		c.result.Err = err
		c.result.SkipReason = err.Error()
		logrus.Debugf("cleantalk check skipped: %v", c.result.SkipReason)
	}
	return c.result
}

// IsSpam reports whether the vendor explicitly blocked req.
func (c *Client) IsSpam(ctx context.Context, req check.RequestContext) bool {
	return c.CheckRequest(ctx, req, nil).Blocked()
}

func (c *Client) checkRequest(ctx context.Context, req check.RequestContext, custom *message.Message) error {
	key := c.AccessKey(ctx)
	if key == "" {
		return skip(stageSkipped, check.ErrNoAccessKey, "no access key")
	}
	if c.skipPolicy != nil {
		if reason := c.skipPolicy(ctx); reason != "" {
			return skip(stageSkipped, check.ErrPolicySkip, reason)
		}
	}
	if c.guard.Executed() {
		return skip(stageSkipped, check.ErrAlreadyExecuted, "cleantalk already executed")
	}

	msg := custom
	if msg == nil {
		msg = c.BuildMessage(req, key)
	}
	if msg == nil {
		return skip(stageBadParams, check.ErrInvalidMessage, "empty message")
	}
	if msg.EventToken == "" {
		return skip(stageBadParams, check.ErrInvalidMessage, "event token is empty")
	}
	body, err := msg.JSON()
	if err != nil {
		return skip(stageBadParams, check.ErrInvalidMessage, fmt.Sprintf("cannot encode message: %v", err))
	}

	resp, err := c.post(ctx, c.checkURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return skip(stageFailed, check.ErrTransport, fmt.Sprintf("transport error: %v", err))
	}
	if len(resp.body) == 0 {
		return skip(stageFailed, check.ErrProtocol, "empty response body")
	}
	c.result.Data = string(resp.body)
	if resp.statusCode >= 400 {
		return skip(stageFailed, check.ErrProtocol, "response code >400")
	}

	var decoded any
	if err := json.Unmarshal(resp.body, &decoded); err != nil || decoded == nil {
		return skip(stageFailed, check.ErrProtocol, "cannot decode response JSON")
	}
	allow, comment, ok := parseVerdict(decoded)
	if !ok {
		return skip(stageFailed, check.ErrProtocol, "unknown response format")
	}

	if !c.guard.MarkExecuted() {
		return skip(stageSkipped, check.ErrAlreadyExecuted, "cleantalk already executed")
	}
	c.result.Allow = allow
	c.result.Comment = comment
	c.result.Success = true
	logrus.Infof("cleantalk verdict for %v: allow=%v comment=%v", msg.SenderIP, allow, comment)
	return nil
}

func parseVerdict(decoded any) (int, string, bool) {
	root, ok := decoded.(map[string]any)
	if !ok {
		return 0, "", false
	}
	rawAllow, ok := root["allow"]
	if !ok || rawAllow == nil {
		return 0, "", false
	}
	rawComment, ok := root["comment"]
	if !ok || rawComment == nil {
		return 0, "", false
	}

	var allow int
	switch v := rawAllow.(type) {
	case float64:
		// only an exact zero blocks, any other number allows
		if v != 0 {
			allow = 1
		}
	case bool:
		if v {
			allow = 1
		}
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, "", false
		}
		if n != 0 {
			allow = 1
		}
	default:
		return 0, "", false
	}

	comment, ok := rawComment.(string)
	if !ok {
		comment = fmt.Sprint(rawComment)
	}
	return allow, comment, true
}
