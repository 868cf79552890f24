package cleantalk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/maskrapp/spamguard/internal/check"
	"github.com/sirupsen/logrus"
)

const keyIsEmpty = "key is empty"

// SyncAccessKey validates candidate against the account endpoint and, when
// it is accepted and persist is set, makes it the active key.
//
// An empty candidate clears the stored key. That is reported as a failure
// for direct calls (the user submitted nothing) and as a success otherwise.
func (c *Client) SyncAccessKey(ctx context.Context, candidate string, directCall, persist bool) check.SyncResult {
	if candidate == "" {
		if persist && c.store != nil {
			if err := c.store.SetAccessKey(ctx, ""); err != nil {
				logrus.Error("DB error(SetAccessKey): ", err)
			}
		}
		return check.SyncResult{Success: !directCall, Message: keyIsEmpty}
	}

	if err := c.validateKey(ctx, candidate); err != nil {
		logrus.Debugf("access key sync failed: %v", err)
		return check.SyncResult{Message: err.Error()}
	}

	if persist {
		c.accessKey = candidate
		if c.store != nil {
			if err := c.store.SetAccessKey(ctx, candidate); err != nil {
				logrus.Error("DB error(SetAccessKey): ", err)
				return check.SyncResult{Message: fmt.Sprintf("cannot store key: %v", err)}
			}
		}
	}
	return check.SyncResult{Success: true}
}

func (c *Client) validateKey(ctx context.Context, key string) error {
	form := url.Values{
		"method_name": {"notice_paid_till"},
		"auth_key":    {key},
	}
	resp, err := c.post(ctx, c.syncURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	if len(resp.body) == 0 {
		return errors.New("content not found")
	}
	if resp.statusCode >= 400 {
		return fmt.Errorf("response code error: %d - %s", resp.statusCode, http.StatusText(resp.statusCode))
	}

	var decoded any
	if err := json.Unmarshal(resp.body, &decoded); err != nil || decoded == nil {
		return errors.New("decoded response null")
	}
	if keyMarkedInvalid(decoded) {
		return errors.New("key is not valid")
	}
	return nil
}

// keyMarkedInvalid reports whether the response carries data.valid set to a
// zero value. A missing flag means the key is fine.
func keyMarkedInvalid(decoded any) bool {
	root, ok := decoded.(map[string]any)
	if !ok {
		return false
	}
	data, ok := root["data"].(map[string]any)
	if !ok {
		return false
	}
	valid, ok := data["valid"]
	if !ok || valid == nil {
		return false
	}
	switch v := valid.(type) {
	case float64:
		return v == 0
	case bool:
		return !v
	case string:
		return v == "0"
	}
	return false
}
