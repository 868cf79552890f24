package validation

import (
	"context"
	"strings"
	"time"

	"github.com/maskrapp/spamguard/internal/audit"
	"github.com/maskrapp/spamguard/internal/check"
	"github.com/maskrapp/spamguard/internal/cleantalk"
	"github.com/maskrapp/spamguard/internal/storage"
	"github.com/sirupsen/logrus"
)

// UserData is the part of a registration that describes the new user.
type UserData struct {
	Nickname    string
	FirstName   string
	LastName    string
	DisplayName string
}

// FullNickname joins the nickname with the first and last name, skipping the
// empty ones.
func (u UserData) FullNickname() string {
	nickname := u.Nickname
	if u.FirstName != "" {
		nickname += " " + u.FirstName
	}
	if u.LastName != "" {
		nickname += " " + u.LastName
	}
	return strings.TrimSpace(nickname)
}

type CheckResponse struct {
	Reject bool
	Reason string
	Result *check.Result
}

type RegistrationValidator struct {
	store storage.Store
	sink  audit.Sink
}

func NewValidator(store storage.Store, sink audit.Sink) *RegistrationValidator {
	if sink == nil {
		sink = audit.Nop{}
	}
	return &RegistrationValidator{store: store, sink: sink}
}

// RunChecks decides whether a registration may proceed. Only an explicit
// block from CleanTalk rejects it.
func (v *RegistrationValidator) RunChecks(ctx context.Context, client *cleantalk.Client, req check.RequestContext, user UserData) CheckResponse {
	enabled, err := v.store.Enabled(ctx)
	if err != nil {
		logrus.Error("DB error(Enabled): ", err)
		return CheckResponse{}
	}
	if !enabled {
		logrus.Debug("cleantalk integration disabled, skipping registration check")
		return CheckResponse{}
	}

	start := time.Now()
	msg := client.BuildMessage(req, client.AccessKey(ctx))
	msg.SenderNickname = user.FullNickname()
	msg.SenderMessage = user.DisplayName

	result := client.CheckRequest(ctx, req, msg)
	logrus.Debugf("finished registration check in %vms", time.Since(start).Milliseconds())
	v.sink.Record(ctx, audit.NewEntry(msg.SenderIP, msg.SenderEmail, msg.SenderNickname, result))

	if result.Blocked() {
		logrus.Infof("rejecting registration from %v for reason: %v", msg.SenderIP, result.Comment)
		return CheckResponse{Reject: true, Reason: result.Comment, Result: result}
	}
	return CheckResponse{Result: result}
}
