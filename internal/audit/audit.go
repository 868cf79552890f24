package audit

import (
	"context"
	"time"

	"github.com/maskrapp/spamguard/internal/check"
)

// Entry is one registration check, whatever its outcome.
type Entry struct {
	Time       time.Time `bson:"time" json:"time"`
	IP         string    `bson:"ip" json:"ip"`
	Email      string    `bson:"email" json:"email"`
	Nickname   string    `bson:"nickname" json:"nickname"`
	Allow      int       `bson:"allow" json:"allow"`
	Comment    string    `bson:"comment" json:"comment"`
	Success    bool      `bson:"success" json:"success"`
	SkipReason string    `bson:"skip_reason" json:"skip_reason"`
}

func NewEntry(ip, email, nickname string, result *check.Result) Entry {
	return Entry{
		Time:       time.Now().UTC(),
		IP:         ip,
		Email:      email,
		Nickname:   nickname,
		Allow:      result.Allow,
		Comment:    result.Comment,
		Success:    result.Success,
		SkipReason: result.SkipReason,
	}
}

type Sink interface {
	Record(ctx context.Context, entry Entry)
}

type Nop struct{}

func (Nop) Record(context.Context, Entry) {}
