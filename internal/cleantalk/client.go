package cleantalk

import (
	"context"
	"net/http"

	"github.com/maskrapp/spamguard/internal/check"
	"github.com/maskrapp/spamguard/internal/message"
	"github.com/maskrapp/spamguard/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	DefaultCheckURL = "https://moderate.cleantalk.org/api2.0"
	DefaultSyncURL  = "https://api.cleantalk.org/"

	BotDetectorScriptURL = "https://moderate.cleantalk.org/ct-bot-detector-wrapper.js"

	defaultVendor = "unknown_vendor"
)

// SkipPolicy lets the host force a check to be skipped. A non-empty return
// value is used as the skip reason.
type SkipPolicy func(ctx context.Context) string

// Client talks to the CleanTalk API on behalf of a single request. It is not
// meant to be shared between requests: the guard and the result it returns
// belong to the request it was created for.
type Client struct {
	accessKey  string
	agent      string
	store      storage.KeyStore
	httpClient *http.Client
	guard      *check.Guard
	skipPolicy SkipPolicy
	checkURL   string
	syncURL    string

	result *check.Result
}

type Option func(*Client)

// WithAccessKey sets the in-memory key without persisting it.
func WithAccessKey(key string) Option {
	return func(c *Client) {
		c.accessKey = key
	}
}

func WithVendorAgent(prefix string) Option {
	return func(c *Client) {
		if prefix == "" {
			prefix = defaultVendor
		}
		c.agent = prefix + "_sdk"
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithGuard(guard *check.Guard) Option {
	return func(c *Client) {
		c.guard = guard
	}
}

func WithSkipPolicy(policy SkipPolicy) Option {
	return func(c *Client) {
		c.skipPolicy = policy
	}
}

// WithEndpoints overrides the moderation and key sync URLs. Empty values
// keep the defaults.
func WithEndpoints(checkURL, syncURL string) Option {
	return func(c *Client) {
		if checkURL != "" {
			c.checkURL = checkURL
		}
		if syncURL != "" {
			c.syncURL = syncURL
		}
	}
}

func New(store storage.KeyStore, opts ...Option) *Client {
	c := &Client{
		agent:    defaultVendor + "_sdk",
		store:    store,
		checkURL: DefaultCheckURL,
		syncURL:  DefaultSyncURL,
		result:   check.NewResult(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = NewHTTPClient(DefaultTimeout)
	}
	if c.guard == nil {
		c.guard = check.NewGuard()
	}
	return c
}

// SetAccessKey replaces the key used by this client. An empty key is
// ignored.
func (c *Client) SetAccessKey(ctx context.Context, key string, persist bool) error {
	if key == "" {
		return nil
	}
	c.accessKey = key
	if !persist || c.store == nil {
		return nil
	}
	return c.store.SetAccessKey(ctx, key)
}

func (c *Client) Agent() string {
	return c.agent
}

func (c *Client) BuildMessage(req check.RequestContext, accessKey string) *message.Message {
	return message.Build(req, accessKey, c.agent)
}

// AccessKey returns the key checks are made with: the one set on the client,
// else the stored one.
func (c *Client) AccessKey(ctx context.Context) string {
	if c.accessKey != "" {
		return c.accessKey
	}
	if c.store == nil {
		return ""
	}
	key, err := c.store.AccessKey(ctx)
	if err != nil {
		logrus.Error("DB error(AccessKey): ", err)
		return ""
	}
	return key
}
