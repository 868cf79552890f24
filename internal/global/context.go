package global

import (
	"context"
	"net/http"
	"time"

	"github.com/maskrapp/spamguard/internal/audit"
	"github.com/maskrapp/spamguard/internal/config"
	"github.com/maskrapp/spamguard/internal/storage"
)

type Instances struct {
	Store      storage.Store
	Audit      audit.Sink
	HTTPClient *http.Client
}

type Context interface {
	context.Context
	Instances() *Instances
	Config() *config.Config
}

type globalContext struct {
	context.Context
	instances *Instances
	config    *config.Config
}

func NewContext(ctx context.Context, instances *Instances, config *config.Config) Context {
	return &globalContext{
		Context:   ctx,
		instances: instances,
		config:    config,
	}
}

func (r *globalContext) Instances() *Instances {
	return r.instances
}

func (r *globalContext) Config() *config.Config {
	return r.config
}

func WithCancel(ctx Context) (Context, context.CancelFunc) {
	c, cancel := context.WithCancel(ctx)
	return &globalContext{
		Context:   c,
		config:    ctx.Config(),
		instances: ctx.Instances(),
	}, cancel
}

func WithTimeout(ctx Context, timeout time.Duration) (Context, context.CancelFunc) {
	c, cancel := context.WithTimeout(ctx, timeout)
	return &globalContext{
		Context:   c,
		instances: ctx.Instances(),
		config:    ctx.Config(),
	}, cancel
}
