package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maskrapp/spamguard/internal/check"
	"github.com/maskrapp/spamguard/internal/cleantalk"
	"github.com/maskrapp/spamguard/internal/global"
	"github.com/maskrapp/spamguard/internal/status"
	"github.com/maskrapp/spamguard/internal/validation"
	"github.com/sirupsen/logrus"
)

// KeyFormField is the form field the background key sync reads.
const KeyFormField = "cleantalk_wordpress_sdk_key"

type Service struct {
	ctx       global.Context
	server    *http.Server
	validator *validation.RegistrationValidator
}

func New(ctx global.Context) *Service {
	if ctx.Config().Production {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Service{
		ctx:       ctx,
		validator: validation.NewValidator(ctx.Instances().Store, ctx.Instances().Audit),
	}
	s.server = &http.Server{
		Addr:              ctx.Config().HTTP.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Service) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/register", s.handleRegister)
	router.POST("/sdk/key-form", s.handleKeyForm)

	settings := router.Group("/settings")
	settings.GET("/status", s.handleStatus)
	settings.POST("/key", s.handleSaveKey)
	settings.POST("/enabled", s.handleSetEnabled)

	return router
}

// newClient returns a client for a single inbound request, so every request
// gets its own execution guard.
func (s *Service) newClient() *cleantalk.Client {
	cfg := s.ctx.Config().CleanTalk
	opts := []cleantalk.Option{
		cleantalk.WithVendorAgent(cfg.Vendor),
		cleantalk.WithHTTPClient(s.ctx.Instances().HTTPClient),
		cleantalk.WithEndpoints(cfg.CheckURL, cfg.SyncURL),
		cleantalk.WithGuard(check.NewGuard()),
	}
	if cfg.SkipReason != "" {
		reason := cfg.SkipReason
		opts = append(opts, cleantalk.WithSkipPolicy(func(ctx context.Context) string {
			return reason
		}))
	}
	return cleantalk.New(s.ctx.Instances().Store, opts...)
}

func (s *Service) settings(client *cleantalk.Client) *status.Settings {
	return status.NewSettings(s.ctx.Instances().Store, client)
}

func (s *Service) Start() {
	logrus.Infof("Starting service on %v...", s.server.Addr)
	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Error("HTTP error: ", err)
	}
}

func (s *Service) Shutdown() {
	logrus.Info("Gracefully shutting down...")
	ctx, cancel := global.WithTimeout(s.ctx, time.Second*10)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		logrus.Error(err)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.Debugf("%v %v %v in %vms", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Milliseconds())
	}
}
