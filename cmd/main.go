package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/maskrapp/spamguard/internal/audit"
	"github.com/maskrapp/spamguard/internal/cleantalk"
	"github.com/maskrapp/spamguard/internal/config"
	"github.com/maskrapp/spamguard/internal/global"
	"github.com/maskrapp/spamguard/internal/service"
	"github.com/maskrapp/spamguard/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.New()

	ll, err := logrus.ParseLevel(cfg.Logger.LogLevel)
	if err != nil {
		ll = logrus.DebugLevel
	}
	logrus.SetLevel(ll)

	store, err := openStore(cfg)
	if err != nil {
		logrus.Panicf("storage error: %s", err)
	}

	seeded, err := storage.SeedAccessKey(context.Background(), store, cfg.CleanTalk.AccessKey)
	if err != nil {
		logrus.Panicf("storage error: %s", err)
	}
	if seeded {
		logrus.Info("stored access key from CLEANTALK_ACCESS_KEY")
	}

	var sink audit.Sink = audit.Nop{}
	if cfg.Mongo.URI != "" {
		mongoSink, err := audit.NewMongo(cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			logrus.Panicf("mongo error: %s", err)
		}
		defer mongoSink.Close(context.Background())
		sink = mongoSink
	}

	instances := &global.Instances{
		Store:      store,
		Audit:      sink,
		HTTPClient: cleantalk.NewHTTPClient(cfg.CleanTalk.Timeout),
	}
	globalContext := global.NewContext(context.Background(), instances, cfg)

	server := service.New(globalContext)

	runContext, cancel := global.WithCancel(globalContext)
	defer cancel()
	eg, egCtx := errgroup.WithContext(runContext)
	eg.Go(func() error {
		server.Start()
		// the server stopping on its own takes the process down too
		cancel()
		return nil
	})
	eg.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigChan:
		case <-egCtx.Done():
		}
		server.Shutdown()
		return nil
	})
	eg.Wait()
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "redis":
		return storage.NewRedis(context.Background(), cfg.Redis.URL, cfg.Redis.Prefix)
	case "postgres":
		return storage.NewPostgres(cfg.PostgresDSN())
	default:
		logrus.Warn("using in-memory settings storage, settings are lost on restart")
		return storage.NewMemory(), nil
	}
}
