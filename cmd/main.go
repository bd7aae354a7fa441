package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/getsentry/sentry-go"

	"github.com/dtroode/tourdesk/internal/apiclient"
	"github.com/dtroode/tourdesk/internal/config"
	"github.com/dtroode/tourdesk/internal/logger"
	"github.com/dtroode/tourdesk/internal/model"
	"github.com/dtroode/tourdesk/internal/notify"
	"github.com/dtroode/tourdesk/internal/repository/file"
	"github.com/dtroode/tourdesk/internal/repository/memory"
	"github.com/dtroode/tourdesk/internal/repository/postgres"
	"github.com/dtroode/tourdesk/internal/service"
	storage "github.com/dtroode/tourdesk/internal/storage/minio"
	"github.com/dtroode/tourdesk/internal/token"
	"github.com/dtroode/tourdesk/internal/transport"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	if err := notify.InitSentry(cfg.Sentry.DSN, cfg.Sentry.Environment, buildVersion); err != nil {
		logger.Fatal("failed to initialize sentry", "error", err)
	}
	defer notify.FlushSentry()

	a, closeApp, err := newApp(ctx, cfg, logger, os.Stdout, os.Stderr)
	if err != nil {
		logger.Fatal("failed to initialize client", "error", err)
	}
	defer closeApp()

	code := a.run(ctx, os.Args[1:])
	if code != 0 {
		notify.FlushSentry()
		closeApp()
		os.Exit(code)
	}
}

// newApp wires the services of one process. The returned function releases
// the token store.
func newApp(ctx context.Context, cfg *config.Config, logger *logger.Logger, out, errOut io.Writer) (*app, func(), error) {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize token store: %w", err)
	}

	httpClient, err := transport.NewHTTPClient(cfg.API.Timeout, cfg.API.CAFile)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to initialize http client: %w", err)
	}

	notifier := notify.Multi{notify.NewConsole(errOut, logger)}
	if cfg.Sentry.DSN != "" {
		notifier = append(notifier, notify.NewSentry(sentry.CurrentHub()))
	}

	api := apiclient.New(cfg.API.BaseURL(), store, logger,
		apiclient.WithHTTPClient(httpClient),
		apiclient.WithNotifier(notifier))

	a := &app{
		api:         api,
		auth:        service.NewAuth(api, store, token.NewJWT(), notifier, logger),
		tours:       service.NewTours(api, cfg.Cache.TTL, notifier, logger),
		services:    service.NewServices(api, cfg.Cache.TTL, notifier, logger),
		itineraries: service.NewItineraries(api, cfg.Cache.TTL, notifier, logger),
		quotes:      service.NewQuotes(api, notifier, logger),
		payments:    service.NewPayments(api, notifier, logger),
		blog:        service.NewBlog(api),
		content:     service.NewContent(api),
		media: func(ctx context.Context) (model.MediaSource, error) {
			return openMedia(ctx, cfg.Media)
		},
		out: out,
	}
	return a, closeStore, nil
}

func openStore(ctx context.Context, cfg *config.Config) (model.TokenStore, func(), error) {
	switch cfg.TokenStore.Driver {
	case config.StorePostgres:
		db, err := postgres.NewConnection(ctx, cfg.TokenStore.DSN)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() { _ = db.Close() }
		return postgres.NewCredentialsRepository(db, cfg.TokenStore.Profile), closeDB, nil
	case config.StoreMemory:
		return memory.NewCredentialsRepository(), func() {}, nil
	default:
		path := cfg.TokenStore.Path
		if path == "" {
			var err error
			if path, err = file.DefaultPath(cfg.TokenStore.Profile); err != nil {
				return nil, nil, err
			}
		}
		return file.NewCredentialsRepository(path), func() {}, nil
	}
}

func openMedia(ctx context.Context, cfg config.Media) (model.MediaSource, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("media storage is not configured, set MEDIA_ENDPOINT")
	}
	return storage.Connect(ctx, storage.Options{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
