// Package app wires the service together: configuration, the local
// mirror, the optional remote store and cache, the collection store and
// the HTTP API.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/genai"

	"market-weekly/api"
	"market-weekly/auth"
	"market-weekly/cache"
	"market-weekly/config"
	"market-weekly/database"
	"market-weekly/mirror"
	"market-weekly/notify"
	"market-weekly/store"
	"market-weekly/summary"
)

// App represents the main application
type App struct {
	config  *config.Config
	mirror  *mirror.Mirror
	db      *database.Database
	redis   *cache.RedisClient
	store   *store.Store
	session *auth.Session
	server  *api.Server
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// Start starts the application
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Local mirror (required, works offline)
	m, err := mirror.Open(a.config.MirrorPath)
	if err != nil {
		return fmt.Errorf("failed to open local mirror: %w", err)
	}
	a.mirror = m
	defer a.mirror.Close()

	// 2. Remote store (optional). Schema initialization failure is fatal:
	// no read or write is trustworthy afterward.
	var gateway store.Gateway
	var sink notify.RemoteSink
	if a.config.DatabaseURL != "" {
		log.Println("🗄️  Connecting to database...")
		db, err := database.Connect(a.config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		a.db = db
		defer a.db.Close()

		repo := database.NewRepository(db)
		if err := repo.InitSchema(); err != nil {
			return err
		}
		log.Println("✅ Database schema ready")
		gateway = repo
		sink = repo
	} else {
		log.Println("📦 No remote store configured, running from local mirror")
	}

	// 3. Redis (optional, summary caching)
	a.redis = cache.NewRedisClient(a.config.RedisHost, a.config.RedisPort, a.config.RedisPassword)
	if a.redis == nil {
		log.Println("⚠️  Redis unavailable. Summary caching disabled.")
	}
	defer a.redis.Close()

	// 4. Collection store + initial bulk load
	a.store = store.New(gateway, a.mirror, notify.NewEmitter(sink))
	if err := a.store.Load(ctx); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}
	log.Printf("✅ Loaded %d insights, %d journal entries, %d notifications",
		len(a.store.Insights()), len(a.store.Journals()), len(a.store.Notifications()))

	// 5. Summary collaborator (optional)
	var summarizer *summary.Service
	if a.config.Summary.Enabled {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: a.config.Summary.APIKey})
		if err != nil {
			log.Printf("⚠️  Summary service unavailable: %v", err)
			summarizer = summary.New(nil, a.config.Summary.Model, a.redis)
		} else {
			summarizer = summary.New(client, a.config.Summary.Model, a.redis)
		}
	} else {
		summarizer = summary.New(nil, a.config.Summary.Model, a.redis)
	}

	// 6. Admin session + HTTP API
	a.session = auth.NewSession(a.config.AdminPassphrase, a.mirror)
	a.server = api.NewServer(a.store, a.session, summarizer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start(a.config.HTTPPort)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("📡 Received %v, shutting down...", sig)
		return nil
	}
}
