// Command auth-service runs the HTTP authentication server. Backends
// are selected from the loaded configuration: a Postgres URL enables
// the SQL user store, a Redis address enables shared revocation and
// challenge stores, and anything left unset falls back to the
// in-memory variants.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/avagner/authcore"
	"github.com/avagner/authcore/httpapi"
	"github.com/avagner/authcore/internal/audit"
	"github.com/avagner/authcore/internal/config"
	"github.com/avagner/authcore/password"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file; environment variables override it")
	flag.Parse()

	logger := log.New(os.Stderr, "auth-service ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	engineCfg := authcore.DefaultConfig()
	engineCfg.Token.SigningKey = []byte(cfg.Auth.JWTSecret)
	engineCfg.Token.TTL = cfg.Auth.TokenTTL
	engineCfg.TwoFactor.ChallengeTTL = cfg.Auth.ChallengeTTL

	builder := authcore.New().
		WithConfig(engineCfg).
		WithAuditSink(audit.NewJSONWriterSink(os.Stdout))

	if cfg.Database.URL != "" {
		db, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{
			TranslateError: true,
		})
		if err != nil {
			logger.Fatalf("open database: %v", err)
		}
		store, err := postgresUserStore(engineCfg, db)
		if err != nil {
			logger.Fatalf("build user store: %v", err)
		}
		if err := store.Migrate(); err != nil {
			logger.Fatalf("migrate users table: %v", err)
		}
		builder.WithUserStore(store)
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		builder.WithRedis(client)
	}

	engine, err := builder.Build()
	if err != nil {
		logger.Fatalf("build engine: %v", err)
	}
	defer engine.Close()

	server := httpapi.NewServer(engine, logger)
	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: server.Router(),
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Println("shutting down")
		_ = httpServer.Close()
	}()

	logger.Printf("listening on %s", cfg.Server.Address)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("serve: %v", err)
	}
}

// postgresUserStore builds the SQL-backed store with the same hashing
// parameters the engine will use, so stored hashes stay compatible.
func postgresUserStore(cfg authcore.Config, db *gorm.DB) (*authcore.PostgresUserStore, error) {
	hasher, err := password.NewHasher(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	pool, err := password.NewPool(hasher, cfg.Password.MaxConcurrent)
	if err != nil {
		return nil, err
	}
	return authcore.NewPostgresUserStore(db, pool)
}
