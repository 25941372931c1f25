package authcore

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/avagner/authcore/internal/audit"
	"github.com/avagner/authcore/internal/metrics"
	"github.com/avagner/authcore/password"
	"github.com/avagner/authcore/token"
)

// Builder assembles an [Engine] from a config and a set of backends.
// Explicit stores win over clients: a WithUserStore call overrides the
// gorm-backed default even when WithDatabase was also given. With no
// external backends at all, Build falls back to the in-memory stores.
//
// A builder is single-use. Build fails on reuse.
type Builder struct {
	config Config

	redis *redis.Client
	db    *gorm.DB

	userStore   UserStore
	bannedStore BannedTokenStore
	twoFAStore  TwoFACodeStore
	emailClient EmailClient
	auditSink   audit.Sink

	built bool
}

// New returns a builder preloaded with [DefaultConfig]. A signing key
// must still be supplied through WithConfig before Build.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the builder's config with a defensive copy.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis selects Redis-backed revocation and challenge stores.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithDatabase selects the gorm-backed user store.
func (b *Builder) WithDatabase(db *gorm.DB) *Builder {
	b.db = db
	return b
}

// WithUserStore installs a caller-provided user store.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.userStore = store
	return b
}

// WithBannedTokenStore installs a caller-provided revocation store.
func (b *Builder) WithBannedTokenStore(store BannedTokenStore) *Builder {
	b.bannedStore = store
	return b
}

// WithTwoFACodeStore installs a caller-provided challenge store.
func (b *Builder) WithTwoFACodeStore(store TwoFACodeStore) *Builder {
	b.twoFAStore = store
	return b
}

// WithEmailClient installs the dispatch channel for one-time codes.
func (b *Builder) WithEmailClient(client EmailClient) *Builder {
	b.emailClient = client
	return b
}

// WithAuditSink installs the destination for audit events. Ignored when
// auditing is disabled in the config.
func (b *Builder) WithAuditSink(sink audit.Sink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the config, wires the stores, and returns a ready
// engine. The returned engine owns the audit dispatcher; callers must
// Close it on shutdown.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

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

	codec, err := token.NewCodec(token.Config{
		TTL:        cfg.Token.TTL,
		SigningKey: cloneBytes(cfg.Token.SigningKey),
		Issuer:     cfg.Token.Issuer,
	})
	if err != nil {
		return nil, err
	}

	users := b.userStore
	if users == nil {
		if b.db != nil {
			users, err = NewPostgresUserStore(b.db, pool)
			if err != nil {
				return nil, err
			}
		} else {
			users = NewMemoryUserStore(pool)
		}
	}

	banned := b.bannedStore
	if banned == nil {
		if b.redis != nil {
			banned = NewRedisBannedTokenStore(b.redis, cfg.Revocation.RedisPrefix)
		} else {
			banned = NewMemoryBannedTokenStore()
		}
	}

	twoFA := b.twoFAStore
	if twoFA == nil {
		if b.redis != nil {
			twoFA = NewRedisTwoFACodeStore(b.redis, cfg.TwoFactor.RedisPrefix, cfg.TwoFactor.ChallengeTTL)
		} else {
			twoFA = NewMemoryTwoFACodeStore(cfg.TwoFactor.ChallengeTTL)
		}
	}

	emails := b.emailClient
	if emails == nil {
		emails = NewMockEmailClient(nil)
	}

	engine := &Engine{
		config:  cfg,
		users:   users,
		banned:  banned,
		twoFA:   twoFA,
		emails:  emails,
		tokens:  codec,
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
		metrics: metrics.New(metrics.Config{Enabled: cfg.Metrics.Enabled}),
	}

	b.built = true
	return engine, nil
}
