package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/fincompass/console/config"
	"github.com/fincompass/console/internal/adapters/directory"
	"github.com/fincompass/console/internal/adapters/password"
	"github.com/fincompass/console/internal/adapters/token"
	"github.com/fincompass/console/internal/data"
	"github.com/fincompass/console/internal/ports"
	"github.com/fincompass/console/internal/service"
)

// ServiceDeps contains dependencies needed to create services.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the constructed application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Users     *service.UserService
	Companies *service.CompanyService
	Products  *service.ProductService
	Dashboard *service.DashboardService
	Tokens    ports.TokenCodec
}

// NewServices wires repositories, adapters, and services together.
func NewServices(deps *ServiceDeps) ServiceContainer {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userRepo := data.NewUserRepo(deps.DB)
	companyRepo := data.NewCompanyRepo(deps.DB)
	productRepo := data.NewProductRepo(deps.DB)

	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	tokens := token.NewCodec(cfg.Auth.Token.Secret, cfg.Auth.Token.TTL)

	var cache ports.ByteCache
	if deps.RedisClient != nil {
		cache = data.NewRedisCacheRepo(deps.RedisClient)
	}

	return ServiceContainer{
		Auth:      buildAuthService(cfg, userRepo, hasher, tokens, logger),
		Users:     service.NewUserService(userRepo, hasher, logger),
		Companies: service.NewCompanyService(companyRepo, logger),
		Products:  service.NewProductService(productRepo, logger),
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{
			Companies: companyRepo,
			Products:  productRepo,
			Users:     userRepo,
			Cache:     cache,
			TTL:       cfg.Cache.StatsTTL,
			Logger:    logger,
		}),
		Tokens: tokens,
	}
}

// buildAuthService picks the credential verification strategy from the
// configured auth mode. Directory mode adds the LDAP provider and the
// account reconciler; local mode verifies against stored bcrypt hashes.
func buildAuthService(
	cfg *config.AppConfig,
	users *data.UserRepo,
	hasher *password.Hasher,
	tokens *token.Codec,
	logger *slog.Logger,
) *service.AuthService {
	opts := service.AuthServiceOptions{
		Users:  users,
		Hasher: hasher,
		Tokens: tokens,
		Logger: logger,
	}

	if cfg.Auth.Mode == config.AuthModeLDAP {
		opts.Directory = directory.NewProvider(cfg.Auth.LDAP, logger)
		opts.Reconciler = service.NewIdentityReconciler(users, hasher, logger)
		logger.Info("directory authentication enabled", "url", cfg.Auth.LDAP.URL)
	}

	return service.NewAuthService(opts)
}
