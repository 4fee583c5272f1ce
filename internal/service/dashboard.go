package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fincompass/console/internal/domain/model"
	"github.com/fincompass/console/internal/ports"
)

const statsCacheKey = "dashboard:stats"

// DashboardStats is the aggregate view shown on the landing dashboard.
type DashboardStats struct {
	Companies  map[model.CompanyStatus]int64 `json:"companies"`
	Products   map[model.ProductStatus]int64 `json:"products"`
	TotalUsers int64                         `json:"total_users"`
}

// DashboardService aggregates record counts, with a short-lived Redis
// cache in front of the database.
type DashboardService struct {
	companies ports.CompanyStore
	products  ports.ProductStore
	users     ports.UserStore
	cache     ports.ByteCache
	ttl       time.Duration
	logger    *slog.Logger
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Companies ports.CompanyStore
	Products  ports.ProductStore
	Users     ports.UserStore
	Cache     ports.ByteCache // nil disables caching
	TTL       time.Duration
	Logger    *slog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	return &DashboardService{
		companies: opts.Companies,
		products:  opts.Products,
		users:     opts.Users,
		cache:     opts.Cache,
		ttl:       opts.TTL,
		logger:    opts.Logger,
	}
}

// Stats returns dashboard statistics, served from cache when fresh.
// Cache failures degrade to direct database reads.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey); err != nil {
			s.logger.Warn("stats cache read failed", "error", err)
		} else if cached != nil {
			var stats DashboardStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
			// Corrupt cache entry; fall through to a rebuild.
			if _, err := s.cache.Delete(ctx, statsCacheKey); err != nil {
				s.logger.Warn("stats cache delete failed", "error", err)
			}
		}
	}

	stats, err := s.buildStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, payload, s.ttl); err != nil {
				s.logger.Warn("stats cache write failed", "error", err)
			}
		}
	}
	return stats, nil
}

// buildStats runs the three count queries concurrently.
func (s *DashboardService) buildStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		companies, err := s.companies.CountByStatus(gctx)
		stats.Companies = companies
		return err
	})
	g.Go(func() error {
		products, err := s.products.CountByStatus(gctx)
		stats.Products = products
		return err
	})
	g.Go(func() error {
		users, err := s.users.Count(gctx)
		stats.TotalUsers = users
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
