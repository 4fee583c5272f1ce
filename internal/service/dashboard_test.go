package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincompass/console/internal/domain/model"
	authmocks "github.com/fincompass/console/internal/mocks/auth"
	"github.com/fincompass/console/internal/ports"
)

// countingCompanyStore stubs CountByStatus and tracks call counts.
type countingCompanyStore struct {
	ports.CompanyStore
	counts map[model.CompanyStatus]int64
	calls  int
}

func (s *countingCompanyStore) CountByStatus(context.Context) (map[model.CompanyStatus]int64, error) {
	s.calls++
	return s.counts, nil
}

type countingProductStore struct {
	ports.ProductStore
	counts map[model.ProductStatus]int64
}

func (s *countingProductStore) CountByStatus(context.Context) (map[model.ProductStatus]int64, error) {
	return s.counts, nil
}

func TestDashboardService_Stats(t *testing.T) {
	companies := &countingCompanyStore{counts: map[model.CompanyStatus]int64{
		model.CompanyStatusNew:     2,
		model.CompanyStatusEngaged: 1,
	}}
	products := &countingProductStore{counts: map[model.ProductStatus]int64{
		model.ProductStatusDone: 3,
	}}
	users := authmocks.NewMemoryUserStore()
	users.Seed(&model.User{Username: "admin", Name: "Admin", IsActive: true})

	svc := NewDashboardService(DashboardServiceOptions{
		Companies: companies,
		Products:  products,
		Users:     users,
		Cache:     authmocks.NewMemoryCache(),
		Logger:    discardLogger(),
	})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Companies[model.CompanyStatusNew])
	assert.EqualValues(t, 3, stats.Products[model.ProductStatusDone])
	assert.EqualValues(t, 1, stats.TotalUsers)
	assert.Equal(t, 1, companies.calls)

	// Second read is served from cache.
	again, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.TotalUsers, again.TotalUsers)
	assert.Equal(t, 1, companies.calls, "cached read must not hit the store")
}

func TestDashboardService_NoCache(t *testing.T) {
	companies := &countingCompanyStore{counts: map[model.CompanyStatus]int64{}}
	products := &countingProductStore{counts: map[model.ProductStatus]int64{}}

	svc := NewDashboardService(DashboardServiceOptions{
		Companies: companies,
		Products:  products,
		Users:     authmocks.NewMemoryUserStore(),
		Logger:    discardLogger(),
	})

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)
	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, companies.calls, "without a cache every read hits the store")
}
