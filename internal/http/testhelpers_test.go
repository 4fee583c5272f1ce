package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fincompass/console/internal/adapters/token"
	"github.com/fincompass/console/internal/domain/model"
	mockauth "github.com/fincompass/console/internal/mocks/auth"
	"github.com/fincompass/console/internal/service"
)

const testSecret = "test-secret-not-for-production"

// stubCompanyStore satisfies ports.CompanyStore with canned counts. The
// CRUD methods are not exercised by the router tests.
type stubCompanyStore struct {
	counts map[model.CompanyStatus]int64
}

func (s *stubCompanyStore) Create(context.Context, *model.CreateCompanyRequest) (*model.Company, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCompanyStore) GetByID(context.Context, int64) (*model.Company, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCompanyStore) List(context.Context, model.CompaniesListOptions) ([]*model.Company, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCompanyStore) CountByStatus(context.Context) (map[model.CompanyStatus]int64, error) {
	return s.counts, nil
}

func (s *stubCompanyStore) Update(context.Context, int64, model.UpdateCompanyRequest) (*model.Company, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCompanyStore) Delete(context.Context, int64) (bool, error) {
	return false, errors.New("not implemented")
}

type stubProductStore struct {
	counts map[model.ProductStatus]int64
}

func (s *stubProductStore) Create(context.Context, *model.CreateProductRequest) (*model.Product, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProductStore) GetByID(context.Context, int64) (*model.Product, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProductStore) List(context.Context, model.ProductsListOptions) ([]*model.Product, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProductStore) CountByStatus(context.Context) (map[model.ProductStatus]int64, error) {
	return s.counts, nil
}

func (s *stubProductStore) Update(context.Context, int64, model.UpdateProductRequest) (*model.Product, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProductStore) Delete(context.Context, int64) (bool, error) {
	return false, errors.New("not implemented")
}

// testEnv bundles a fully wired router backed by in-memory stores and a
// real token codec.
type testEnv struct {
	handler http.Handler
	users   *mockauth.MemoryUserStore
	codec   *token.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	users := mockauth.NewMemoryUserStore()
	hasher := mockauth.FakeHasher{}
	codec := token.NewCodec(testSecret, time.Hour)

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Users:  users,
		Hasher: hasher,
		Tokens: codec,
		Logger: logger,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceOptions{
		Companies: &stubCompanyStore{counts: map[model.CompanyStatus]int64{model.CompanyStatusNew: 2}},
		Products:  &stubProductStore{counts: map[model.ProductStatus]int64{model.ProductStatusDone: 1}},
		Users:     users,
		Cache:     mockauth.NewMemoryCache(),
		TTL:       time.Minute,
		Logger:    logger,
	})

	handler, err := NewRouter(RouterServices{
		Auth:      authSvc,
		Users:     service.NewUserService(users, hasher, logger),
		Companies: service.NewCompanyService(&stubCompanyStore{}, logger),
		Products:  service.NewProductService(&stubProductStore{}, logger),
		Dashboard: dashboardSvc,
		Tokens:    codec,
		IsDev:     true,
		Logger:    logger,
	})
	require.NoError(t, err)

	return &testEnv{handler: handler, users: users, codec: codec}
}

func updateIsActive(active *bool) model.UpdateUserRequest {
	return model.UpdateUserRequest{IsActive: active}
}

// seedAdmin inserts an active admin with the given credentials.
func (e *testEnv) seedAdmin(username, password string) *model.User {
	return e.users.Seed(&model.User{
		Username:     username,
		Name:         "Test Admin",
		PasswordHash: "hashed:" + password,
		Role:         "ADMIN",
		IsActive:     true,
	})
}
