package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/checkpad/internal/api/http"
	"github.com/spec-kit/checkpad/internal/api/http/handlers"
	"github.com/spec-kit/checkpad/internal/domain"
	"github.com/spec-kit/checkpad/internal/observability"
	"github.com/spec-kit/checkpad/internal/repository"
	"github.com/spec-kit/checkpad/internal/service"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
)

type stubStaffRepo struct {
	txid int64
	err  error
}

func (s *stubStaffRepo) Insert(ctx context.Context, staff *domain.Staff) (int64, error) {
	return s.txid, s.err
}

func (s *stubStaffRepo) Update(ctx context.Context, id string, cols []repository.ColumnUpdate, changedBy *string) (int64, *domain.Staff, error) {
	return s.txid, &domain.Staff{ID: id}, s.err
}

func (s *stubStaffRepo) Delete(ctx context.Context, id string) (int64, []domain.CaseStaffAssignment, error) {
	return s.txid, nil, s.err
}

func (s *stubStaffRepo) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	return &domain.Staff{ID: id}, s.err
}

func (s *stubStaffRepo) List(ctx context.Context) ([]domain.Staff, error) {
	return nil, s.err
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, event syncstream.ChangeEvent) error {
	return nil
}

func newStaffApp(t *testing.T, repo repository.StaffRepository) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	svc := service.NewStaffService(service.StaffDependencies{
		StaffRepo: repo,
		Publisher: nopPublisher{},
		Metrics:   metrics,
		Logger:    logger,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 0)
	handler := handlers.NewStaffHandler(svc)
	app.Post("/api/staff", handler.Create)
	app.Put("/api/staff", handler.Update)
	app.Delete("/api/staff", handler.Delete)
	return app
}

func TestStaffCreateReturnsTxID(t *testing.T) {
	app := newStaffApp(t, &stubStaffRepo{txid: 12})

	body := `{"firstName":"Julia","lastName":"Hartmann","email":"j@x.dev"}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/staff", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var tx struct {
		TxID int64 `json:"txid"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tx))
	assert.EqualValues(t, 12, tx.TxID)
}

func TestStaffCreateMissingFields(t *testing.T) {
	app := newStaffApp(t, &stubStaffRepo{})

	req := httptest.NewRequest(fiber.MethodPost, "/api/staff", strings.NewReader(`{"firstName":"Julia"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "VALIDATION_FAILED", envelope.Error.Code)
	assert.Contains(t, envelope.Error.Details, "email")
}

func TestStaffUpdateMissingID(t *testing.T) {
	app := newStaffApp(t, &stubStaffRepo{})

	req := httptest.NewRequest(fiber.MethodPut, "/api/staff", strings.NewReader(`{"firstName":"Julia"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"ID is required"}`, string(payload))
}

func TestStaffDeleteMissingID(t *testing.T) {
	app := newStaffApp(t, &stubStaffRepo{})

	req := httptest.NewRequest(fiber.MethodDelete, "/api/staff", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"ID is required"}`, string(payload))
}

func TestStaffDeleteReturnsTxID(t *testing.T) {
	app := newStaffApp(t, &stubStaffRepo{txid: 77})

	req := httptest.NewRequest(fiber.MethodDelete, "/api/staff", strings.NewReader(`{"id":"s1"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var tx struct {
		TxID int64 `json:"txid"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tx))
	assert.EqualValues(t, 77, tx.TxID)
}
