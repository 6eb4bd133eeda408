package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vahanpulse/internal/dataprocessing"
	apierrors "vahanpulse/internal/errors"
	"vahanpulse/internal/services"
	"vahanpulse/pkg/contracts/domain"
)

// stubDashboardService lets tests control service behavior per call.
type stubDashboardService struct {
	dashboardFn     func(ctx context.Context, q services.DashboardQuery) (*services.DashboardView, error)
	filterOptionsFn func(ctx context.Context, evOnly bool) (*services.FilterOptions, error)
	monthlyTrendsFn func(ctx context.Context, q services.DashboardQuery) ([]domain.GroupTotal, error)
	makerGrowthFn   func(ctx context.Context, q services.DashboardQuery) ([]domain.MakerGrowthRow, error)
}

func (s *stubDashboardService) Dashboard(ctx context.Context, q services.DashboardQuery) (*services.DashboardView, error) {
	return s.dashboardFn(ctx, q)
}

func (s *stubDashboardService) FilterOptions(ctx context.Context, evOnly bool) (*services.FilterOptions, error) {
	return s.filterOptionsFn(ctx, evOnly)
}

func (s *stubDashboardService) MonthlyTrends(ctx context.Context, q services.DashboardQuery) ([]domain.GroupTotal, error) {
	return s.monthlyTrendsFn(ctx, q)
}

func (s *stubDashboardService) MakerGrowth(ctx context.Context, q services.DashboardQuery) ([]domain.MakerGrowthRow, error) {
	return s.makerGrowthFn(ctx, q)
}

func newTestHandler(svc DashboardServiceInterface) *DashboardHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewDashboardHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
}

func doRequest(h *DashboardHandler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGetDashboard_PassesParsedQuery(t *testing.T) {
	var got services.DashboardQuery
	svc := &stubDashboardService{
		dashboardFn: func(ctx context.Context, q services.DashboardQuery) (*services.DashboardView, error) {
			got = q
			return &services.DashboardView{HasMaker: true}, nil
		},
	}

	w := doRequest(newTestHandler(svc), "/dashboard?ev_only=true&from_year=2020&to_year=2023&groups=2W,4W&makers=Hero,Tata")
	require.Equal(t, http.StatusOK, w.Code)

	assert.True(t, got.EVOnly)
	assert.Equal(t, 2020, got.FromYear)
	assert.Equal(t, 2023, got.ToYear)
	assert.Equal(t, []domain.VehicleGroup{domain.GroupTwoWheeler, domain.GroupFourWheeler}, got.Groups)
	assert.Equal(t, []string{"Hero", "Tata"}, got.Makers)
}

func TestGetDashboard_InvalidYearParam(t *testing.T) {
	svc := &stubDashboardService{
		dashboardFn: func(ctx context.Context, q services.DashboardQuery) (*services.DashboardView, error) {
			t.Fatal("service must not be called on invalid input")
			return nil, nil
		},
	}

	w := doRequest(newTestHandler(svc), "/dashboard?from_year=not-a-year")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
}

func TestGetDashboard_YearOutOfBounds(t *testing.T) {
	svc := &stubDashboardService{
		dashboardFn: func(ctx context.Context, q services.DashboardQuery) (*services.DashboardView, error) {
			t.Fatal("service must not be called on invalid input")
			return nil, nil
		},
	}

	w := doRequest(newTestHandler(svc), "/dashboard?from_year=1600")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDashboard_InvalidGroup(t *testing.T) {
	svc := &stubDashboardService{
		dashboardFn: func(ctx context.Context, q services.DashboardQuery) (*services.DashboardView, error) {
			t.Fatal("service must not be called on invalid input")
			return nil, nil
		},
	}

	w := doRequest(newTestHandler(svc), "/dashboard?groups=5W")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDashboard_InvalidYearRangeFromService(t *testing.T) {
	svc := &stubDashboardService{
		dashboardFn: func(ctx context.Context, q services.DashboardQuery) (*services.DashboardView, error) {
			return nil, services.ErrInvalidYearRange
		},
	}

	w := doRequest(newTestHandler(svc), "/dashboard?from_year=2024&to_year=2020")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_YEAR_RANGE", body["error_code"])
}

func TestGetDashboard_SchemaError(t *testing.T) {
	svc := &stubDashboardService{
		dashboardFn: func(ctx context.Context, q services.DashboardQuery) (*services.DashboardView, error) {
			return nil, &dataprocessing.SchemaError{
				Missing:          []string{"registrations"},
				OriginalHeaders:  []string{"Year", "Type"},
				CanonicalHeaders: []string{"date", "maker"},
			}
		},
	}

	w := doRequest(newTestHandler(svc), "/dashboard")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "SCHEMA_ERROR", body["error_code"])

	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, details["missing_columns"], "registrations")
}

func TestGetFilters(t *testing.T) {
	svc := &stubDashboardService{
		filterOptionsFn: func(ctx context.Context, evOnly bool) (*services.FilterOptions, error) {
			assert.True(t, evOnly)
			return &services.FilterOptions{
				Groups:       []domain.VehicleGroup{domain.GroupTwoWheeler},
				MakerOptions: []string{"Bajaj", "Hero"},
				HasMaker:     true,
				Years:        services.YearBounds{Min: 2020, Max: 2023},
			}, nil
		},
	}

	w := doRequest(newTestHandler(svc), "/filters?ev_only=true")
	require.Equal(t, http.StatusOK, w.Code)

	var body services.FilterOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"Bajaj", "Hero"}, body.MakerOptions)
	assert.Equal(t, 2020, body.Years.Min)
}

func TestGetMonthlyTrends(t *testing.T) {
	svc := &stubDashboardService{
		monthlyTrendsFn: func(ctx context.Context, q services.DashboardQuery) ([]domain.GroupTotal, error) {
			return []domain.GroupTotal{
				{Group: domain.GroupTwoWheeler, Registrations: 100},
				{Group: domain.GroupFourWheeler, Registrations: 50},
			}, nil
		},
	}

	w := doRequest(newTestHandler(svc), "/trends/monthly")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["count"])
}

func TestGetMakerGrowth_NoMakerColumn(t *testing.T) {
	svc := &stubDashboardService{
		makerGrowthFn: func(ctx context.Context, q services.DashboardQuery) ([]domain.MakerGrowthRow, error) {
			return nil, nil
		},
	}

	w := doRequest(newTestHandler(svc), "/makers/growth")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NO_MAKER_DATA", body["error_code"])
}

func TestGetMakerGrowth_EmptyTableIsNotAnError(t *testing.T) {
	svc := &stubDashboardService{
		makerGrowthFn: func(ctx context.Context, q services.DashboardQuery) ([]domain.MakerGrowthRow, error) {
			return []domain.MakerGrowthRow{}, nil
		},
	}

	w := doRequest(newTestHandler(svc), "/makers/growth")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseBoolAndSplitParam(t *testing.T) {
	assert.False(t, parseBool(""))
	assert.False(t, parseBool("nope"))
	assert.True(t, parseBool("true"))
	assert.True(t, parseBool("1"))

	assert.Nil(t, splitParam(""))
	assert.Equal(t, []string{"Hero", "Tata"}, splitParam(" Hero , Tata ,"))
}
