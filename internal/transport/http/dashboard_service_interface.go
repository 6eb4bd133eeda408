package http

import (
	"context"

	"vahanpulse/internal/services"
	"vahanpulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines the interface for dashboard operations
type DashboardServiceInterface interface {
	Dashboard(ctx context.Context, q services.DashboardQuery) (*services.DashboardView, error)
	FilterOptions(ctx context.Context, evOnly bool) (*services.FilterOptions, error)
	MonthlyTrends(ctx context.Context, q services.DashboardQuery) ([]domain.GroupTotal, error)
	MakerGrowth(ctx context.Context, q services.DashboardQuery) ([]domain.MakerGrowthRow, error)
}
