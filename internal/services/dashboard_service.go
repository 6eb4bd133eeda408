package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"vahanpulse/internal/dataprocessing"
	"vahanpulse/internal/infrastructure"
	"vahanpulse/pkg/contracts/domain"
)

// topMakerCohortSize bounds the maker trend view to the best-selling makers
// of the trailing window.
const topMakerCohortSize = 15

// makerOptionLimit bounds the maker multi-select to the first alphabetical
// maker names.
const makerOptionLimit = 10

// emptyStateMessage is surfaced when the active filters eliminate every row.
// Not an error; downstream aggregation is skipped for the cycle.
const emptyStateMessage = "No data matches the current filters. Try expanding the date range or disabling the EV-only toggle."

// DashboardQuery captures one interaction cycle's filter state.
type DashboardQuery struct {
	EVOnly   bool                  `json:"ev_only"`
	FromYear int                   `json:"from_year" validate:"omitempty,gte=1900,lte=2100"`
	ToYear   int                   `json:"to_year" validate:"omitempty,gte=1900,lte=2100"`
	Groups   []domain.VehicleGroup `json:"groups" validate:"dive,oneof=2W 3W 4W Other"`
	Makers   []string              `json:"makers"`
}

// YearBounds is the inclusive year range spanned by the loaded datasets.
type YearBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FilterOptions enumerates the selectable filter values for presentation:
// vehicle-group options from the monthly dataset, maker options from the
// yearly dataset (first ten alphabetically), and the year bounds across both.
type FilterOptions struct {
	Groups       []domain.VehicleGroup `json:"groups"`
	MakerOptions []string              `json:"maker_options"`
	HasMaker     bool                  `json:"has_maker"`
	Years        YearBounds            `json:"years"`
}

// DashboardView is the full aggregated payload for one dashboard render.
type DashboardView struct {
	EVOnly   bool       `json:"ev_only"`
	HasMaker bool       `json:"has_maker"`
	Years    YearBounds `json:"years"`

	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`

	KPIs             []domain.GroupKPI       `json:"kpis,omitempty"`
	MonthlyTrends    []domain.GroupTotal     `json:"monthly_trends,omitempty"`
	YearlyAggregates []domain.GroupTotal     `json:"yearly_aggregates,omitempty"`
	TopMakerTrends   []domain.MakerTotal     `json:"top_maker_trends,omitempty"`
	MakerGrowth      []domain.MakerGrowthRow `json:"maker_growth,omitempty"`
}

// DashboardService orchestrates one interaction cycle: cached load of both
// sources, filtering, aggregation and view assembly. It holds no mutable
// state beyond the time-bounded load cache.
type DashboardService struct {
	loader *dataprocessing.Loader
	cache  *loadCache
	logger *slog.Logger
}

// NewDashboardService creates the dashboard service. metrics may be nil.
func NewDashboardService(loader *dataprocessing.Loader, cacheTTL time.Duration, metrics *infrastructure.Metrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		loader: loader,
		cache:  newLoadCache(cacheTTL, metrics),
		logger: logger.With(slog.String("component", "dashboard_service")),
	}
}

func (s *DashboardService) loadYearly(ctx context.Context, evOnly bool) (*domain.Dataset, error) {
	return s.cache.get(ctx, cacheKey{mode: dataprocessing.ModeYearly, evOnly: evOnly}, func(ctx context.Context) (*domain.Dataset, error) {
		return s.loader.LoadYearly(ctx, evOnly)
	})
}

func (s *DashboardService) loadMonthly(ctx context.Context, evOnly bool) (*domain.Dataset, error) {
	return s.cache.get(ctx, cacheKey{mode: dataprocessing.ModeMonthly, evOnly: evOnly}, func(ctx context.Context) (*domain.Dataset, error) {
		return s.loader.LoadMonthly(ctx, evOnly)
	})
}

// Dashboard runs a full recomputation pass for the given query and assembles
// the aggregated view. An empty filtered result is not an error: the view
// comes back with Empty set and an informational message.
func (s *DashboardService) Dashboard(ctx context.Context, q DashboardQuery) (*DashboardView, error) {
	if q.FromYear != 0 && q.ToYear != 0 && q.FromYear > q.ToYear {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidYearRange, q.FromYear, q.ToYear)
	}

	yearly, err := s.loadYearly(ctx, q.EVOnly)
	if err != nil {
		return nil, err
	}
	monthly, err := s.loadMonthly(ctx, q.EVOnly)
	if err != nil {
		return nil, err
	}

	view := &DashboardView{
		EVOnly:   q.EVOnly,
		HasMaker: yearly.HasMaker,
		Years:    yearBounds(yearly, monthly),
	}

	groupOptions := groupOptionsOf(monthly)

	yearlyRecords := dataprocessing.FilterYearRange(yearly.Records, q.FromYear, q.ToYear)
	monthlyRecords := dataprocessing.FilterYearRange(monthly.Records, q.FromYear, q.ToYear)

	yearlyRecords = dataprocessing.FilterGroups(yearlyRecords, q.Groups)
	monthlyRecords = dataprocessing.FilterGroups(monthlyRecords, q.Groups)
	if yearly.HasMaker {
		yearlyRecords = dataprocessing.FilterMakers(yearlyRecords, q.Makers)
	}

	if len(yearlyRecords) == 0 && len(monthlyRecords) == 0 {
		view.Empty = true
		view.Message = emptyStateMessage
		s.logger.InfoContext(ctx, "dashboard filters eliminated all rows",
			slog.Bool("ev_only", q.EVOnly),
			slog.Int("from_year", q.FromYear),
			slog.Int("to_year", q.ToYear))
		return view, nil
	}

	view.MonthlyTrends = dataprocessing.AggregateGroups(monthlyRecords, dataprocessing.GranularityMonthly)
	if yearly.HasMaker {
		view.YearlyAggregates = dataprocessing.AggregateGroupMakers(yearlyRecords, dataprocessing.GranularityYearly)
	} else {
		view.YearlyAggregates = dataprocessing.AggregateGroups(yearlyRecords, dataprocessing.GranularityYearly)
	}

	quarterly := dataprocessing.AggregateGroups(monthlyRecords, dataprocessing.GranularityQuarterly)
	toplineYearly := dataprocessing.AggregateGroups(yearlyRecords, dataprocessing.GranularityYearly)
	view.KPIs = buildKPIs(groupOptions, quarterly, toplineYearly)

	if yearly.HasMaker {
		makerTotals := dataprocessing.AggregateMakers(yearlyRecords, dataprocessing.GranularityYearly)
		view.TopMakerTrends = topMakerTrends(makerTotals)
		view.MakerGrowth = dataprocessing.MakerGrowthTable(makerTotals)
	}

	return view, nil
}

// FilterOptions returns the selectable filter values derived from fresh (or
// cached) loads of both sources.
func (s *DashboardService) FilterOptions(ctx context.Context, evOnly bool) (*FilterOptions, error) {
	yearly, err := s.loadYearly(ctx, evOnly)
	if err != nil {
		return nil, err
	}
	monthly, err := s.loadMonthly(ctx, evOnly)
	if err != nil {
		return nil, err
	}

	opts := &FilterOptions{
		Groups:   groupOptionsOf(monthly),
		HasMaker: yearly.HasMaker,
		Years:    yearBounds(yearly, monthly),
	}

	if yearly.HasMaker {
		seen := make(map[string]bool)
		for _, r := range yearly.Records {
			if r.Maker != "" && !seen[r.Maker] {
				seen[r.Maker] = true
				opts.MakerOptions = append(opts.MakerOptions, r.Maker)
			}
		}
		sort.Strings(opts.MakerOptions)
		if len(opts.MakerOptions) > makerOptionLimit {
			opts.MakerOptions = opts.MakerOptions[:makerOptionLimit]
		}
	}

	return opts, nil
}

// MonthlyTrends returns the monthly aggregates by vehicle group under the
// query's filters.
func (s *DashboardService) MonthlyTrends(ctx context.Context, q DashboardQuery) ([]domain.GroupTotal, error) {
	monthly, err := s.loadMonthly(ctx, q.EVOnly)
	if err != nil {
		return nil, err
	}

	records := dataprocessing.FilterYearRange(monthly.Records, q.FromYear, q.ToYear)
	records = dataprocessing.FilterGroups(records, q.Groups)
	return dataprocessing.AggregateGroups(records, dataprocessing.GranularityMonthly), nil
}

// MakerGrowth returns the year-over-year maker growth table under the
// query's filters. On a maker-less yearly source the table is empty and
// maker-level analysis is unavailable.
func (s *DashboardService) MakerGrowth(ctx context.Context, q DashboardQuery) ([]domain.MakerGrowthRow, error) {
	yearly, err := s.loadYearly(ctx, q.EVOnly)
	if err != nil {
		return nil, err
	}
	if !yearly.HasMaker {
		return nil, nil
	}

	records := dataprocessing.FilterYearRange(yearly.Records, q.FromYear, q.ToYear)
	records = dataprocessing.FilterGroups(records, q.Groups)
	records = dataprocessing.FilterMakers(records, q.Makers)

	makerTotals := dataprocessing.AggregateMakers(records, dataprocessing.GranularityYearly)
	return dataprocessing.MakerGrowthTable(makerTotals), nil
}

// groupOptionsOf derives the sorted distinct vehicle groups present in a
// dataset. The monthly dataset is the canonical source of group options
// since it covers every category column.
func groupOptionsOf(ds *domain.Dataset) []domain.VehicleGroup {
	seen := make(map[domain.VehicleGroup]bool)
	for _, r := range ds.Records {
		seen[dataprocessing.ClassifyCategory(r.Category)] = true
	}

	options := make([]domain.VehicleGroup, 0, len(seen))
	for g := range seen {
		options = append(options, g)
	}
	sort.Slice(options, func(i, j int) bool { return options[i] < options[j] })
	return options
}

func yearBounds(yearly, monthly *domain.Dataset) YearBounds {
	var bounds YearBounds
	if min, max, ok := yearly.Years(); ok {
		bounds = YearBounds{Min: min, Max: max}
	}
	if min, max, ok := monthly.Years(); ok {
		if bounds.Min == 0 || min < bounds.Min {
			bounds.Min = min
		}
		if max > bounds.Max {
			bounds.Max = max
		}
	}
	return bounds
}

func buildKPIs(groups []domain.VehicleGroup, quarterly, yearly []domain.GroupTotal) []domain.GroupKPI {
	kpis := make([]domain.GroupKPI, 0, len(groups))
	for _, g := range groups {
		qSeries := dataprocessing.GroupSeries(quarterly, g)
		ySeries := dataprocessing.GroupSeries(yearly, g)

		qGrowth, qOK := dataprocessing.GrowthRate(qSeries)
		yGrowth, yOK := dataprocessing.GrowthRate(ySeries)

		kpi := domain.GroupKPI{
			Group:     g,
			QoQGrowth: dataprocessing.GrowthPointer(qGrowth, qOK),
			QoQDelta:  dataprocessing.FormatGrowth(qGrowth, qOK),
			YoYGrowth: dataprocessing.GrowthPointer(yGrowth, yOK),
			YoYDelta:  dataprocessing.FormatGrowth(yGrowth, yOK),
		}
		if len(qSeries) > 0 {
			kpi.QuarterlyLatest = qSeries[len(qSeries)-1].Registrations
		}
		if len(ySeries) > 0 {
			kpi.YearlyLatest = ySeries[len(ySeries)-1].Registrations
		}
		kpi.QuarterlyLatestLabel = formatCount(kpi.QuarterlyLatest)
		kpi.YearlyLatestLabel = formatCount(kpi.YearlyLatest)

		kpis = append(kpis, kpi)
	}
	return kpis
}

func topMakerTrends(totals []domain.MakerTotal) []domain.MakerTotal {
	top := dataprocessing.TopMakers(totals, topMakerCohortSize)
	if len(top) == 0 {
		return totals
	}

	selected := make(map[string]bool, len(top))
	for _, m := range top {
		selected[m] = true
	}

	out := make([]domain.MakerTotal, 0, len(totals))
	for _, t := range totals {
		if selected[t.Maker] {
			out = append(out, t)
		}
	}
	return out
}

// formatCount renders a registration total as a whole number with comma
// thousands grouping, e.g. "1,234,567".
func formatCount(v float64) string {
	s := strconv.FormatInt(int64(v), 10)

	negative := false
	if len(s) > 0 && s[0] == '-' {
		negative = true
		s = s[1:]
	}

	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if negative {
		s = "-" + s
	}
	return s
}
