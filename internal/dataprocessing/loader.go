package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"vahanpulse/internal/config"
	"vahanpulse/internal/infrastructure"
	"vahanpulse/pkg/contracts/domain"
)

// LoadMode selects which registration source table a load reads.
type LoadMode string

const (
	// ModeYearly reads the row-oriented yearly source with maker detail.
	ModeYearly LoadMode = "yearly"
	// ModeMonthly reads the wide monthly source with one column per category.
	ModeMonthly LoadMode = "monthly"
)

// requiredColumns is the minimal canonical set the yearly source must carry.
var requiredColumns = []string{"date", "category", "registrations"}

// SchemaError reports a yearly source whose canonicalized headers are missing
// required columns. It names both the original and canonical headers so the
// operator can see how the mapping went wrong. A schema error is fatal to the
// load; no partial dataset is returned.
type SchemaError struct {
	Missing          []string
	OriginalHeaders  []string
	CanonicalHeaders []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source is missing required columns %v: found %v -> canonical %v",
		e.Missing, e.OriginalHeaders, e.CanonicalHeaders)
}

// Loader reads the yearly and monthly registration sources from disk and
// produces canonical Datasets. Yearly sources may be CSV or XLSX; monthly
// sources are CSV. All reads are local and deterministic.
type Loader struct {
	sources config.SourcesConfig
	logger  *slog.Logger
	metrics *infrastructure.Metrics
}

// NewLoader creates a loader over the configured source tables.
// metrics may be nil, in which case load instrumentation is skipped.
func NewLoader(sources config.SourcesConfig, logger *slog.Logger, metrics *infrastructure.Metrics) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		sources: sources,
		logger:  logger.With(slog.String("component", "loader")),
		metrics: metrics,
	}
}

// LoadYearly reads the yearly source, canonicalizes its headers and coerces
// row values into Records. Rows with an unparseable date or empty category
// are dropped; non-numeric registration counts become zero. When evOnly is
// set, only rows whose category signals an electric vehicle are retained.
func (l *Loader) LoadYearly(ctx context.Context, evOnly bool) (*domain.Dataset, error) {
	start := time.Now()

	rows, err := l.readTable(l.sources.YearlyPath())
	if err != nil {
		return nil, fmt.Errorf("read yearly source: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("yearly source %s has no header row", l.sources.YearlyPath())
	}

	original := rows[0]
	canonical := CanonicalizeHeaders(original)

	// Duplicate canonical columns collapse to their first occurrence;
	// data in any later duplicate is discarded.
	columns := make(map[string]int, len(canonical))
	for i, name := range canonical {
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		if l.metrics != nil {
			l.metrics.SchemaErrors.Inc()
		}
		return nil, &SchemaError{
			Missing:          missing,
			OriginalHeaders:  original,
			CanonicalHeaders: canonical,
		}
	}

	_, hasMaker := columns["maker"]
	dateIdx := columns["date"]
	categoryIdx := columns["category"]
	registrationsIdx := columns["registrations"]

	var dropped int
	records := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		year, err := strconv.Atoi(strings.TrimSpace(cell(row, dateIdx)))
		if err != nil {
			dropped++
			l.countDropped(ModeYearly, "date")
			continue
		}

		category := strings.TrimSpace(cell(row, categoryIdx))
		if category == "" {
			dropped++
			l.countDropped(ModeYearly, "category")
			continue
		}

		rec := domain.Record{
			// Year-only dates resolve to the start of the year.
			Date:          time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			Category:      category,
			Registrations: coerceNumeric(cell(row, registrationsIdx)),
		}
		if idx, ok := columns["state"]; ok {
			rec.State = strings.TrimSpace(cell(row, idx))
		}
		if idx, ok := columns["rto"]; ok {
			rec.RTO = strings.TrimSpace(cell(row, idx))
		}
		if hasMaker {
			rec.Maker = strings.TrimSpace(cell(row, columns["maker"]))
		}

		if evOnly && !isElectric(rec.Category) {
			continue
		}

		records = append(records, rec)
	}

	l.observeLoad(ctx, ModeYearly, len(records), dropped, start)
	return &domain.Dataset{Records: records, HasMaker: hasMaker}, nil
}

// LoadMonthly reads the wide monthly source and reshapes it to long form:
// each (row, category column) pair becomes one Record dated at the first day
// of the row's month. The monthly source carries no maker detail, so the
// returned dataset always reports HasMaker false. The EV-only toggle does not
// apply here; monthly category columns are group totals, not free-text
// categories, and the upstream dataset never marks them as electric.
func (l *Loader) LoadMonthly(ctx context.Context, _ bool) (*domain.Dataset, error) {
	start := time.Now()

	rows, err := l.readTable(l.sources.MonthlyPath())
	if err != nil {
		return nil, fmt.Errorf("read monthly source: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("monthly source %s has no header row", l.sources.MonthlyPath())
	}

	headers := rows[0]
	yearIdx, monthIdx := -1, -1
	for i, h := range headers {
		switch strings.TrimSpace(h) {
		case "Year":
			yearIdx = i
		case "Month":
			monthIdx = i
		}
	}
	if yearIdx < 0 || monthIdx < 0 {
		var missing []string
		if yearIdx < 0 {
			missing = append(missing, "Year")
		}
		if monthIdx < 0 {
			missing = append(missing, "Month")
		}
		if l.metrics != nil {
			l.metrics.SchemaErrors.Inc()
		}
		return nil, &SchemaError{
			Missing:          missing,
			OriginalHeaders:  headers,
			CanonicalHeaders: headers,
		}
	}

	var dropped int
	var records []domain.Record
	for _, row := range rows[1:] {
		date, ok := monthStart(cell(row, yearIdx), cell(row, monthIdx))
		if !ok {
			dropped++
			l.countDropped(ModeMonthly, "date")
			continue
		}

		// Wide-to-long reshape: one record per category column.
		for i, header := range headers {
			if i == yearIdx || i == monthIdx {
				continue
			}
			category := strings.TrimSpace(header)
			if category == "" {
				continue
			}
			records = append(records, domain.Record{
				Date:          date,
				Category:      category,
				Registrations: coerceNumeric(cell(row, i)),
			})
		}
	}

	l.observeLoad(ctx, ModeMonthly, len(records), dropped, start)
	return &domain.Dataset{Records: records, HasMaker: false}, nil
}

// readTable reads a tabular source into rows of cells. XLSX sources read
// their first sheet via excelize; everything else is parsed as CSV with a
// UTF-8 BOM stripped when present.
func (l *Loader) readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
		}
		return rows, nil
	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file content: %w", err)
		}

		// Remove BOM if present
		if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
			content = content[3:]
		}

		reader := csv.NewReader(strings.NewReader(string(content)))
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		return rows, nil
	}
}

func (l *Loader) observeLoad(ctx context.Context, mode LoadMode, loaded, dropped int, start time.Time) {
	l.logger.InfoContext(ctx, "source loaded",
		slog.String("mode", string(mode)),
		slog.Int("records", loaded),
		slog.Int("rows_dropped", dropped),
		slog.Duration("duration", time.Since(start)))

	if l.metrics != nil {
		l.metrics.LoadDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
		l.metrics.RecordsLoaded.WithLabelValues(string(mode)).Add(float64(loaded))
	}
}

func (l *Loader) countDropped(mode LoadMode, reason string) {
	if l.metrics != nil {
		l.metrics.RowsDropped.WithLabelValues(string(mode), reason).Inc()
	}
}

// cell returns the trimmed-at-index cell value, tolerating ragged rows.
func cell(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}

// coerceNumeric converts a registration cell to a number, treating anything
// non-numeric as zero rather than dropping the row.
func coerceNumeric(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// isElectric reports whether a category string signals an electric vehicle.
func isElectric(category string) bool {
	upper := strings.ToUpper(category)
	return strings.Contains(upper, "ELECTRIC") || strings.Contains(upper, "EV")
}

// monthAbbreviations maps lowercase three-letter month abbreviations to
// calendar months.
var monthAbbreviations = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// monthStart combines a year cell and a three-letter month abbreviation into
// the first day of that month.
func monthStart(yearCell, monthCell string) (time.Time, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(yearCell))
	if err != nil {
		return time.Time{}, false
	}
	month, ok := monthAbbreviations[strings.ToLower(strings.TrimSpace(monthCell))]
	if !ok {
		return time.Time{}, false
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}
