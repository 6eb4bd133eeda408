package http

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"vahanpulse/internal/dataprocessing"
	apierrors "vahanpulse/internal/errors"
	"vahanpulse/internal/services"
	"vahanpulse/pkg/contracts/domain"
)

// DashboardHandler handles dashboard HTTP requests with RFC 7807 compliance
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/dashboard", h.GetDashboard)
	r.Get("/filters", h.GetFilters)
	r.Get("/trends/monthly", h.GetMonthlyTrends)
	r.Get("/makers/growth", h.GetMakerGrowth)

	return r
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Dashboard(r.Context(), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, view)
}

// GetFilters handles GET /api/filters
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	evOnly := parseBool(r.URL.Query().Get("ev_only"))

	options, err := h.service.FilterOptions(r.Context(), evOnly)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, options)
}

// GetMonthlyTrends handles GET /api/trends/monthly
func (h *DashboardHandler) GetMonthlyTrends(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	trends, err := h.service.MonthlyTrends(r.Context(), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"trends": trends,
		"count":  len(trends),
	})
}

// GetMakerGrowth handles GET /api/makers/growth
func (h *DashboardHandler) GetMakerGrowth(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.MakerGrowth(r.Context(), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}
	if rows == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoMakerData)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"makers": rows,
		"count":  len(rows),
	})
}

// parseQuery binds and validates the shared filter query parameters.
func (h *DashboardHandler) parseQuery(values url.Values) (services.DashboardQuery, error) {
	q := services.DashboardQuery{
		EVOnly: parseBool(values.Get("ev_only")),
		Makers: splitParam(values.Get("makers")),
	}

	var fieldErrors []apierrors.ValidationError

	if raw := values.Get("from_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			fieldErrors = append(fieldErrors, apierrors.ValidationError{Field: "from_year", Message: "must be an integer year"})
		} else {
			q.FromYear = year
		}
	}
	if raw := values.Get("to_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			fieldErrors = append(fieldErrors, apierrors.ValidationError{Field: "to_year", Message: "must be an integer year"})
		} else {
			q.ToYear = year
		}
	}

	for _, g := range splitParam(values.Get("groups")) {
		q.Groups = append(q.Groups, domain.VehicleGroup(g))
	}

	if len(fieldErrors) > 0 {
		return q, apierrors.NewValidationError(fieldErrors)
	}

	if err := h.validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fieldErrors = append(fieldErrors, apierrors.ValidationError{
					Field:   strings.ToLower(fe.Field()),
					Message: "failed validation rule: " + fe.Tag(),
				})
			}
			return q, apierrors.NewValidationError(fieldErrors)
		}
		return q, apierrors.ErrInvalidRequest
	}

	return q, nil
}

// mapServiceError translates service and loader failures to API errors.
func (h *DashboardHandler) mapServiceError(err error) error {
	var schemaErr *dataprocessing.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		return apierrors.NewSchemaError(schemaErr.Missing, schemaErr.OriginalHeaders, schemaErr.CanonicalHeaders)
	case errors.Is(err, services.ErrInvalidYearRange):
		return apierrors.ErrInvalidYearRange
	case errors.Is(err, services.ErrNoData), errors.Is(err, fs.ErrNotExist):
		return apierrors.ErrDatasetNotFound
	default:
		return err
	}
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

// splitParam splits a comma-separated query parameter, dropping empty parts.
func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
