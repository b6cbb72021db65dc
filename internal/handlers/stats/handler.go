package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fair/infras/otel"
	boothDto "fair/internal/domains/booth/model/dto"
	"fair/internal/domains/stats/service"
	"fair/shared/constant"
	"fair/shared/validator"
	"fair/transport/http/response"
)

type Handler struct {
	service service.Stats
	otel    otel.Otel
}

func New(service service.Stats, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/stats", func(routerGroup chi.Router) {
		routerGroup.Get("/booths", handler.GetBoothStats)
		routerGroup.Get("/exhibitors", handler.GetExhibitorStats)
		routerGroup.Get("/transactions", handler.GetTransactionStats)
	})
}

// GetBoothStats counts booths by status and sector.
// @Summary Booth statistics
// @Tags Stats
// @Produce json
// @Param status query string false "Filter by status" Enums(available, reserved, booked)
// @Param sector query string false "Filter by sector"
// @Param category query string false "Filter by category"
// @Success 200 {object} response.Data[model.BoothStats]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/stats/booths [get]
// @Security BearerAuth
func (handler *Handler) GetBoothStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBoothStats")
	defer scope.End()

	filter := boothDto.BoothFilter{}
	filter.FromRequest(r)

	if err := validator.ValidateStruct(&filter); err != nil {
		response.WithError(w, err)

		return
	}

	stats, err := handler.service.Booths(ctx, filter)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, stats)
}

// GetExhibitorStats counts exhibitors by verification and activity.
// @Summary Exhibitor statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Data[model.ExhibitorStats]
// @Failure 500 {object} response.Error
// @Router /v1/stats/exhibitors [get]
// @Security BearerAuth
func (handler *Handler) GetExhibitorStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetExhibitorStats")
	defer scope.End()

	stats, err := handler.service.Exhibitors(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, stats)
}

// GetTransactionStats counts transactions by status and month.
// @Summary Transaction statistics
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Data[model.TransactionStats]
// @Failure 500 {object} response.Error
// @Router /v1/stats/transactions [get]
// @Security BearerAuth
func (handler *Handler) GetTransactionStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTransactionStats")
	defer scope.End()

	stats, err := handler.service.Transactions(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, stats)
}
