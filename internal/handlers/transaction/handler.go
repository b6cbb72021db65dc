package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"fair/infras/otel"
	"fair/internal/domains/transaction/model/dto"
	"fair/internal/domains/transaction/service"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	"fair/shared/validator"
	"fair/transport/http/response"
)

type Handler struct {
	service service.Transaction
	otel    otel.Otel
}

func New(service service.Transaction, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/transactions", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetTransactions)
		routerGroup.Get("/{id}", handler.GetTransactionByID)
	})
}

// GetTransactions lists reservations. Exhibitors only see their own.
// @Summary Get all transactions
// @Tags Transaction
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param user_id query string false "Filter by owner, staff only"
// @Param payment_status query string false "Filter by payment status"
// @Param validity_status query string false "Filter by validity status" Enums(active, expired, paid)
// @Param booth_trans_status query string false "Filter by booth transaction status" Enums(active, expired, cancelled)
// @Success 200 {object} response.Data[dto.GetTransactionsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/transactions [get]
// @Security BearerAuth
func (handler *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTransactions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.TransactionFilter{}
	filter.FromRequest(r)

	if err := validator.ValidateStruct(&filter); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	trxs, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get transactions")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, trxs)
}

// GetTransactionByID returns one reservation with its booths.
// @Summary Get a transaction by ID
// @Tags Transaction
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Data[dto.TransactionResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/transactions/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTransactionByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTransactionByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	trx, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, trx)
}
