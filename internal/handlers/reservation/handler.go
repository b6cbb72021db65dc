package reservation

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"fair/infras/otel"
	"fair/internal/domains/reservation/model/dto"
	"fair/internal/domains/reservation/service"
	trxDto "fair/internal/domains/transaction/model/dto"
	"fair/shared/constant"
	"fair/shared/failure"
	"fair/shared/validator"
	"fair/transport/http/response"
)

const queryParamLimit = "limit"

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Reserve)
		routerGroup.Post("/sweep", handler.Sweep)
		routerGroup.Post("/{id}/cancel", handler.Cancel)
		routerGroup.Post("/{id}/paid", handler.MarkPaid)
		routerGroup.Post("/{id}/refund", handler.MarkRefunded)
		routerGroup.Post("/{id}/expire", handler.Expire)
	})

	router.Post("/payments/callback", handler.PaymentCallback)
}

// Reserve holds a set of booths for the caller.
// @Summary Reserve booths
// @Description Hold every listed booth under one pending transaction. Fails with 409 when any booth is already held.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.ReserveRequest true "Booths to reserve"
// @Success 201 {object} response.Data[trxDto.TransactionResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Reserve")
	defer scope.End()

	var req dto.ReserveRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	trx, err := handler.service.Reserve(ctx, req)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booths reserved")

	response.WithJSON(w, http.StatusCreated, trx)
}

// Cancel withdraws an unpaid reservation.
// @Summary Cancel a reservation
// @Tags Reservation
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Data[trxDto.TransactionResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "Cancel", handler.service.Cancel)
}

// MarkPaid confirms payment and books the booths. Repeating it is harmless.
// @Summary Mark a reservation as paid
// @Tags Reservation
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Data[trxDto.TransactionResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/paid [post]
// @Security BearerAuth
func (handler *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "MarkPaid", handler.service.MarkPaid)
}

// MarkRefunded records a refund of a paid reservation.
// @Summary Mark a reservation as refunded
// @Tags Reservation
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Data[trxDto.TransactionResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/refund [post]
// @Security BearerAuth
func (handler *Handler) MarkRefunded(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "MarkRefunded", handler.service.MarkRefunded)
}

// Expire releases an overdue unpaid reservation.
// @Summary Expire a reservation
// @Tags Reservation
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Data[trxDto.TransactionResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/expire [post]
// @Security BearerAuth
func (handler *Handler) Expire(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "Expire", handler.service.Expire)
}

// Sweep expires every overdue reservation. Meant for an external scheduler.
// @Summary Expire overdue reservations
// @Tags Reservation
// @Produce json
// @Param limit query int false "Maximum reservations to expire"
// @Success 200 {object} response.Data[dto.SweepResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/sweep [post]
// @Security ApiKeyAuth
func (handler *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Sweep")
	defer scope.End()

	limit := 0

	if raw := r.URL.Query().Get(queryParamLimit); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.WithError(w, failure.InvalidLimitParam)

			return
		}

		limit = parsed
	}

	res, err := handler.service.Sweep(ctx, limit)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to sweep reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// PaymentCallback applies a status report from the payment gateway.
// @Summary Payment gateway callback
// @Description Maps paid/success, processing/queued, refunded/reversed and abandoned/failed onto the reservation.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.PaymentCallback true "Gateway report"
// @Success 200 {object} response.Data[trxDto.TransactionResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/callback [post]
// @Security ApiKeyAuth
func (handler *Handler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PaymentCallback")
	defer scope.End()

	var req dto.PaymentCallback

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	trx, err := handler.service.HandlePaymentCallback(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("transaction_id", req.TransactionID).Str("status", req.Status).Msg("payment callback rejected")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, trx)
}

func (handler *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	apply func(ctx context.Context, id string) (trxDto.TransactionResponse, error),
) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	trx, err := apply(ctx, id)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, trx)
}
