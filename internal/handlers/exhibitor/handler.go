package exhibitor

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"fair/infras/otel"
	"fair/internal/domains/exhibitor/model/dto"
	"fair/internal/domains/exhibitor/service"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	"fair/shared/validator"
	"fair/transport/http/response"
)

type Handler struct {
	service service.Exhibitor
	otel    otel.Otel
}

func New(service service.Exhibitor, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/exhibitors", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateExhibitor)
		routerGroup.Get("/", handler.GetExhibitors)
		routerGroup.Get("/me", handler.GetMyExhibitor)
		routerGroup.Get("/{id}", handler.GetExhibitorByID)
		routerGroup.Patch("/{id}", handler.UpdateExhibitor)
		routerGroup.Delete("/{id}", handler.DeleteExhibitor)
	})
}

// CreateExhibitor registers an exhibiting company.
// @Summary Create an exhibitor
// @Tags Exhibitor
// @Accept json
// @Produce json
// @Param request body dto.CreateExhibitorRequest true "Exhibitor details, logo as a base64 data uri"
// @Success 201 {object} response.Data[dto.ExhibitorResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitors [post]
// @Security BearerAuth
func (handler *Handler) CreateExhibitor(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateExhibitor")
	defer scope.End()

	var req dto.CreateExhibitorRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	exhibitor, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create exhibitor")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, exhibitor)
}

// GetExhibitors lists exhibitors.
// @Summary Get all exhibitors
// @Tags Exhibitor
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param company_name query string false "Filter by company name"
// @Param verified query boolean false "Filter by verification"
// @Param active query boolean false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetExhibitorsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/exhibitors [get]
// @Security BearerAuth
func (handler *Handler) GetExhibitors(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetExhibitors")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.ExhibitorFilter{}
	filter.FromRequest(r)

	exhibitors, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get exhibitors")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, exhibitors)
}

// GetMyExhibitor returns the profile linked to the caller.
// @Summary Get the caller's exhibitor profile
// @Tags Exhibitor
// @Produce json
// @Success 200 {object} response.Data[dto.ExhibitorResponse]
// @Failure 404 {object} response.Error
// @Router /v1/exhibitors/me [get]
// @Security BearerAuth
func (handler *Handler) GetMyExhibitor(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyExhibitor")
	defer scope.End()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exhibitor, err := handler.service.GetByUser(ctx, user)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, exhibitor)
}

// GetExhibitorByID returns one exhibitor.
// @Summary Get an exhibitor by ID
// @Tags Exhibitor
// @Produce json
// @Param id path string true "Exhibitor ID"
// @Success 200 {object} response.Data[dto.ExhibitorResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitors/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetExhibitorByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetExhibitorByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	exhibitor, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get exhibitor by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, exhibitor)
}

// UpdateExhibitor edits an exhibitor, including verification and logo.
// @Summary Update an exhibitor by ID
// @Tags Exhibitor
// @Accept json
// @Produce json
// @Param id path string true "Exhibitor ID"
// @Param request body dto.UpdateExhibitorRequest true "Fields to change"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitors/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateExhibitor(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateExhibitor")
	defer scope.End()

	var req dto.UpdateExhibitorRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update exhibitor")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Exhibitor updated successfully")
}

// DeleteExhibitor removes an exhibitor and its logo.
// @Summary Delete an exhibitor by ID
// @Tags Exhibitor
// @Produce json
// @Param id path string true "Exhibitor ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitors/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteExhibitor(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteExhibitor")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete exhibitor")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Exhibitor deleted successfully")
}
