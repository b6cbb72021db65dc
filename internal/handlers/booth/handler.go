package booth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"fair/infras/otel"
	"fair/internal/domains/booth/model/dto"
	"fair/internal/domains/booth/service"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	"fair/shared/validator"
	"fair/transport/http/response"
)

type Handler struct {
	service service.Booth
	otel    otel.Otel
}

func New(service service.Booth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/booths", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooth)
		routerGroup.Get("/", handler.GetBooths)
		routerGroup.Get("/{id}", handler.GetBoothByID)
		routerGroup.Patch("/{id}", handler.UpdateBooth)
		routerGroup.Delete("/{id}", handler.DeleteBooth)
	})
}

// CreateBooth adds a booth to the floor plan.
// @Summary Create a booth
// @Description Create an available booth.
// @Tags Booth
// @Accept json
// @Produce json
// @Param request body dto.CreateBoothRequest true "Booth details"
// @Success 201 {object} response.Data[dto.BoothResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/booths [post]
// @Security BearerAuth
func (handler *Handler) CreateBooth(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooth")
	defer scope.End()

	var req dto.CreateBoothRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	booth, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booth")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booth created")

	response.WithJSON(w, http.StatusCreated, booth)
}

// GetBooths lists booths.
// @Summary Get all booths
// @Description Retrieve booths with optional filtering and pagination.
// @Tags Booth
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status" Enums(available, reserved, booked)
// @Param sector query string false "Filter by sector"
// @Param category query string false "Filter by category"
// @Param name query string false "Filter by booth number"
// @Success 200 {object} response.Data[dto.GetBoothsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/booths [get]
// @Security BearerAuth
func (handler *Handler) GetBooths(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBooths")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.BoothFilter{}
	filter.FromRequest(r)

	if err := validator.ValidateStruct(&filter); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	booths, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booths")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booths)
}

// GetBoothByID returns one booth.
// @Summary Get a booth by ID
// @Tags Booth
// @Produce json
// @Param id path string true "Booth ID"
// @Success 200 {object} response.Data[dto.BoothResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/booths/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBoothByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBoothByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	booth, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booth by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booth)
}

// UpdateBooth edits booth attributes. Status is not editable here.
// @Summary Update a booth by ID
// @Tags Booth
// @Accept json
// @Produce json
// @Param id path string true "Booth ID"
// @Param request body dto.UpdateBoothRequest true "Fields to change"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/booths/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBooth(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooth")
	defer scope.End()

	var req dto.UpdateBoothRequest

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
		log.Error().Err(err).Msg("failed to update booth")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booth updated by user " + user)

	response.WithMessage(w, http.StatusOK, "Booth updated successfully")
}

// DeleteBooth removes an available booth.
// @Summary Delete a booth by ID
// @Tags Booth
// @Produce json
// @Param id path string true "Booth ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Booth is reserved, booked or referenced"
// @Failure 500 {object} response.Error
// @Router /v1/booths/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooth(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooth")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete booth")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booth deleted by user " + user)

	response.WithMessage(w, http.StatusOK, "Booth deleted successfully")
}
