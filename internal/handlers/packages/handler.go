package packages

import (
	"net/http"
	"shutter/infras/otel"
	"shutter/internal/domains/packages/model"
	"shutter/internal/domains/packages/model/dto"
	"shutter/internal/domains/packages/service"
	"shutter/shared"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	"shutter/shared/failure"
	"shutter/shared/validator"
	"shutter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const formFileCover = "cover"

type Handler struct {
	service service.Package
	otel    otel.Otel
}

func New(service service.Package, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/packages", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePackage)
		routerGroup.Get("/", handler.GetPackages)
		routerGroup.Get("/{id}", handler.GetPackageByID)
		routerGroup.Patch("/{id}", handler.UpdatePackage)
		routerGroup.Delete("/{id}", handler.DeletePackage)
	})
}

// CreatePackage handles the creation of a new package.
// @Summary Create a new package
// @Description Create a photography package with an optional cover image.
// @Tags Package
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Package name"
// @Param description formData string false "Package description"
// @Param price formData number true "Package price"
// @Param duration_minutes formData integer true "Shoot duration in minutes"
// @Param photo_count formData integer false "Number of edited photos delivered"
// @Param active formData boolean false "Package active status"
// @Param cover formData file false "Cover image"
// @Success 201 {object} response.Message "Package created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages [post]
// @Security BearerAuth
func (handler *Handler) CreatePackage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePackage")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	req := dto.CreatePackageRequest{
		Name:   request.FormValue(model.FieldName),
		Active: shared.ConvertStringToBool(request.FormValue(model.FieldActive)),
	}

	if description := request.FormValue(model.FieldDescription); description != constant.Empty {
		req.Description = &description
	}

	price, err := shared.ConvertStringToFloat(request.FormValue(model.FieldPrice))
	if err != nil {
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	duration, err := shared.ConvertStringToInt(request.FormValue(model.FieldDurationMinutes))
	if err != nil {
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	photoCount, err := shared.ConvertStringToInt(request.FormValue(model.FieldPhotoCount))
	if err != nil {
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	if price != nil {
		req.Price = *price
	}

	if duration != nil {
		req.DurationMinutes = *duration
	}

	if photoCount != nil {
		req.PhotoCount = *photoCount
	}

	file, fileHeader, err := request.FormFile(formFileCover)
	if err == nil {
		req.Cover = fileHeader
		req.CoverFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create package")

		response.WithError(writer, err)

		return
	}

	user, _ := shared.ActorFromContext(ctx)
	scope.AddEvent("Package created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Package created successfully")
}

// GetPackages retrieves all packages based on query parameters.
// @Summary Get all packages
// @Description Retrieve all packages with optional filtering and pagination.
// @Tags Package
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetPackagesResponse] "List of packages"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages [get]
func (handler *Handler) GetPackages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPackages")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if name := r.URL.Query().Get(model.FieldName); name != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	packages, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get packages")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Packages retrieved successfully")

	response.WithJSON(w, http.StatusOK, packages)
}

// GetPackageByID retrieves a package by its ID.
// @Summary Get a package by ID
// @Tags Package
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} response.Data[dto.PackageResponse] "Package details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id} [get]
func (handler *Handler) GetPackageByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPackageByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	pkg, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get package by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, pkg)
}

// UpdatePackage updates an existing package by its ID.
// @Summary Update a package by ID
// @Tags Package
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Package ID"
// @Param name formData string false "Package name"
// @Param description formData string false "Package description"
// @Param price formData number false "Package price"
// @Param duration_minutes formData integer false "Shoot duration in minutes"
// @Param photo_count formData integer false "Number of edited photos delivered"
// @Param active formData boolean false "Package active status"
// @Param cover formData file false "Cover image"
// @Success 200 {object} response.Message "Package updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePackage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, failure.BadRequest(err))

		return
	}

	req := dto.UpdatePackageRequest{
		Active: shared.ConvertStringToBool(r.FormValue(model.FieldActive)),
	}

	if name := r.FormValue(model.FieldName); name != constant.Empty {
		req.Name = &name
	}

	if description := r.FormValue(model.FieldDescription); description != constant.Empty {
		req.Description = &description
	}

	var err error

	if req.Price, err = shared.ConvertStringToFloat(r.FormValue(model.FieldPrice)); err != nil {
		response.WithError(w, failure.BadRequest(err))

		return
	}

	if req.DurationMinutes, err = shared.ConvertStringToInt(r.FormValue(model.FieldDurationMinutes)); err != nil {
		response.WithError(w, failure.BadRequest(err))

		return
	}

	if req.PhotoCount, err = shared.ConvertStringToInt(r.FormValue(model.FieldPhotoCount)); err != nil {
		response.WithError(w, failure.BadRequest(err))

		return
	}

	file, fileHeader, err := r.FormFile(formFileCover)
	if err == nil {
		req.Cover = fileHeader
		req.CoverFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update package")

		response.WithError(w, err)

		return
	}

	user, _ := shared.ActorFromContext(ctx)
	scope.AddEvent("Package updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Package updated successfully")
}

// DeletePackage deletes a package by its ID.
// @Summary Delete a package by ID
// @Tags Package
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} response.Message "Package deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePackage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete package")

		response.WithError(w, err)

		return
	}

	user, _ := shared.ActorFromContext(ctx)
	scope.AddEvent("Package deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Package deleted successfully")
}
