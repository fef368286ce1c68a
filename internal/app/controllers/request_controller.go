package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convenia/convenia-backend/internal/app/models/dto"
	"github.com/convenia/convenia-backend/internal/app/services"
	"github.com/convenia/convenia-backend/internal/middleware"
)

// RequestController handles partnership request endpoints
type RequestController struct {
	requestService services.IRequestService
}

// NewRequestController creates a new request controller
func NewRequestController(requestService services.IRequestService) *RequestController {
	return &RequestController{requestService: requestService}
}

// CreateRequest godoc
// @Summary File a partnership request
// @Description Creates a request with up to 5 attached documents. The request always starts In Progress.
// @Tags requests
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Request title"
// @Param type formData string true "Request type"
// @Param description formData string true "Request description"
// @Param teacherId formData int true "Owning teacher ID"
// @Param documents formData file false "Attached documents (max 5)"
// @Success 201 {object} dto.APIResponse{data=models.Request}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /requests [post]
func (c *RequestController) CreateRequest(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
		return
	}

	var form dto.CreateRequestForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	multipartForm, err := ctx.MultipartForm()
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid multipart form")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}
	files := multipartForm.File["documents"]

	request, err := c.requestService.CreateRequest(ctx.Request.Context(), principal, &form, files)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessMessageResponse(request, "Request created"))
}

// ListRequests godoc
// @Summary List all requests
// @Description Returns every request, newest first, admin-only
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Request}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /requests [get]
func (c *RequestController) ListRequests(ctx *gin.Context) {
	requests, err := c.requestService.ListRequests(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// SearchRequests godoc
// @Summary Search requests
// @Description Filters requests by free text, status, and type. All supplied filters must match.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param query query string false "Text matched against title and description"
// @Param status query string false "Exact status filter"
// @Param type query string false "Exact type filter"
// @Success 200 {object} dto.APIResponse{data=[]models.Request}
// @Failure 400 {object} dto.ErrorResponse
// @Router /requests/search [get]
func (c *RequestController) SearchRequests(ctx *gin.Context) {
	var query dto.SearchRequestQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	requests, err := c.requestService.SearchRequests(ctx.Request.Context(), &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// ListTeacherRequests godoc
// @Summary List a teacher's requests
// @Description Teachers may only list their own requests; admins may list anyone's
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Request}
// @Failure 403 {object} dto.ErrorResponse
// @Router /requests/teacher/{id} [get]
func (c *RequestController) ListTeacherRequests(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
		return
	}

	teacherID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	requests, err := c.requestService.ListRequestsByTeacher(ctx.Request.Context(), principal, teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// GetRequest godoc
// @Summary Get a request
// @Description Teachers may only view their own requests
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=models.Request}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /requests/{id} [get]
func (c *RequestController) GetRequest(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	request, err := c.requestService.GetRequest(ctx.Request.Context(), principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(request))
}

// UpdateRequestStatus godoc
// @Summary Update a request's status
// @Description Moves a request to a new status, admin-only
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Request}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /requests/{id}/status [patch]
func (c *RequestController) UpdateRequestStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	request, err := c.requestService.UpdateRequestStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(request, "Status updated"))
}

// DeleteRequest godoc
// @Summary Delete a request
// @Description Removes a request and its stored documents. Teachers may only delete their own.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /requests/{id} [delete]
func (c *RequestController) DeleteRequest(ctx *gin.Context) {
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
		return
	}

	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.requestService.DeleteRequest(ctx.Request.Context(), principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(nil, "Request deleted"))
}
