package homestays

import (
	"errors"
	"net/http"
	"strconv"

	"homestay/internal/shared/utils/response"
	"homestay/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// currentUser extracts the authenticated user's id and admin flag.
func currentUser(ctx *gin.Context) (uuid.UUID, bool, bool) {
	rawID, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, false, false
	}
	userID, err := uuid.Parse(rawID.(string))
	if err != nil {
		return uuid.Nil, false, false
	}

	role, _ := ctx.Get("user_role")
	isAdmin := role == string(users.RoleAdmin)
	return userID, isAdmin, true
}

// Search lists active homestays for guests, with optional availability filter
func (c *Controller) Search(ctx *gin.Context) {
	var filters SearchFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := c.service.SearchPublic(ctx.Request.Context(), filters)
	if err != nil {
		if errors.Is(err, ErrInvalidDateRange) {
			response.Error(ctx, http.StatusBadRequest, "Check-out must be after check-in", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to search homestays", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Homestays retrieved successfully", result)
}

// GetTop lists the best rated active homestays
func (c *Controller) GetTop(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	result, err := c.service.GetTop(ctx.Request.Context(), limit)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to load top homestays", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Top homestays retrieved successfully", result)
}

func (c *Controller) GetByID(ctx *gin.Context) {
	homestay, err := c.service.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrHomestayNotFound):
			response.Error(ctx, http.StatusNotFound, "Homestay not found", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to load homestay", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Homestay retrieved successfully", homestay)
}

func (c *Controller) Create(ctx *gin.Context) {
	ownerID, _, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req CreateHomestayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	homestay, err := c.service.Create(ctx.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to create homestay", nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Homestay created successfully", homestay)
}

// ListOwned lists the calling host's homestays regardless of status
func (c *Controller) ListOwned(ctx *gin.Context) {
	ownerID, _, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var filters SearchFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	filters.OwnerID = ownerID.String()

	result, err := c.service.Search(ctx.Request.Context(), filters)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list homestays", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Homestays retrieved successfully", result)
}

func (c *Controller) Update(ctx *gin.Context) {
	ownerID, isAdmin, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req UpdateHomestayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	homestay, err := c.service.Update(ctx.Request.Context(), ctx.Param("id"), ownerID, isAdmin, req)
	if err != nil {
		c.respondOwnedError(ctx, err, "Failed to update homestay")
		return
	}

	response.Success(ctx, http.StatusOK, "Homestay updated successfully", homestay)
}

func (c *Controller) ToggleStatus(ctx *gin.Context) {
	ownerID, isAdmin, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	homestay, err := c.service.ToggleStatus(ctx.Request.Context(), ctx.Param("id"), ownerID, isAdmin)
	if err != nil {
		c.respondOwnedError(ctx, err, "Failed to toggle homestay status")
		return
	}

	response.Success(ctx, http.StatusOK, "Homestay status updated successfully", homestay)
}

func (c *Controller) Delete(ctx *gin.Context) {
	ownerID, isAdmin, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), ctx.Param("id"), ownerID, isAdmin); err != nil {
		c.respondOwnedError(ctx, err, "Failed to delete homestay")
		return
	}

	response.Success(ctx, http.StatusOK, "Homestay deleted successfully", nil)
}

// GetOwnerStats summarises the calling host's listings
func (c *Controller) GetOwnerStats(ctx *gin.Context) {
	ownerID, _, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	stats, err := c.service.GetOwnerStats(ctx.Request.Context(), ownerID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to load owner stats", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Owner stats retrieved successfully", stats)
}

func (c *Controller) GetStats(ctx *gin.Context) {
	stats, err := c.service.GetStats(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to load homestay stats", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Homestay stats retrieved successfully", stats)
}

func (c *Controller) respondOwnedError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrHomestayNotFound):
		response.Error(ctx, http.StatusNotFound, "Homestay not found", nil)
	case errors.Is(err, ErrNotOwner):
		response.Error(ctx, http.StatusForbidden, "You do not own this homestay", nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, fallback, nil)
	}
}
