package bookings

import (
	"errors"
	"net/http"

	"homestay/internal/shared/utils/response"

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

func currentActor(ctx *gin.Context) (Actor, bool) {
	rawID, exists := ctx.Get("user_id")
	if !exists {
		return Actor{}, false
	}
	userID, err := uuid.Parse(rawID.(string))
	if err != nil {
		return Actor{}, false
	}

	role, _ := ctx.Get("user_role")
	roleStr, _ := role.(string)
	return Actor{UserID: userID, Role: roleStr}, true
}

// Create books one or more rooms for a stay
func (c *Controller) Create(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	booking, err := c.service.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		var conflict *ConflictError
		switch {
		case errors.As(err, &conflict):
			response.Error(ctx, http.StatusConflict, "Some rooms are unavailable for the requested dates",
				ConflictDetail{UnavailableRoomIDs: conflict.UnavailableRoomIDs})
		case errors.Is(err, ErrHomestayNotFound):
			response.Error(ctx, http.StatusNotFound, "Homestay not found", nil)
		case errors.Is(err, ErrHomestayNotActive):
			response.Error(ctx, http.StatusUnprocessableEntity, "Homestay is not accepting bookings", nil)
		case errors.Is(err, ErrInvalidDateRange):
			response.Error(ctx, http.StatusBadRequest, "Check-out must be after check-in", nil)
		case errors.Is(err, ErrCheckInPast):
			response.Error(ctx, http.StatusBadRequest, "Check-in date is in the past", nil)
		case errors.Is(err, ErrPaidExceedsTotal):
			response.Error(ctx, http.StatusBadRequest, "Paid amount exceeds total amount", nil)
		case errors.Is(err, ErrRoomNotInHomestay):
			response.Error(ctx, http.StatusBadRequest, "Room does not belong to this homestay", nil)
		case errors.Is(err, ErrDuplicateRoom):
			response.Error(ctx, http.StatusBadRequest, "Duplicate room in booking request", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to create booking", nil)
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking created successfully", booking)
}

func (c *Controller) GetByID(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	booking, err := c.service.GetByID(ctx.Request.Context(), ctx.Param("id"), actor)
	if err != nil {
		c.respondLookupError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved successfully", booking)
}

func (c *Controller) GetByCode(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	booking, err := c.service.GetByCode(ctx.Request.Context(), ctx.Param("code"), actor)
	if err != nil {
		c.respondLookupError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved successfully", booking)
}

// ListMine lists the calling guest's bookings
func (c *Controller) ListMine(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var filters SearchFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := c.service.ListForUser(ctx.Request.Context(), actor.UserID, filters)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list bookings", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", result)
}

// ListForHost lists bookings across the calling host's homestays
func (c *Controller) ListForHost(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var filters SearchFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := c.service.ListForHost(ctx.Request.Context(), actor.UserID, filters)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list bookings", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", result)
}

// ListAll lists every booking; admin only
func (c *Controller) ListAll(ctx *gin.Context) {
	var filters SearchFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := c.service.ListAll(ctx.Request.Context(), filters)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list bookings", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", result)
}

// UpdateStatus drives the booking lifecycle (confirm, complete, cancel)
func (c *Controller) UpdateStatus(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	booking, err := c.service.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), actor, Status(req.Status))
	if err != nil {
		c.respondTransitionError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Booking status updated successfully", booking)
}

// Cancel cancels a booking, freeing its rooms for the stay interval
func (c *Controller) Cancel(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	booking, err := c.service.Cancel(ctx.Request.Context(), ctx.Param("id"), actor)
	if err != nil {
		c.respondTransitionError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Booking cancelled successfully", booking)
}

func (c *Controller) respondLookupError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
	case errors.Is(err, ErrNotAllowed):
		response.Error(ctx, http.StatusForbidden, "Not allowed to access this booking", nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, "Failed to load booking", nil)
	}
}

func (c *Controller) respondTransitionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
	case errors.Is(err, ErrNotAllowed):
		response.Error(ctx, http.StatusForbidden, "Not allowed to modify this booking", nil)
	case errors.Is(err, ErrInvalidTransition):
		response.Error(ctx, http.StatusUnprocessableEntity, "Invalid booking status transition", nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, "Failed to update booking", nil)
	}
}
