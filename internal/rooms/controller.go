package rooms

import (
	"errors"
	"net/http"

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

// List lists a homestay's rooms, optionally annotated for a date range
func (c *Controller) List(ctx *gin.Context) {
	var filters ListFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := c.service.List(ctx.Request.Context(), ctx.Param("id"), filters)
	if err != nil {
		if errors.Is(err, ErrInvalidDateRange) {
			response.Error(ctx, http.StatusBadRequest, "Check-out must be after check-in", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to list rooms", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Rooms retrieved successfully", result)
}

func (c *Controller) GetByID(ctx *gin.Context) {
	room, err := c.service.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrRoomNotFound):
			response.Error(ctx, http.StatusNotFound, "Room not found", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to load room", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Room retrieved successfully", room)
}

// CheckAvailability reports whether one room is free for a requested stay
func (c *Controller) CheckAvailability(ctx *gin.Context) {
	result, err := c.service.CheckAvailability(
		ctx.Request.Context(),
		ctx.Param("id"),
		ctx.Query("check_in"),
		ctx.Query("check_out"),
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrRoomNotFound):
			response.Error(ctx, http.StatusNotFound, "Room not found", nil)
		case errors.Is(err, ErrInvalidDateRange):
			response.Error(ctx, http.StatusBadRequest, "Check-out must be after check-in", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to check availability", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Availability checked successfully", result)
}

func (c *Controller) Create(ctx *gin.Context) {
	hostID, isAdmin, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	room, err := c.service.Create(ctx.Request.Context(), ctx.Param("id"), hostID, isAdmin, req)
	if err != nil {
		c.respondOwnedError(ctx, err, "Failed to create room")
		return
	}

	response.Success(ctx, http.StatusCreated, "Room created successfully", room)
}

func (c *Controller) Update(ctx *gin.Context) {
	hostID, isAdmin, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req UpdateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	room, err := c.service.Update(ctx.Request.Context(), ctx.Param("id"), hostID, isAdmin, req)
	if err != nil {
		c.respondOwnedError(ctx, err, "Failed to update room")
		return
	}

	response.Success(ctx, http.StatusOK, "Room updated successfully", room)
}

func (c *Controller) Delete(ctx *gin.Context) {
	hostID, isAdmin, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), ctx.Param("id"), hostID, isAdmin); err != nil {
		c.respondOwnedError(ctx, err, "Failed to delete room")
		return
	}

	response.Success(ctx, http.StatusOK, "Room deleted successfully", nil)
}

// SetAvailability blocks or reopens a room's calendar for a date range
func (c *Controller) SetAvailability(ctx *gin.Context) {
	hostID, isAdmin, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req SetAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	entries, err := c.service.SetAvailability(ctx.Request.Context(), ctx.Param("id"), hostID, isAdmin, req)
	if err != nil {
		c.respondCalendarError(ctx, err, "Failed to set availability")
		return
	}

	response.Success(ctx, http.StatusOK, "Availability updated successfully", entries)
}

func (c *Controller) ListAvailability(ctx *gin.Context) {
	hostID, isAdmin, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var filters CalendarFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	entries, err := c.service.ListAvailability(ctx.Request.Context(), ctx.Param("id"), hostID, isAdmin, filters)
	if err != nil {
		c.respondCalendarError(ctx, err, "Failed to list availability")
		return
	}

	response.Success(ctx, http.StatusOK, "Availability retrieved successfully", entries)
}

func (c *Controller) UpdateAvailability(ctx *gin.Context) {
	hostID, isAdmin, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req UpdateAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	entry, err := c.service.UpdateAvailability(ctx.Request.Context(), ctx.Param("id"), hostID, isAdmin, req)
	if err != nil {
		c.respondCalendarError(ctx, err, "Failed to update availability")
		return
	}

	response.Success(ctx, http.StatusOK, "Availability updated successfully", entry)
}

func (c *Controller) respondCalendarError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEntryNotFound):
		response.Error(ctx, http.StatusNotFound, "Availability entry not found", nil)
	case errors.Is(err, ErrInvalidDateRange):
		response.Error(ctx, http.StatusBadRequest, "End date must be after start date", nil)
	case errors.Is(err, ErrPastDate):
		response.Error(ctx, http.StatusBadRequest, "Cannot set availability for past dates", nil)
	default:
		c.respondOwnedError(ctx, err, fallback)
	}
}

func (c *Controller) respondOwnedError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		response.Error(ctx, http.StatusNotFound, "Room not found", nil)
	case errors.Is(err, ErrHomestayNotFound):
		response.Error(ctx, http.StatusNotFound, "Homestay not found", nil)
	case errors.Is(err, ErrNotOwner):
		response.Error(ctx, http.StatusForbidden, "You do not own this homestay", nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, fallback, nil)
	}
}
