package reviews

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

// Create reviews a completed stay
func (c *Controller) Create(ctx *gin.Context) {
	userID, _, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	review, err := c.service.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrNotYourBooking):
			response.Error(ctx, http.StatusForbidden, "Booking does not belong to this user", nil)
		case errors.Is(err, ErrBookingNotComplete):
			response.Error(ctx, http.StatusUnprocessableEntity, "Only completed stays can be reviewed", nil)
		case errors.Is(err, ErrAlreadyReviewed):
			response.Error(ctx, http.StatusConflict, "Booking has already been reviewed", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to create review", nil)
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Review created successfully", review)
}

// ListByHomestay lists a homestay's reviews with reviewer names
func (c *Controller) ListByHomestay(ctx *gin.Context) {
	var filters ListFilters
	if err := ctx.ShouldBindQuery(&filters); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := c.service.ListByHomestay(ctx.Request.Context(), ctx.Param("id"), filters)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list reviews", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Reviews retrieved successfully", result)
}

func (c *Controller) Delete(ctx *gin.Context) {
	userID, isAdmin, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), ctx.Param("id"), userID, isAdmin); err != nil {
		switch {
		case errors.Is(err, ErrReviewNotFound):
			response.Error(ctx, http.StatusNotFound, "Review not found", nil)
		case errors.Is(err, ErrNotAllowed):
			response.Error(ctx, http.StatusForbidden, "Not allowed to delete this review", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to delete review", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Review deleted successfully", nil)
}
