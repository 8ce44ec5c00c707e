package payments

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

func currentUser(ctx *gin.Context) (uuid.UUID, string, bool) {
	rawID, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, "", false
	}
	userID, err := uuid.Parse(rawID.(string))
	if err != nil {
		return uuid.Nil, "", false
	}

	role, _ := ctx.Get("user_role")
	roleStr, _ := role.(string)
	return userID, roleStr, true
}

// Record adds a completed payment to a booking
func (c *Controller) Record(ctx *gin.Context) {
	userID, role, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	isAdmin := role == string(users.RoleAdmin)
	payment, err := c.service.Record(ctx.Request.Context(), ctx.Param("id"), userID, isAdmin, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrNotAllowed):
			response.Error(ctx, http.StatusForbidden, "Not allowed to manage payments for this booking", nil)
		case errors.Is(err, ErrOverpayment):
			response.Error(ctx, http.StatusUnprocessableEntity, "Payment exceeds outstanding amount", nil)
		case errors.Is(err, ErrBookingCancelled):
			response.Error(ctx, http.StatusUnprocessableEntity, "Cannot record payment on a cancelled booking", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to record payment", nil)
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Payment recorded successfully", payment)
}

// Refund marks a completed payment as refunded
func (c *Controller) Refund(ctx *gin.Context) {
	userID, role, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req RefundPaymentRequest
	ctx.ShouldBindJSON(&req) // Optional body

	isAdmin := role == string(users.RoleAdmin)
	payment, err := c.service.Refund(ctx.Request.Context(), ctx.Param("id"), userID, isAdmin, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			response.Error(ctx, http.StatusNotFound, "Payment not found", nil)
		case errors.Is(err, ErrBookingNotFound):
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrNotAllowed):
			response.Error(ctx, http.StatusForbidden, "Not allowed to manage payments for this booking", nil)
		case errors.Is(err, ErrNotRefundable):
			response.Error(ctx, http.StatusUnprocessableEntity, "Only completed payments can be refunded", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to refund payment", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Payment refunded successfully", payment)
}

// ListByBooking returns a booking's payment ledger
func (c *Controller) ListByBooking(ctx *gin.Context) {
	userID, role, ok := currentUser(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	ledger, err := c.service.ListByBooking(ctx.Request.Context(), ctx.Param("id"), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrNotAllowed):
			response.Error(ctx, http.StatusForbidden, "Not allowed to view payments for this booking", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to load payments", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Payments retrieved successfully", ledger)
}
