package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"giftledger/internal/errors"
	"giftledger/internal/model"
	"giftledger/internal/repository"
	"giftledger/internal/service"
)

// GifticonHandler handles gifticon endpoints.
type GifticonHandler struct {
	gifticonService service.GifticonService
}

// NewGifticonHandler creates a new gifticon handler.
func NewGifticonHandler(gifticonService service.GifticonService) *GifticonHandler {
	return &GifticonHandler{gifticonService: gifticonService}
}

// CreateGifticonRequest represents a gifticon issuance request.
type CreateGifticonRequest struct {
	Amount         int64  `json:"amount" validate:"required,min=1,max=1000000"`
	PurchaserName  string `json:"purchaser_name" validate:"required,max=100"`
	PurchaserPhone string `json:"purchaser_phone" validate:"required,max=20"`
	Notes          string `json:"notes,omitempty" validate:"max=200"`
	CreatedBy      string `json:"created_by,omitempty" validate:"max=100"`
}

// RedeemRequest represents a redemption request from a register station.
type RedeemRequest struct {
	Amount        int64  `json:"amount" validate:"required,min=1"`
	UsedBy        string `json:"used_by,omitempty" validate:"max=100"`
	Memo          string `json:"memo,omitempty" validate:"max=255"`
	PaymentMethod string `json:"payment_method,omitempty" validate:"max=50"`
	Location      string `json:"location,omitempty" validate:"max=100"`
}

// RechargeRequest represents a recharge request.
type RechargeRequest struct {
	Amount        int64  `json:"amount" validate:"required,min=1,max=1000000"`
	RechargedBy   string `json:"recharged_by,omitempty" validate:"max=100"`
	PaymentMethod string `json:"payment_method,omitempty" validate:"max=50"`
}

// BlockRequest represents a block or unblock request.
type BlockRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
	Actor  string `json:"actor,omitempty" validate:"max=100"`
}

// Create godoc
// @Summary Issue a new gifticon
// @Tags gifticons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGifticonRequest true "Issuance data"
// @Success 201 {object} service.GifticonView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /gifticons [post]
func (h *GifticonHandler) Create(c echo.Context) error {
	var req CreateGifticonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	view, err := h.gifticonService.Create(c.Request().Context(), service.CreateInput{
		Amount:         req.Amount,
		PurchaserName:  req.PurchaserName,
		PurchaserPhone: req.PurchaserPhone,
		Notes:          req.Notes,
		CreatedBy:      req.CreatedBy,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, view)
}

// Get godoc
// @Summary Look up a gifticon
// @Tags gifticons
// @Produce json
// @Param id path string true "Gifticon ID"
// @Success 200 {object} service.GifticonView
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /gifticons/{id} [get]
func (h *GifticonHandler) Get(c echo.Context) error {
	view, err := h.gifticonService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, view)
}

// List godoc
// @Summary List gifticons
// @Tags gifticons
// @Produce json
// @Security BearerAuth
// @Param status query string false "Persisted status filter"
// @Param created_by query string false "Creator filter"
// @Param limit query int false "Page size (max 200)"
// @Param offset query int false "Page offset"
// @Success 200 {array} service.GifticonView
// @Failure 500 {object} errors.ErrorResponse
// @Router /gifticons [get]
func (h *GifticonHandler) List(c echo.Context) error {
	limit, offset := pagination(c)
	views, err := h.gifticonService.List(c.Request().Context(), repository.ListQuery{
		Status:    model.Status(c.QueryParam("status")),
		CreatedBy: c.QueryParam("created_by"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, views)
}

// Redeem godoc
// @Summary Redeem part or all of a gifticon balance
// @Tags gifticons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Gifticon ID"
// @Param request body RedeemRequest true "Redemption data"
// @Success 200 {object} service.RedeemResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /gifticons/{id}/redeem [post]
func (h *GifticonHandler) Redeem(c echo.Context) error {
	var req RedeemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	result, err := h.gifticonService.Redeem(c.Request().Context(), c.Param("id"), service.RedeemInput{
		Amount:        req.Amount,
		UsedBy:        req.UsedBy,
		Memo:          req.Memo,
		PaymentMethod: req.PaymentMethod,
		Location:      req.Location,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// Recharge godoc
// @Summary Add value to a gifticon
// @Tags gifticons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Gifticon ID"
// @Param request body RechargeRequest true "Recharge data"
// @Success 200 {object} service.RechargeResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /gifticons/{id}/recharge [post]
func (h *GifticonHandler) Recharge(c echo.Context) error {
	var req RechargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	result, err := h.gifticonService.Recharge(c.Request().Context(), c.Param("id"), service.RechargeInput{
		Amount:        req.Amount,
		RechargedBy:   req.RechargedBy,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// Block godoc
// @Summary Place an administrative hold on a gifticon
// @Tags gifticons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Gifticon ID"
// @Param request body BlockRequest true "Block reason and actor"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /gifticons/{id}/block [post]
func (h *GifticonHandler) Block(c echo.Context) error {
	var req BlockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	if err := h.gifticonService.Block(c.Request().Context(), c.Param("id"), req.Reason, req.Actor); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// Unblock godoc
// @Summary Lift an administrative hold
// @Tags gifticons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Gifticon ID"
// @Param request body BlockRequest true "Unblock reason and actor"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /gifticons/{id}/unblock [post]
func (h *GifticonHandler) Unblock(c echo.Context) error {
	var req BlockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	if err := h.gifticonService.Unblock(c.Request().Context(), c.Param("id"), req.Reason, req.Actor); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// StatusLogs godoc
// @Summary Status change history for a gifticon
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param id path string true "Gifticon ID"
// @Param limit query int false "Page size (max 200)"
// @Param offset query int false "Page offset"
// @Success 200 {array} model.StatusChangeLog
// @Failure 404 {object} errors.ErrorResponse
// @Router /gifticons/{id}/logs [get]
func (h *GifticonHandler) StatusLogs(c echo.Context) error {
	limit, offset := pagination(c)
	logs, err := h.gifticonService.StatusLogs(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, logs)
}

// UsageHistory godoc
// @Summary Redemption history for a gifticon
// @Tags audit
// @Produce json
// @Param id path string true "Gifticon ID"
// @Param limit query int false "Page size (max 200)"
// @Param offset query int false "Page offset"
// @Success 200 {array} model.UsageRecord
// @Failure 404 {object} errors.ErrorResponse
// @Router /gifticons/{id}/usages [get]
func (h *GifticonHandler) UsageHistory(c echo.Context) error {
	limit, offset := pagination(c)
	records, err := h.gifticonService.UsageHistory(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, records)
}

// RechargeHistory godoc
// @Summary Recharge history for a gifticon
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param id path string true "Gifticon ID"
// @Param limit query int false "Page size (max 200)"
// @Param offset query int false "Page offset"
// @Success 200 {array} model.RechargeRecord
// @Failure 404 {object} errors.ErrorResponse
// @Router /gifticons/{id}/recharges [get]
func (h *GifticonHandler) RechargeHistory(c echo.Context) error {
	limit, offset := pagination(c)
	records, err := h.gifticonService.RechargeHistory(c.Request().Context(), c.Param("id"), limit, offset)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, records)
}

func pagination(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
