package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-subscriptions/app/factory"
	"github.com/vibast-solutions/ms-go-subscriptions/app/service"
	"github.com/vibast-solutions/ms-go-subscriptions/app/types"
)

type PaymentController struct {
	paymentService *service.PaymentService
	logger         logrus.FieldLogger
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         factory.NewModuleLogger("subscriptions-controller"),
	}
}

func (c *PaymentController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *PaymentController) InitiatePayment(ctx echo.Context) error {
	req, err := types.NewInitiatePaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, types.ErrorCodeInvalidRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, types.ErrorCodeInvalidRequest, err.Error())
	}

	result, err := c.paymentService.Initiate(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, types.ErrorCodeInvalidRequest, err.Error())
		case errors.Is(err, service.ErrPaymentInitFailed), errors.Is(err, service.ErrProviderUnsupported):
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Payment initiation failed")
			return c.writeError(ctx, http.StatusInternalServerError, types.ErrorCodePaymentInitFailed, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Initiate payment failed")
			return c.writeError(ctx, http.StatusInternalServerError, types.ErrorCodeInternal, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.InitiateResponse{
		Success: true,
		Data: types.InitiateData{
			OrderId:     result.OrderID,
			Amount:      result.Amount,
			Currency:    result.Currency,
			Provider:    result.Provider,
			ProviderKey: result.ProviderKey,
		},
	})
}

func (c *PaymentController) VerifyPayment(ctx echo.Context) error {
	req, err := types.NewVerifyPaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, types.ErrorCodeInvalidRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, types.ErrorCodeInvalidRequest, err.Error())
	}

	subscription, err := c.paymentService.Verify(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSignatureInvalid):
			return c.writeError(ctx, http.StatusUnauthorized, types.ErrorCodeInvalidSignature, "Payment signature verification failed")
		case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrProviderUnsupported):
			return c.writeError(ctx, http.StatusBadRequest, types.ErrorCodeInvalidRequest, err.Error())
		case errors.Is(err, service.ErrPaymentNotCompleted):
			return c.writeError(ctx, http.StatusConflict, types.ErrorCodeInvalidRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Verify payment failed")
			return c.writeError(ctx, http.StatusInternalServerError, types.ErrorCodeInternal, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.VerifyResponse{
		Success:        true,
		SubscriptionId: subscription.SubscriptionID,
		Amount:         subscription.Amount,
		PlanId:         subscription.PlanID,
	})
}

func (c *PaymentController) HandleWebhook(ctx echo.Context) error {
	req, err := types.NewWebhookRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, types.ErrorCodeInvalidRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, types.ErrorCodeInvalidRequest, err.Error())
	}

	err = c.paymentService.HandleWebhook(ctx.Request().Context(), req.Provider, req.Payload, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProviderUnsupported):
			return c.writeError(ctx, http.StatusNotFound, types.ErrorCodeInvalidRequest, "unknown webhook provider")
		case errors.Is(err, service.ErrMissingWebhookFields):
			return c.writeError(ctx, http.StatusBadRequest, types.ErrorCodeMissingFields, "Missing required webhook fields: order_id and payment_id")
		case errors.Is(err, service.ErrSignatureInvalid):
			return c.writeError(ctx, http.StatusUnauthorized, types.ErrorCodeInvalidSignature, "Webhook signature verification failed")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Handle webhook failed")
			return c.writeError(ctx, http.StatusInternalServerError, types.ErrorCodeInternal, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.WebhookAckResponse{Success: true})
}

func (c *PaymentController) writeError(ctx echo.Context, statusCode int, code, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{
		Success: false,
		Error:   types.ErrorBody{Code: code, Message: message},
	})
}
