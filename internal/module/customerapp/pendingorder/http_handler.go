package pendingorder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	internalMiddleware "github.com/ali25developer/Kartcis-sub000/internal/pkg/middleware"
	"github.com/ali25developer/Kartcis-sub000/pkg/errors"
	publicMiddleware "github.com/ali25developer/Kartcis-sub000/pkg/middleware"
	"github.com/ali25developer/Kartcis-sub000/pkg/response"
	"github.com/ali25developer/Kartcis-sub000/pkg/status"
)

type HTTPHandler struct {
	Validate            *validator.Validate
	PendingOrderUseCase PendingOrderUseCase
}

func InitHTTPHandler(router *mux.Router, validate *validator.Validate, customerSession *internalMiddleware.CustomerSession, pendingOrderUseCase PendingOrderUseCase) {
	handler := &HTTPHandler{
		Validate:            validate,
		PendingOrderUseCase: pendingOrderUseCase,
	}

	router.HandleFunc("/kc-storefront/v1/customerapp/checkout", publicMiddleware.SetRouteChain(handler.Checkout, customerSession.Attach)).Methods(http.MethodPost)
	router.HandleFunc("/kc-storefront/v1/customerapp/orders/active", publicMiddleware.SetRouteChain(handler.GetActiveOrder)).Methods(http.MethodGet)
	router.HandleFunc("/kc-storefront/v1/customerapp/orders/{orderId}", publicMiddleware.SetRouteChain(handler.GetOrder)).Methods(http.MethodGet)
	router.HandleFunc("/kc-storefront/v1/customerapp/orders/{orderId}/confirm-payment", publicMiddleware.SetRouteChain(handler.ConfirmPayment)).Methods(http.MethodPost)
	router.HandleFunc("/kc-storefront/v1/customerapp/orders/{orderId}/cancel", publicMiddleware.SetRouteChain(handler.CancelOrder)).Methods(http.MethodPost)
	router.HandleFunc("/kc-storefront/v1/customerapp/orders/{orderId}/change-payment-method", publicMiddleware.SetRouteChain(handler.ChangePaymentMethod)).Methods(http.MethodPost)
}

func (handler HTTPHandler) validate(ctx context.Context, payload interface{}) error {
	err := handler.Validate.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	errorFields := err.(validator.ValidationErrors)

	errMessages := make([]string, len(errorFields))

	for k, errorField := range errorFields {
		errMessages[k] = fmt.Sprintf("invalid '%s' with value '%v'", errorField.Field(), errorField.Value())
	}

	return fmt.Errorf("%s", strings.Join(errMessages, ", "))
}

func (handler HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := CheckoutRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusUnprocessableEntity, response.RESTEnvelope{
			Status:  status.UNPROCESSABLE_ENTITY,
			Message: err.Error(),
		})

		return
	}

	if err := handler.validate(ctx, req); err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: err.Error(),
		})

		return
	}

	resp, err := handler.PendingOrderUseCase.Checkout(ctx, req)
	if err != nil {
		appErr := errors.Destruct(err)
		response.JSON(w, appErr.HTTPStatusCode, response.RESTEnvelope{
			Status:  appErr.Status,
			Message: appErr.Message,
		})

		return
	}

	response.JSON(w, http.StatusCreated, response.RESTEnvelope{
		Status:  status.CREATED,
		Message: "order has been created",
		Data:    resp,
	})
}

func (handler HTTPHandler) GetActiveOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.PendingOrderUseCase.GetActiveOrder(ctx)
	if err != nil {
		appErr := errors.Destruct(err)
		response.JSON(w, appErr.HTTPStatusCode, response.RESTEnvelope{
			Status:  appErr.Status,
			Message: appErr.Message,
		})

		return
	}

	if resp == nil {
		response.JSON(w, http.StatusOK, response.RESTEnvelope{
			Status:  status.OK,
			Message: "there is no active order",
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "active order",
		Data:    resp,
	})
}

func (handler HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.PendingOrderUseCase.GetOrder(ctx, mux.Vars(r)["orderId"])
	if err != nil {
		appErr := errors.Destruct(err)
		response.JSON(w, appErr.HTTPStatusCode, response.RESTEnvelope{
			Status:  appErr.Status,
			Message: appErr.Message,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "order detail",
		Data:    resp,
	})
}

func (handler HTTPHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.PendingOrderUseCase.ConfirmPayment(ctx, mux.Vars(r)["orderId"])
	if err != nil {
		appErr := errors.Destruct(err)
		response.JSON(w, appErr.HTTPStatusCode, response.RESTEnvelope{
			Status:  appErr.Status,
			Message: appErr.Message,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "payment has been confirmed",
		Data:    resp,
	})
}

func (handler HTTPHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := handler.PendingOrderUseCase.CancelOrder(ctx, mux.Vars(r)["orderId"]); err != nil {
		appErr := errors.Destruct(err)
		response.JSON(w, appErr.HTTPStatusCode, response.RESTEnvelope{
			Status:  appErr.Status,
			Message: appErr.Message,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "order has been cancelled",
	})
}

func (handler HTTPHandler) ChangePaymentMethod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := handler.PendingOrderUseCase.ChangePaymentMethod(ctx, mux.Vars(r)["orderId"])
	if err != nil {
		appErr := errors.Destruct(err)
		response.JSON(w, appErr.HTTPStatusCode, response.RESTEnvelope{
			Status:  appErr.Status,
			Message: appErr.Message,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "cart has been restored for a new checkout",
		Data:    resp,
	})
}
