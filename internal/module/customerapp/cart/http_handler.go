package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	publicMiddleware "github.com/ali25developer/Kartcis-sub000/pkg/middleware"
	"github.com/ali25developer/Kartcis-sub000/pkg/response"
	"github.com/ali25developer/Kartcis-sub000/pkg/status"
)

type HTTPHandler struct {
	Validate    *validator.Validate
	CartUseCase CartUseCase
}

func InitHTTPHandler(router *mux.Router, validate *validator.Validate, cartUseCase CartUseCase) {
	handler := &HTTPHandler{
		Validate:    validate,
		CartUseCase: cartUseCase,
	}

	router.HandleFunc("/kc-storefront/v1/customerapp/cart", publicMiddleware.SetRouteChain(handler.GetCart)).Methods(http.MethodGet)
	router.HandleFunc("/kc-storefront/v1/customerapp/cart", publicMiddleware.SetRouteChain(handler.ClearCart)).Methods(http.MethodDelete)
	router.HandleFunc("/kc-storefront/v1/customerapp/cart/items", publicMiddleware.SetRouteChain(handler.AddItem)).Methods(http.MethodPost)
	router.HandleFunc("/kc-storefront/v1/customerapp/cart/items", publicMiddleware.SetRouteChain(handler.UpdateQuantity)).Methods(http.MethodPut)
	router.HandleFunc("/kc-storefront/v1/customerapp/cart/items/{eventId}/{ticketTypeId}", publicMiddleware.SetRouteChain(handler.RemoveItem)).Methods(http.MethodDelete)
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

func (handler HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := GetCartResponse{}
	resp.PopulateFromEntity(handler.CartUseCase.GetItems(ctx))

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "cart",
		Data:    resp,
	})
}

func (handler HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := AddItemRequest{}
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

	handler.CartUseCase.AddItem(ctx, Item{
		EventID:        req.EventID,
		EventTitle:     req.EventTitle,
		EventImage:     req.EventImage,
		TicketTypeID:   req.TicketTypeID,
		TicketTypeName: req.TicketTypeName,
		Quantity:       req.Quantity,
		UnitPrice:      req.UnitPrice,
	})

	resp := GetCartResponse{}
	resp.PopulateFromEntity(handler.CartUseCase.GetItems(ctx))

	response.JSON(w, http.StatusCreated, response.RESTEnvelope{
		Status:  status.CREATED,
		Message: "item has been added to the cart",
		Data:    resp,
	})
}

func (handler HTTPHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := UpdateQuantityRequest{}
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

	handler.CartUseCase.UpdateQuantity(ctx, req.EventID, req.TicketTypeID, req.Quantity)

	resp := GetCartResponse{}
	resp.PopulateFromEntity(handler.CartUseCase.GetItems(ctx))

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "cart has been updated",
		Data:    resp,
	})
}

func (handler HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vars := mux.Vars(r)
	handler.CartUseCase.RemoveItem(ctx, vars["eventId"], vars["ticketTypeId"])

	resp := GetCartResponse{}
	resp.PopulateFromEntity(handler.CartUseCase.GetItems(ctx))

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "item has been removed from the cart",
		Data:    resp,
	})
}

func (handler HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	handler.CartUseCase.ClearCart(ctx)

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "cart has been cleared",
	})
}
