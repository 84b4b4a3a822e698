package ticket

import (
	"net/http"

	"github.com/gorilla/mux"

	internalMiddleware "github.com/ali25developer/Kartcis-sub000/internal/pkg/middleware"
	"github.com/ali25developer/Kartcis-sub000/internal/pkg/session"
	publicMiddleware "github.com/ali25developer/Kartcis-sub000/pkg/middleware"
	"github.com/ali25developer/Kartcis-sub000/pkg/errors"
	"github.com/ali25developer/Kartcis-sub000/pkg/response"
	"github.com/ali25developer/Kartcis-sub000/pkg/status"
)

type HTTPHandler struct {
	Store Store
}

func InitHTTPHandler(router *mux.Router, customerSession *internalMiddleware.CustomerSession, store Store) {
	handler := &HTTPHandler{
		Store: store,
	}

	router.HandleFunc("/kc-storefront/v1/customerapp/tickets", publicMiddleware.SetRouteChain(handler.GetManyTicket, customerSession.Verify)).Methods(http.MethodGet)
}

func (handler HTTPHandler) GetManyTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	tickets := handler.Store.GetByUserID(acc.ID)
	if tickets == nil {
		tickets = make([]PurchasedTicket, 0)
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "list of purchased tickets",
		Data:    tickets,
	})
}
