package banner

import (
	"net/http"

	"github.com/gorilla/mux"

	publicMiddleware "github.com/ali25developer/Kartcis-sub000/pkg/middleware"
	"github.com/ali25developer/Kartcis-sub000/pkg/response"
	"github.com/ali25developer/Kartcis-sub000/pkg/status"
)

type HTTPHandler struct {
	ViewModel ViewModel
}

func InitHTTPHandler(router *mux.Router, viewModel ViewModel) {
	handler := &HTTPHandler{
		ViewModel: viewModel,
	}

	router.HandleFunc("/kc-storefront/v1/customerapp/banner", publicMiddleware.SetRouteChain(handler.GetBanner)).Methods(http.MethodGet)
}

func (handler HTTPHandler) GetBanner(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "payment banner",
		Data:    handler.ViewModel.Snapshot(),
	})
}
