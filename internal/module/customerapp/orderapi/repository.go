package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ali25developer/Kartcis-sub000/internal/pkg/session"
	"github.com/ali25developer/Kartcis-sub000/pkg/errors"
	"github.com/ali25developer/Kartcis-sub000/pkg/status"
)

// OrderAPIRepository is the client of the backend order service. The backend
// owns pricing, inventory and payment processing; this side only relays.
type OrderAPIRepository interface {
	Create(ctx context.Context, req CreateOrderRequest) (Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (Order, error)
	Cancel(ctx context.Context, orderNumber string) error
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type orderAPIRepository struct {
	baseURL string
	logger  *logrus.Logger
	hc      *http.Client
	session session.Store
}

func NewOrderAPIRepository(baseURL string, logger *logrus.Logger, hc *http.Client, sessionStore session.Store) OrderAPIRepository {
	return &orderAPIRepository{
		baseURL: baseURL,
		logger:  logger,
		hc:      hc,
		session: sessionStore,
	}
}

// Create implements OrderAPIRepository.
func (r *orderAPIRepository) Create(ctx context.Context, req CreateOrderRequest) (Order, error) {
	reqBuff, _ := json.Marshal(req)
	url := fmt.Sprintf("%s/orders", r.baseURL)

	var data Order
	if err := r.do(ctx, http.MethodPost, url, bytes.NewBuffer(reqBuff), &data); err != nil {
		return Order{}, err
	}

	return data, nil
}

// FindByOrderNumber implements OrderAPIRepository.
func (r *orderAPIRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (Order, error) {
	url := fmt.Sprintf("%s/orders/%s", r.baseURL, orderNumber)

	var data Order
	if err := r.do(ctx, http.MethodGet, url, nil, &data); err != nil {
		return Order{}, err
	}

	return data, nil
}

// Cancel implements OrderAPIRepository.
func (r *orderAPIRepository) Cancel(ctx context.Context, orderNumber string) error {
	url := fmt.Sprintf("%s/orders/%s/cancel", r.baseURL, orderNumber)

	return r.do(ctx, http.MethodPost, url, nil, nil)
}

func (r *orderAPIRepository) do(ctx context.Context, method, url string, body io.Reader, out interface{}) error {
	hr, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while calling the order service")
	}

	hr.Header.Add("Content-Type", "application/json")
	hr.Header.Add("Accept", "application/json")
	if token, ok := r.session.Token(); ok {
		hr.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	hresp, err := r.hc.Do(hr)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusBadGateway, status.INTERNAL_SERVER_ERROR, "the order service could not be reached")
	}

	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while calling the order service")
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "the order service returned an unreadable response")
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 || !env.Success {
		message := env.Message
		if message == "" {
			message = "the order could not be processed"
		}
		if hresp.StatusCode == http.StatusNotFound {
			return errors.New(http.StatusNotFound, status.NOT_FOUND, message)
		}
		r.logger.WithContext(ctx).WithField("status_code", hresp.StatusCode).Error(message)
		return errors.New(http.StatusBadGateway, status.INTERNAL_SERVER_ERROR, message)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "the order service returned an unreadable response")
		}
	}

	return nil
}
