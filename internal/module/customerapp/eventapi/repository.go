package eventapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ali25developer/Kartcis-sub000/pkg/errors"
	"github.com/ali25developer/Kartcis-sub000/pkg/status"
)

type EventRepository interface {
	FindByID(ctx context.Context, ID string) (Event, error)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type eventRepository struct {
	baseURL string
	logger  *logrus.Logger
	hc      *http.Client
}

func NewEventRepository(baseURL string, logger *logrus.Logger, hc *http.Client) EventRepository {
	return &eventRepository{
		baseURL: baseURL,
		logger:  logger,
		hc:      hc,
	}
}

// FindByID implements EventRepository.
func (r *eventRepository) FindByID(ctx context.Context, ID string) (Event, error) {
	url := fmt.Sprintf("%s/events/%s", r.baseURL, ID)

	hr, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Event{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting event's properties")
	}

	hr.Header.Add("Accept", "application/json")

	hresp, err := r.hc.Do(hr)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Event{}, errors.New(http.StatusBadGateway, status.INTERNAL_SERVER_ERROR, "the event catalog could not be reached")
	}

	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Event{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting event's properties")
	}

	if hresp.StatusCode == http.StatusNotFound {
		return Event{}, errors.New(http.StatusNotFound, status.NOT_FOUND, fmt.Sprintf("event with id '%s' is not found", ID))
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Event{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "the event catalog returned an unreadable response")
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 || !env.Success {
		return Event{}, errors.New(http.StatusBadGateway, status.INTERNAL_SERVER_ERROR, "an error occurred while getting event's properties")
	}

	var data Event
	if err := json.Unmarshal(env.Data, &data); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Event{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "the event catalog returned an unreadable response")
	}

	return data, nil
}
