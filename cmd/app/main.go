package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/ali25developer/Kartcis-sub000/config"
	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/banner"
	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/cart"
	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/eventapi"
	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/orderapi"
	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/pendingorder"
	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/ticket"
	internalMiddleware "github.com/ali25developer/Kartcis-sub000/internal/pkg/middleware"
	"github.com/ali25developer/Kartcis-sub000/internal/pkg/session"
	"github.com/ali25developer/Kartcis-sub000/pkg/applogger"
	"github.com/ali25developer/Kartcis-sub000/pkg/clock"
	"github.com/ali25developer/Kartcis-sub000/pkg/localstorage"
	"github.com/ali25developer/Kartcis-sub000/pkg/middleware"
	"github.com/ali25developer/Kartcis-sub000/pkg/monitoring"
	"github.com/ali25developer/Kartcis-sub000/pkg/server"
	"github.com/ali25developer/Kartcis-sub000/pkg/validator"
)

var c *config.Config

func init() {
	c = config.Get()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := applogger.GetLogrus()

	mon := monitoring.NewOpenTelemetry(logger, c.Application.Name, c.Application.Environment)
	mon.Start(ctx)

	validate := validator.Get()

	hc := http.DefaultClient

	clk := clock.New()

	var rc *redis.Client

	var storage localstorage.Storage
	switch c.Storage.Driver {
	case "redis":
		rc = redis.NewClient(&redis.Options{
			Addr:     c.Redis.Address,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.WithContext(ctx).WithError(err).Error()
		}
		storage = localstorage.NewRedisStorage(logger, rc, c.Redis.Prefix)
	case "memory":
		storage = localstorage.NewMemoryStorage()
	default:
		storage = localstorage.NewFileStorage(logger, c.Storage.FilePath)
	}

	sessionStore := session.NewLocalSessionStore(logger, storage, clk)

	customerSessionMiddleware := internalMiddleware.NewCustomerSessionMiddleware(sessionStore)

	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(c.Application.Name),
		middleware.HTTPResponseTraceInjection,
		middleware.NewHTTPRequestLogger(logger, c.Application.Debug, http.StatusInternalServerError).Middleware,
	)

	eventRepo := eventapi.NewEventRepository(c.Backend.BaseURL, logger, hc)
	orderAPIRepo := orderapi.NewOrderAPIRepository(c.Backend.BaseURL, logger, hc, sessionStore)

	cartStore := cart.NewStore(logger, storage)
	cartUseCase := cart.NewCartUseCase(cart.CartUseCaseProperty{
		Logger:          logger,
		Timeout:         c.Application.Timeout,
		Store:           cartStore,
		EventRepository: eventRepo,
	})
	cart.InitHTTPHandler(router, validate, cartUseCase)

	ticketStore := ticket.NewStore(logger, storage)
	ticket.InitHTTPHandler(router, customerSessionMiddleware, ticketStore)

	pendingOrderStore := pendingorder.NewStore(logger, storage, clk)
	pendingOrderUseCase := pendingorder.NewPendingOrderUseCase(pendingorder.PendingOrderUseCaseProperty{
		Logger:              logger,
		Timeout:             c.Application.Timeout,
		OrderExpireDuration: c.Order.Expiration,
		Clock:               clk,
		Store:               pendingOrderStore,
		CartUseCase:         cartUseCase,
		TicketStore:         ticketStore,
		Session:             sessionStore,
		OrderAPIRepository:  orderAPIRepo,
	})
	pendingorder.InitHTTPHandler(router, validate, customerSessionMiddleware, pendingOrderUseCase)

	bannerViewModel := banner.NewViewModel(banner.ViewModelProperty{
		Logger:              logger,
		Clock:               clk,
		Store:               pendingOrderStore,
		PendingOrderUseCase: pendingOrderUseCase,
		ReconcileInterval:   c.Order.ReconcileInterval,
	})
	bannerViewModel.Mount(ctx)
	banner.InitHTTPHandler(router, bannerViewModel)

	handler := middleware.SetChain(
		router,
		cors.New(cors.Options{
			AllowedOrigins:   c.CORS.AllowedOrigins,
			AllowedMethods:   c.CORS.AllowedMethods,
			AllowedHeaders:   c.CORS.AllowedHeaders,
			ExposedHeaders:   c.CORS.ExposedHeaders,
			MaxAge:           c.CORS.MaxAge,
			AllowCredentials: c.CORS.AllowCredentials,
		}).Handler,
	)

	srv := &server.Server{
		Server: http.Server{
			Addr:    fmt.Sprintf(":%d", c.Application.Port),
			Handler: handler,
		},
		Logger: logger,
	}

	go func() {
		srv.ListenAndServe()
	}()

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	<-sigterm

	srv.Shutdown(ctx)
	bannerViewModel.Unmount()
	if rc != nil {
		rc.Close()
	}
	mon.Stop(ctx)
}
