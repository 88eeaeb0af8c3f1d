// README: Entry point; loads config, wires stores, services and handlers, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eats/internal/config"
	httptransport "eats/internal/http"
	"eats/internal/infra"
	"eats/internal/logging"
	"eats/internal/maps"
	"eats/internal/modules/cart"
	"eats/internal/modules/directory"
	"eats/internal/modules/notification"
	"eats/internal/modules/order"
	"eats/internal/modules/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logging.New("eats-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Store)
	db, err := infra.NewMongo(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("mongo init")
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	// Push delivery and road distance are optional; missing credentials
	// just disable those channels.
	var push notification.Pusher
	if cfg.Firebase.ProjectID != "" {
		fcm, err := infra.NewMessaging(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase init")
		}
		push = notification.NewFCMSender(fcm)
	} else {
		log.Warn().Msg("EATS_FIREBASE_PROJECT_ID not set; push delivery disabled")
	}

	var routes pricing.RouteDistancer
	if cfg.Pricing.MapsAPIKey != "" {
		routeSvc, err := maps.NewRouteService(cfg.Pricing.MapsAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("maps init")
		}
		routes = routeSvc
	}

	dirStore := directory.NewMongoStore(db, cfg.Timeouts.Store)
	dirSvc := directory.NewService(dirStore, directory.NewRedisCache(redisClient, cfg.Timeouts.Cache), log)

	feeEngine := pricing.NewEngine(routes, log)

	cartStore := cart.NewMongoStore(db, cfg.Timeouts.Store)
	cartSvc := cart.NewService(cartStore, cart.NewRedisCache(redisClient, cfg.Timeouts.Cache), dirSvc, feeEngine, log)

	registry := notification.NewRegistry()
	notifStore := notification.NewMongoStore(db, cfg.Timeouts.Store)
	notifSvc := notification.NewService(notifStore, dirSvc, push, registry, cfg.Timeouts.Notify, log)

	orderStore := order.NewMongoStore(db, cfg.Timeouts.Store)
	orderSvc := order.NewService(orderStore, cartSvc, dirSvc, notifSvc, log)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Cart:          cartSvc,
		Order:         orderSvc,
		Directory:     dirSvc,
		Notifications: notifSvc,
		Registry:      registry,
		Pricing:       cfg.Pricing,
		Log:           log,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server")
	}
}
