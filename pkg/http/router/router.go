package router

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/raden-ps/penaltyx/pkg/http/router/controllers"
)

type Config struct {
	Port    int
	Timeout time.Duration
}

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

func (api *API) Run(
	ctx context.Context,
	config Config,
	log *zap.Logger,
	useRateLimit bool,
	routingService controllers.RoutingService,
) error {
	log.Info("run httprouter API")

	router := httprouter.New()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	group := NewRouteGroup(router, "/api")
	routes := controllers.New(routingService, log)
	routes.Routes(group)

	mwChain := []alice.Constructor{corsHandler.Handler, api.recoverPanic, RealIP, Heartbeat("healthz"), Logger(log)}
	if useRateLimit {
		mwChain = append(mwChain, Limit)
	}
	mainMwChain := alice.New(mwChain...).Then(router)

	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", "30s")
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", "30s")
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", "60s")
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", "10s")

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: mainMwChain,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
		ReadTimeout:       viper.GetDuration("HTTP_SERVER_READ_TIMEOUT"),
		WriteTimeout:      config.Timeout + viper.GetDuration("HTTP_SERVER_WRITE_TIMEOUT"),
		IdleTimeout:       viper.GetDuration("HTTP_SERVER_IDLE_TIMEOUT"),
		ReadHeaderTimeout: viper.GetDuration("HTTP_SERVER_READ_HEADER_TIMEOUT"),
	}

	log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		log.Info("HTTP server stopped", zap.Error(err))
		return err
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
		_ = srv.Shutdown(context.Background())
		return ctx.Err()
	}
}

// RouteGroup registers handlers under a common path prefix.
type RouteGroup struct {
	router *httprouter.Router
	prefix string
}

func NewRouteGroup(router *httprouter.Router, prefix string) *RouteGroup {
	return &RouteGroup{router: router, prefix: prefix}
}

func (g *RouteGroup) GET(path string, handle httprouter.Handle) {
	g.router.GET(g.prefix+path, handle)
}

func (g *RouteGroup) POST(path string, handle httprouter.Handle) {
	g.router.POST(g.prefix+path, handle)
}
