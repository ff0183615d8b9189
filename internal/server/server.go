package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/berfenger/heatnet/internal/config"
	"github.com/berfenger/heatnet/internal/core/port"

	"github.com/asynkron/protoactor-go/actor"
	_ "github.com/joho/godotenv/autoload"
)

type Server struct {
	port           uint
	httpLog        bool
	requestTimeout time.Duration
	rootContext    *actor.RootContext
	masterActor    *actor.PID
	loader         port.AssetGraphLoader
	metrics        http.Handler
}

func NewServer(cfg config.Config, rootContext *actor.RootContext, masterActor *actor.PID, loader port.AssetGraphLoader, metrics http.Handler) *http.Server {
	NewServer := newServer(cfg, rootContext, masterActor, loader, metrics)

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: NewServer.requestTimeout + 5*time.Second,
	}

	return server
}

func newServer(cfg config.Config, rootContext *actor.RootContext, masterActor *actor.PID, loader port.AssetGraphLoader, metrics http.Handler) *Server {
	conversionTimeout := time.Duration(cfg.Network.ConversionTimeoutMillis) * time.Millisecond
	if conversionTimeout == 0 {
		conversionTimeout = 30 * time.Second
	}
	// a conversion may wait for the one in progress
	requestTimeout := 2*conversionTimeout + time.Second
	return &Server{
		port:           cfg.Port,
		rootContext:    rootContext,
		masterActor:    masterActor,
		httpLog:        cfg.HttpLog,
		requestTimeout: requestTimeout,
		loader:         loader,
		metrics:        metrics,
	}
}
