package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	adactor "github.com/berfenger/heatnet/internal/adapter/actor"
	"github.com/berfenger/heatnet/internal/config"
	"github.com/berfenger/heatnet/internal/core/actor"
	"github.com/berfenger/heatnet/internal/core/service"
	"github.com/berfenger/heatnet/internal/esdl"
	"github.com/berfenger/heatnet/internal/metrics"
	"github.com/berfenger/heatnet/internal/server"
	"github.com/berfenger/heatnet/internal/util/actorutil"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {

	// load and print config
	cfg, err := initConfig()
	if err != nil {
		slog.Error("config errors", "error", err)
		os.Exit(1)
	}
	safePrintConfig(*cfg)

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())
	defer logger.Sync()

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	ctx := as.Root

	registry := metrics.NewRegistry()
	loader := esdl.NewLoader(logger)
	srv, err := conversionService(cfg, registry, logger)
	if err != nil {
		logger.Fatal("could not create conversion service", zap.Error(err))
	}

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg, networkActorProvider(cfg, srv, loader, logger), mqttActorProvider(cfg, logger), logger)
	})
	pid, err := ctx.SpawnNamed(props, "master")
	if err != nil {
		logger.Fatal("could not spawn master actor", zap.Error(err))
	}

	server := server.NewServer(*cfg, ctx, pid, loader, registry.Handler())
	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(server, done)

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")

	ctx.Stop(pid)
	as.Shutdown()
}

func initConfig() (*config.Config, error) {

	// alias PORT => HEATNET_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("HEATNET_PORT", port)
	}

	setConfigDefaults()

	viper.SetEnvPrefix("heatnet")
	// mqtt.host => HEATNET_MQTT_HOST
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			viper.SetConfigFile(cfgFile)

			err = viper.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	var cfg config.Config

	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = config.ParseLogLevel(viper.GetString("log_level"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func conversionService(cfg *config.Config, registry *metrics.Registry, logger *zap.Logger) (*service.ConversionService, error) {
	formulation, err := cfg.Network.FormulationOrDefault()
	if err != nil {
		return nil, err
	}
	builder := service.NewNetworkBuilder(cfg.Network.RetryLoopLimit, formulation, logger)
	builder.RequireReturnPairs = cfg.Network.RequireReturnPairs
	converter := service.NewHeatConverter(cfg.Network.EstimatedVelocity, logger)
	return service.NewConversionService(builder, converter, registry, logger), nil
}

func networkActorProvider(cfg *config.Config, srv *service.ConversionService, loader *esdl.Loader, logger *zap.Logger) actor.NetworkActorProvider {
	return func(es *eventstream.EventStream) *actor.NetworkActor {
		return actor.NewNetworkActor(cfg, srv, loader, es, logger)
	}
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	if !cfg.MQTT.Enable {
		return nil
	}
	return func(es *eventstream.EventStream) *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, es, logger)
	}
}

func setConfigDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("mqtt.enable", false)
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.ha_discovery_enable", false)
	viper.SetDefault("mqtt.base_topic", "heatnet")
	viper.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	viper.SetDefault("network.retry_loop_limit", service.DEFAULT_RETRY_LOOP_LIMIT)
	viper.SetDefault("network.formulation", "heat")
	viper.SetDefault("network.reload_cron", "")
	viper.SetDefault("network.conversion_timeout_millis", 30000)
	viper.SetDefault("network.estimated_velocity", service.DEFAULT_ESTIMATED_VELOCITY)
	viper.SetDefault("network.require_return_pairs", false)
	viper.SetDefault("port", 8080)
}

func safePrintConfig(cfg config.Config) {
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	slog.Info("Using", "config", cfg)
}
