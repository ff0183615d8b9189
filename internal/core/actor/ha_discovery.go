package actor

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/berfenger/heatnet/internal/config"
	"github.com/berfenger/heatnet/internal/core/domain"
	"github.com/berfenger/heatnet/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

type HADiscoveryActor struct {
	config         *config.Config
	behavior       actor.Behavior
	stash          *actorutil.Stash
	mqttActor      *actor.PID
	eventStream    *eventstream.EventStream
	eventStreamSub *eventstream.Subscription
	bridgeDevice   domain.Device
	announced      map[string]bool

	logger *zap.Logger
}

type networkConverted struct {
	name string
}

func NewHADiscoveryActor(config *config.Config, mqttActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:      config,
		mqttActor:   mqttActor,
		eventStream: eventStream,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		announced:   map[string]bool{},
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		state.bridgeDevice = domain.BridgeDevice(state.config.MQTT.BaseTopic)

		// learn about networks converted on demand
		if state.eventStream != nil {
			state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
				if ev, ok := value.(domain.NetworkConvertedEvent); ok {
					ctx.Send(ctx.Self(), networkConverted{name: ev.Report.Name})
				}
			})
		}

		// MQTT Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		if !msg.Healthy {
			panic(errors.New("MQTT Actor is not healthy"))
		}

		configured := make([]string, 0, len(state.config.Network.Files))
		for name := range state.config.Network.Files {
			configured = append(configured, name)
		}
		slices.Sort(configured)

		sensors := domain.BridgeSensors(state.bridgeDevice)
		var buttons []domain.GenericButton
		for _, name := range configured {
			s, b := state.networkEntities(name)
			sensors = append(sensors, s...)
			buttons = append(buttons, b...)
		}

		ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
			Sensors: sensors,
			Buttons: buttons,
		})
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.unsubscribe()
	default:
		state.logger.Debug("hadiscovery@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case networkConverted:
		if state.announced[msg.name] {
			return
		}
		state.logger.Debug("hadiscovery@default announcing network", zap.String("network", msg.name))
		sensors, buttons := state.networkEntities(msg.name)
		ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
			Sensors: sensors,
			Buttons: buttons,
		})
	case *actor.Stopping:
		state.unsubscribe()
	default:
		state.logger.Debug("hadiscovery@default unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// networkEntities marks name as announced and returns its entities.
func (state *HADiscoveryActor) networkEntities(name string) ([]domain.GenericSensor, []domain.GenericButton) {
	state.announced[name] = true
	dev := domain.NetworkDevice(state.bridgeDevice, name)
	sensors := domain.NetworkSensors(dev, name)
	for i := range sensors {
		if i > 0 {
			sensors[i].Device = domain.IdDevice(dev)
		}
	}
	buttons := domain.NetworkButtons(domain.IdDevice(dev), name)
	return sensors, buttons
}

func (state *HADiscoveryActor) unsubscribe() {
	if state.eventStreamSub != nil {
		state.eventStream.Unsubscribe(state.eventStreamSub)
		state.eventStreamSub = nil
	}
}
