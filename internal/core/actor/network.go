package actor

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/berfenger/heatnet/internal/config"
	"github.com/berfenger/heatnet/internal/core/domain"
	"github.com/berfenger/heatnet/internal/core/port"
	"github.com/berfenger/heatnet/internal/core/service"
	. "github.com/berfenger/heatnet/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

// NetworkActor owns every conversion. Conversions run one at a time in a
// background task; requests arriving meanwhile are stashed.
type NetworkActor struct {
	config    *config.Config
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler
	trigger   *quartz.CronTrigger

	service     *service.ConversionService
	loader      port.AssetGraphLoader
	eventStream *eventstream.EventStream
	reports     map[string]domain.NetworkReport

	logger *zap.Logger
}

type reloadTick struct {
}

// conversionJob is one unit of background work: either a graph already in
// memory or a list of configured documents.
type conversionJob struct {
	graph *domain.AssetGraph
	files []networkFile
}

type networkFile struct {
	name string
	path string
}

type conversionResult struct {
	replyTo *actor.PID
	reload  bool
	reports []domain.NetworkReport
}

func NewNetworkActor(config *config.Config, srv *service.ConversionService, loader port.AssetGraphLoader, eventStream *eventstream.EventStream, logger *zap.Logger) *NetworkActor {
	act := &NetworkActor{
		config:      config,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		service:     srv,
		loader:      loader,
		eventStream: eventStream,
		reports:     map[string]domain.NetworkReport{},
		logger:      ActorLogger(domain.ACTOR_ID_NETWORK, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *NetworkActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *NetworkActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("network@starting started")

		state.scheduler = scheduler.NewTimerScheduler(ctx)
		if state.config.Network.ReloadCron != "" {
			trigger, err := quartz.NewCronTrigger(state.config.Network.ReloadCron)
			if err != nil {
				panic(fmt.Errorf("invalid reload cron expression: %w", err))
			}
			state.trigger = trigger
			state.scheduleReload(ctx)
		}

		// convert configured networks once on boot
		if len(state.config.Network.Files) > 0 {
			ctx.Send(ctx.Self(), reloadTick{})
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
	default:
		state.logger.Debug("network@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *NetworkActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("network@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_NETWORK,
			Healthy: true,
			State:   "idle",
		})
	case domain.ConvertNetworkRequest:
		state.logger.Debug("network@default ConvertNetworkRequest", zap.String("network", msg.Name))
		replyTo := ForRequest(msg).ReplyTo(ctx)
		job, err := state.jobFor(msg)
		if err != nil {
			state.logger.Warn("network@default rejected conversion", zap.String("network", msg.Name), zap.Error(err))
			ForRequest(msg).Respond(ctx, domain.ConvertNetworkResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{ResponseError: err},
				Report:             domain.FailedReport(msg.Name, err),
			})
			return
		}
		state.startConversion(ctx, job, replyTo, false)
	case domain.ReloadNetworksRequest:
		state.logger.Debug("network@default ReloadNetworksRequest")
		state.startConversion(ctx, conversionJob{files: state.configuredFiles()}, ForRequest(msg).ReplyTo(ctx), true)
	case reloadTick:
		state.logger.Debug("network@default reload tick")
		state.startConversion(ctx, conversionJob{files: state.configuredFiles()}, nil, true)
		state.scheduleReload(ctx)
	case domain.GetNetworkReportRequest:
		state.logger.Debug("network@default GetNetworkReportRequest", zap.String("network", msg.Name))
		resp := domain.GetNetworkReportResponse{}
		if name, ok := state.resolveName(msg.Name); ok {
			if report, ok := state.reports[name]; ok {
				resp.Report = &report
			}
		}
		if resp.Report == nil {
			resp.ResponseError = fmt.Errorf("%w: %s", domain.ErrUnknownNetwork, msg.Name)
		}
		ForRequest(msg).Respond(ctx, resp)
	case domain.ListNetworksRequest:
		state.logger.Debug("network@default ListNetworksRequest")
		ForRequest(msg).Respond(ctx, domain.ListNetworksResponse{Names: state.names()})
	default:
		state.logger.Debug("network@default unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *NetworkActor) ConvertingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_NETWORK,
			Healthy: true,
			State:   "converting",
		})
	case conversionResult:
		state.logger.Debug("network@converting result", zap.Int("reports", len(msg.reports)))
		for _, report := range msg.reports {
			state.reports[report.Name] = report
			state.publish(report)
		}
		if msg.replyTo != nil {
			if msg.reload {
				ctx.Send(msg.replyTo, domain.ReloadNetworksResponse{Reports: msg.reports})
			} else if len(msg.reports) == 1 {
				ctx.Send(msg.replyTo, domain.ConvertNetworkResponse{Report: msg.reports[0]})
			}
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("network@converting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *NetworkActor) startConversion(ctx actor.Context, job conversionJob, replyTo *actor.PID, reload bool) {
	names := job.names()
	NewBackgroundTask(ctx, func() (*conversionResult, error) {
		return &conversionResult{
			replyTo: replyTo,
			reload:  reload,
			reports: state.run(job),
		}, nil
	}).WithTimeout(state.timeout()).Recover(func(err error) conversionResult {
		state.logger.Error("network@converting conversion aborted", zap.Strings("networks", names), zap.Error(err))
		err = fmt.Errorf("conversion aborted: %w", err)
		reports := make([]domain.NetworkReport, 0, len(names))
		for _, name := range names {
			reports = append(reports, domain.FailedReport(name, err))
		}
		return conversionResult{replyTo: replyTo, reload: reload, reports: reports}
	}).PipeTo(ctx.Self())
	state.behavior.BecomeStacked(state.ConvertingReceive)
}

// run converts every graph of job. It runs outside the actor and only
// touches the service and the loader.
func (state *NetworkActor) run(job conversionJob) []domain.NetworkReport {
	if job.graph != nil {
		_, report, _ := state.service.Convert(job.graph)
		return []domain.NetworkReport{report}
	}
	reports := make([]domain.NetworkReport, 0, len(job.files))
	for _, f := range job.files {
		_, report, _ := state.service.ConvertFile(state.loader, f.name, f.path)
		reports = append(reports, report)
	}
	return reports
}

func (state *NetworkActor) jobFor(req domain.ConvertNetworkRequest) (conversionJob, error) {
	if req.Graph != nil {
		if req.Name != "" {
			req.Graph.Name = req.Name
		}
		if req.Graph.Name == "" {
			return conversionJob{}, errors.New("network has no name")
		}
		return conversionJob{graph: req.Graph}, nil
	}
	name, ok := state.resolveName(req.Name)
	if !ok {
		return conversionJob{}, fmt.Errorf("%w: %s", domain.ErrUnknownNetwork, req.Name)
	}
	path, ok := state.config.Network.Files[name]
	if !ok {
		return conversionJob{}, fmt.Errorf("%w: %s has no configured document", domain.ErrUnknownNetwork, req.Name)
	}
	return conversionJob{files: []networkFile{{name: name, path: path}}}, nil
}

// resolveName matches a network name or its sensor key against configured
// and already converted networks.
func (state *NetworkActor) resolveName(nameOrKey string) (string, bool) {
	key := domain.SensorKey(nameOrKey)
	for _, name := range state.names() {
		if name == nameOrKey || domain.SensorKey(name) == key {
			return name, true
		}
	}
	return "", false
}

func (state *NetworkActor) names() []string {
	names := make([]string, 0, len(state.config.Network.Files)+len(state.reports))
	for name := range state.config.Network.Files {
		names = append(names, name)
	}
	for name := range state.reports {
		if _, ok := state.config.Network.Files[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func (state *NetworkActor) configuredFiles() []networkFile {
	files := make([]networkFile, 0, len(state.config.Network.Files))
	for name, path := range state.config.Network.Files {
		files = append(files, networkFile{name: name, path: path})
	}
	slices.SortFunc(files, func(a, b networkFile) int {
		return cmp.Compare(a.name, b.name)
	})
	return files
}

func (state *NetworkActor) publish(report domain.NetworkReport) {
	if state.eventStream == nil {
		return
	}
	state.eventStream.Publish(domain.NetworkConvertedEvent{Report: report})
	for _, ev := range domain.NetworkReportToUpdateEvents(report) {
		state.eventStream.Publish(ev)
	}
}

// scheduleReload requests the next reload tick at the next fire time of
// the cron trigger.
func (state *NetworkActor) scheduleReload(ctx actor.Context) {
	if state.trigger == nil {
		return
	}
	now := time.Now().UnixNano()
	next, err := state.trigger.NextFireTime(now)
	if err != nil {
		state.logger.Error("network@reload could not compute next fire time", zap.Error(err))
		return
	}
	state.logger.Debug("network@reload scheduled", zap.Time("at", time.Unix(0, next)))
	state.scheduler.RequestOnce(time.Duration(next-now), ctx.Self(), reloadTick{})
}

func (state *NetworkActor) timeout() time.Duration {
	if state.config.Network.ConversionTimeoutMillis == 0 {
		return 30 * time.Second
	}
	return time.Duration(state.config.Network.ConversionTimeoutMillis) * time.Millisecond
}

func (j conversionJob) names() []string {
	if j.graph != nil {
		return []string{j.graph.Name}
	}
	names := make([]string, 0, len(j.files))
	for _, f := range j.files {
		names = append(names, f.name)
	}
	return names
}
