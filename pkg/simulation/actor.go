package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// defaultAskTimeout bounds a request when the caller's context carries no deadline.
const defaultAskTimeout = 30 * time.Second

// ControllerFactory builds the controllers for a fresh agent population under cfg.
type ControllerFactory func(cfg *Config) ([]Controller, error)

// WorldActor is the single pipeline driver. It owns the World and handles one message at a time:
//   - *wrapperspb.UInt32Value runs that many ticks and replies with the clock (zero only reads it)
//   - *structpb.Struct resets the world from a configuration document and replies with the clock
//
// A rejected command is answered with a *wrapperspb.StringValue carrying the reason.
type WorldActor struct {
	world      *World
	factory    ControllerFactory
	snapshotCh chan<- *Snapshot
	log        *zap.Logger

	// --- Benchmark Stats ---
	ticks       int
	lastLogTime time.Time
}

// NewWorldActor wraps world. Snapshots are pushed to snapshotCh after every tick and reset
// without ever blocking the actor; a nil channel disables them.
func NewWorldActor(world *World, factory ControllerFactory, snapshotCh chan<- *Snapshot, log *zap.Logger) *WorldActor {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorldActor{
		world:       world,
		factory:     factory,
		snapshotCh:  snapshotCh,
		log:         log,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	if w.world == nil {
		return fmt.Errorf("world actor started without a world")
	}
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		w.log.Info("world actor started",
			zap.Int("agents", w.world.NumAgents()),
			zap.Int("items", w.world.NumItems()))
		w.pushSnapshot()

	case *wrapperspb.UInt32Value:
		for range msg.GetValue() {
			if err := w.world.Tick(); err != nil {
				w.log.Warn("tick rejected", zap.Error(err))
				ctx.Response(wrapperspb.String(err.Error()))
				return
			}
			w.ticks++
			w.logBenchmarks()
			w.pushSnapshot()
		}
		ctx.Response(wrapperspb.UInt64(w.world.Clock()))

	case *structpb.Struct:
		if err := w.reset(msg); err != nil {
			w.log.Warn("reset rejected", zap.Error(err))
			ctx.Response(wrapperspb.String(err.Error()))
			return
		}
		w.pushSnapshot()
		ctx.Response(wrapperspb.UInt64(w.world.Clock()))

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) reset(doc *structpb.Struct) error {
	if w.factory == nil {
		return fmt.Errorf("world actor has no controller factory")
	}
	data, err := protojson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode reset document: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return err
	}
	controllers, err := w.factory(cfg)
	if err != nil {
		return fmt.Errorf("failed to build controllers: %w", err)
	}
	if err := w.world.Reset(cfg, controllers); err != nil {
		return err
	}
	w.log.Info("world reset", zap.Uint64("seed", cfg.Seed), zap.Int("agents", len(controllers)))
	return nil
}

func (w *WorldActor) logBenchmarks() {
	if time.Since(w.lastLogTime) >= time.Second {
		w.log.Info("tick rate",
			zap.Int("ticksPerSec", w.ticks),
			zap.Uint64("clock", w.world.Clock()),
			zap.Int("items", w.world.NumItems()),
			zap.Int("agents", w.world.NumAgents()))
		w.ticks = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.world.Snapshot():
	default:
		// reader busy, skip frame
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	w.log.Info("world actor stopped", zap.Uint64("clock", w.world.Clock()))
	return nil
}

// Step asks the world actor to run n ticks and returns the clock afterwards.
// Step with n == 0 only reads the clock.
func Step(ctx context.Context, pid *actor.PID, n uint32) (uint64, error) {
	reply, err := ask(ctx, pid, wrapperspb.UInt32(n))
	if err != nil {
		return 0, fmt.Errorf("step %d: %w", n, err)
	}
	return reply, nil
}

// ResetWorld asks the world actor to rebuild the world under cfg.
// Integer fields travel as JSON numbers, so seeds above 2^53 lose precision.
func ResetWorld(ctx context.Context, pid *actor.PID, cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	doc := &structpb.Struct{}
	if err := protojson.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to convert config: %w", err)
	}
	if _, err := ask(ctx, pid, doc); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

func ask(ctx context.Context, pid *actor.PID, msg proto.Message) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := defaultAskTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if timeout = time.Until(deadline); timeout <= 0 {
			return 0, context.DeadlineExceeded
		}
	}
	reply, err := actor.Ask(ctx, pid, msg, timeout)
	if err != nil {
		return 0, err
	}
	switch r := reply.(type) {
	case *wrapperspb.UInt64Value:
		return r.GetValue(), nil
	case *wrapperspb.StringValue:
		return 0, fmt.Errorf("%w: %s", ErrRejected, r.GetValue())
	default:
		return 0, fmt.Errorf("unexpected reply %T", reply)
	}
}
