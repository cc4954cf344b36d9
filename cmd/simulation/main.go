package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lao-tseu-is-alive/go-arena-simulation/internal/feed"
	"github.com/lao-tseu-is-alive/go-arena-simulation/internal/logging"
	"github.com/lao-tseu-is-alive/go-arena-simulation/pkg/brain"
	"github.com/lao-tseu-is-alive/go-arena-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type options struct {
	configFile string
	agents     int
	brainKind  string
	steps      uint64
	batch      uint
	interval   time.Duration
	listen     string
	load       string
	save       string
	learn      bool
	logLevel   string
}

func main() {
	var opts options
	flag.StringVar(&opts.configFile, "config", "", "JSON or YAML world configuration (defaults when empty)")
	flag.IntVar(&opts.agents, "agents", 1, "number of agents; the first one learns, the others mirror it")
	flag.StringVar(&opts.brainKind, "brain", "qlearn", "decision module: qlearn or random")
	flag.Uint64Var(&opts.steps, "steps", 10000, "ticks to run, 0 runs until interrupted")
	flag.UintVar(&opts.batch, "batch", 10, "ticks per step request")
	flag.DurationVar(&opts.interval, "interval", 0, "pause between step requests")
	flag.StringVar(&opts.listen, "listen", "", "address serving the websocket snapshot feed on /ws")
	flag.StringVar(&opts.load, "load", "", "file to load trained parameters from")
	flag.StringVar(&opts.save, "save", "", "file to save trained parameters to on exit")
	flag.BoolVar(&opts.learn, "learn", true, "train the decision module; off by default when -load is given")
	flag.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	flag.Parse()

	learnSet := false
	flag.Visit(func(f *flag.Flag) { learnSet = learnSet || f.Name == "learn" })
	opts.learn = learningEnabled(opts.learn, learnSet, opts.load)

	logger, err := logging.New(opts.logLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(opts, logger); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
}

// learningEnabled resolves the -learn flag. Loaded parameters are evaluated greedily unless
// learning was asked for explicitly.
func learningEnabled(learn, explicit bool, load string) bool {
	if load != "" && !explicit {
		return false
	}
	return learn
}

// population builds the controllers for a world and remembers the learning owner.
type population struct {
	opts  options
	owner simulation.Brain
}

func (p *population) controllers(cfg *simulation.Config) ([]simulation.Controller, error) {
	if p.opts.agents < 0 {
		return nil, fmt.Errorf("agent count must not be negative, got %d", p.opts.agents)
	}
	inputs := len(cfg.EyeAngles) * simulation.NumSensedCategories
	out := make([]simulation.Controller, 0, p.opts.agents)

	switch p.opts.brainKind {
	case "random":
		for i := range p.opts.agents {
			out = append(out, simulation.Owns(brain.NewRandom(len(cfg.Actions), cfg.Seed+uint64(i))))
		}
		p.owner = nil
	case "qlearn":
		if p.opts.agents == 0 {
			return out, nil
		}
		owner := brain.NewQLearner(inputs, len(cfg.Actions), brain.WithSeed(cfg.Seed))
		if p.opts.load != "" {
			data, err := os.ReadFile(p.opts.load)
			if err != nil {
				return nil, fmt.Errorf("failed to read parameters: %w", err)
			}
			if err := owner.Deserialize(data); err != nil {
				return nil, fmt.Errorf("failed to load parameters from %s: %w", p.opts.load, err)
			}
		}
		owner.SetLearning(p.opts.learn)
		out = append(out, simulation.Owns(owner))
		for i := 1; i < p.opts.agents; i++ {
			replica := brain.NewQLearner(inputs, len(cfg.Actions), brain.WithSeed(cfg.Seed+uint64(i)))
			replica.SetLearning(p.opts.learn)
			c, err := simulation.Mirrors(owner, replica)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		p.owner = owner
	default:
		return nil, fmt.Errorf("unknown brain %q", p.opts.brainKind)
	}
	return out, nil
}

func run(opts options, logger *zap.Logger) error {
	cfg := simulation.DefaultConfig()
	if opts.configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(opts.configFile); err != nil {
			return err
		}
	}

	pop := &population{opts: opts}
	controllers, err := pop.controllers(cfg)
	if err != nil {
		return err
	}
	world, err := simulation.NewWorld(cfg, controllers, simulation.WithLogger(logger.Named("world")))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	system, err := actor.NewActorSystem("ArenaWorld",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return err
	}
	if err := system.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = system.Stop(context.Background()) }()

	var snapshotCh chan *simulation.Snapshot
	if opts.listen != "" {
		snapshotCh = make(chan *simulation.Snapshot, 10) // Buffer to avoid blocking
	}
	worldActor := simulation.NewWorldActor(world, pop.controllers, snapshotCh, logger.Named("actor"))
	pid, err := system.Spawn(ctx, "world", worldActor)
	if err != nil {
		return fmt.Errorf("failed to spawn world: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return drive(ctx, pid, opts, logger)
	})

	if snapshotCh != nil {
		hub := feed.NewHub(logger.Named("feed"))
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srv := &http.Server{Addr: opts.listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error { return hub.Run(ctx, snapshotCh) })
		g.Go(func() error {
			logger.Info("snapshot feed listening", zap.String("addr", opts.listen))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	clock, err := simulation.Step(context.Background(), pid, 0)
	if err != nil {
		return err
	}
	logger.Info("simulation finished", zap.Uint64("clock", clock))

	if opts.save != "" {
		return saveParameters(pop.owner, opts.save, logger)
	}
	return nil
}

// drive requests batches of ticks from the world actor until the budget is spent or ctx ends.
func drive(ctx context.Context, pid *actor.PID, opts options, logger *zap.Logger) error {
	var done uint64
	for opts.steps == 0 || done < opts.steps {
		n := uint64(opts.batch)
		if n == 0 {
			n = 1
		}
		if opts.steps > 0 && opts.steps-done < n {
			n = opts.steps - done
		}
		clock, err := simulation.Step(ctx, pid, uint32(n))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		done += n
		logger.Debug("batch done", zap.Uint64("clock", clock))

		if opts.interval > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(opts.interval):
			}
		} else if ctx.Err() != nil {
			return nil
		}
	}
	return nil
}

func saveParameters(b simulation.Brain, path string, logger *zap.Logger) error {
	p, ok := b.(simulation.Persister)
	if !ok {
		logger.Warn("decision module has no parameters to save")
		return nil
	}
	data, err := p.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize parameters: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save parameters: %w", err)
	}
	logger.Info("parameters saved", zap.String("path", path))
	return nil
}
