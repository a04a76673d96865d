package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fcsgo/fcs/internal/config"
	"github.com/fcsgo/fcs/internal/core/ecs"
	"github.com/fcsgo/fcs/internal/core/event"
	coresys "github.com/fcsgo/fcs/internal/core/system"
	"github.com/fcsgo/fcs/internal/culling"
	"github.com/fcsgo/fcs/internal/data"
	"github.com/fcsgo/fcs/internal/persist"
	"github.com/fcsgo/fcs/internal/scene"
	"github.com/fcsgo/fcs/internal/scripting"
	"github.com/fcsgo/fcs/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            fcs  v0.1.0                    \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      incremental frustum culling          \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mrun:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/fcs.toml"
	if p := os.Getenv("FCS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Loop.Name)

	// 3. Optional transition journal
	var journal *persist.JournalRepo
	if cfg.Database.Enabled {
		printSection("database")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")

		journal = persist.NewJournalRepo(db)
		runID, err := journal.StartRun(ctx, cfg.Loop.Name)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		printStat("journal run", int(runID))
		fmt.Println()
	}

	// 4. Scene
	printSection("scene")
	sceneDef, err := data.LoadScene(cfg.Scene.Path)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	ecsWorld := ecs.NewWorld()
	bus := event.NewBus()
	scn := scene.New(ecsWorld, cfg.Culling.BoundsMargin, log)

	var lua *scripting.Engine
	if cfg.Scripting.Enabled {
		lua, err = scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer lua.Close()
		if hook := lua.BoundsHook(); hook != nil {
			scn.AddBoundsHook(hook)
		}
		lua.Subscribe(bus)
		printStat("lua scripts", lua.Loaded())
	}

	spawned, err := scn.Load(sceneDef)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	printStat("cameras", len(scn.Cameras()))
	printStat("objects", spawned)
	printStat("spawners", len(sceneDef.Spawners))
	fmt.Println()

	// 5. Culling controller
	mode, err := culling.ParseViewpointMode(cfg.Culling.ViewpointMode)
	if err != nil {
		return fmt.Errorf("culling: %w", err)
	}
	var explicit culling.Viewpoint
	if cfg.Culling.ExplicitViewpoint != "" {
		cam := scn.Camera(cfg.Culling.ExplicitViewpoint)
		if cam == nil {
			return fmt.Errorf("culling: explicit viewpoint %q: %w", cfg.Culling.ExplicitViewpoint, scene.ErrUnknownCamera)
		}
		explicit = cam
	}
	ctrl := culling.NewController(culling.Options{
		RefreshInterval: cfg.Culling.RefreshInterval,
		InitialCapacity: cfg.Culling.InitialCapacity,
		MaxCapacity:     cfg.Culling.MaxCapacity,
		Workers:         cfg.Culling.Workers,
		Mode:            mode,
		Explicit:        explicit,
	}, scn, bus, log)
	if err := scn.Bind(ctrl); err != nil {
		return fmt.Errorf("register scene: %w", err)
	}

	// 6. Create systems and register with runner
	runner := coresys.NewRunner()
	movers := system.NewMoverSystem(ecsWorld, log)
	for _, od := range sceneDef.Objects {
		if o, ok := scn.Lookup(od.Name); ok {
			movers.AddFromDef(o, od)
		}
	}
	orbits := system.NewOrbitSystem()
	for _, cd := range sceneDef.Cameras {
		if cd.Orbit == nil {
			continue
		}
		orbits.Add(scn.Camera(cd.Name), cd.Orbit.Center, cd.Orbit.Radius, cd.Orbit.Height, cd.Orbit.Speed)
	}
	spawners := system.NewSpawnerSystem(scn, movers, log)
	for _, sd := range sceneDef.Spawners {
		spawners.Add(sd)
	}

	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(movers)
	runner.Register(orbits)
	runner.Register(spawners)
	runner.Register(system.NewTrackingSystem(scn, ctrl))
	runner.Register(ctrl)
	var journalSys *system.JournalSystem
	if journal != nil {
		flushTicks := int(cfg.Database.FlushInterval / cfg.Loop.TickRate)
		journalSys = system.NewJournalSystem(bus, journal, log, flushTicks, cfg.Database.BatchSize)
		runner.Register(journalSys)
	}
	runner.Register(system.NewCleanupSystem(ecsWorld, log))

	// 7. Metrics endpoint
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if cfg.Metrics.Enabled {
		runner.Observe(observePhase)
		go serveMetrics(ctx, cfg.Metrics.BindAddress, log)
	}

	// 8. Start tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("viewpoint mode %s, refresh every %d tick(s)", mode, max(cfg.Culling.RefreshInterval, 1)))
	printReady(fmt.Sprintf("tick loop started (tick: %s, workers: %d)", cfg.Loop.TickRate, ctrl.Workers()))
	if cfg.Metrics.Enabled {
		printReady(fmt.Sprintf("metrics on http://%s/metrics", cfg.Metrics.BindAddress))
	}
	fmt.Println()

	statsEvery := int(5 * time.Second / cfg.Loop.TickRate)
	shutdown := func(reason string) error {
		log.Info("shutting down", zap.String("reason", reason))
		// Show everything again and let the journal see it.
		ctrl.Disable()
		runner.TickPhase(coresys.PhaseEvents, 0)
		if journalSys != nil {
			journalSys.Flush()
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := journal.StopRun(stopCtx); err != nil {
				log.Error("journal stop failed", zap.Error(err))
			}
		}
		log.Info("stopped",
			zap.Uint64("ticks", runner.Ticks()),
			zap.Uint64("cycles", ctrl.Cycles()))
		return nil
	}

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Loop.TickRate)
			if statsEvery > 0 && runner.Ticks()%uint64(statsEvery) == 0 {
				log.Info("culling stats",
					zap.Uint64("cycles", ctrl.Cycles()),
					zap.Int("registered", ctrl.Count()),
					zap.Int("visible", ctrl.Visible()))
			}
			if cfg.Loop.MaxTicks > 0 && runner.Ticks() >= uint64(cfg.Loop.MaxTicks) {
				return shutdown("max ticks reached")
			}
		case sig := <-shutdownCh:
			return shutdown(sig.String())
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
