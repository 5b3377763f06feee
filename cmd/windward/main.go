// Command windward runs the sailing world: generates a world from the
// configured seed, steps it at a fixed rate and serves it over HTTP and
// WebSocket.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/talgya/windward/internal/api"
	"github.com/talgya/windward/internal/config"
	"github.com/talgya/windward/internal/gen"
	"github.com/talgya/windward/internal/journal"
	"github.com/talgya/windward/internal/sim"
	"github.com/talgya/windward/internal/units"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "windward.yaml", "path to the YAML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading configuration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded",
		"seed", cfg.Seed,
		"edge_length", cfg.World.EdgeLength,
		"resource_density", cfg.World.ResourceDensity,
	)

	// ── World ─────────────────────────────────────────────────────────
	world, err := gen.Generate(cfg.World, cfg.Seed)
	if err != nil {
		slog.Error("world generation failed", "error", err)
		os.Exit(1)
	}
	world.Init.Dbg = cfg.Debugging
	slog.Info("world generated",
		"harbors", len(world.State.Harbors),
		"resources", len(world.State.Resources),
	)

	// ── Journal ───────────────────────────────────────────────────────
	var jnl *journal.Journal
	var runID int64
	if cfg.JournalPath != "" {
		os.MkdirAll(filepath.Dir(cfg.JournalPath), 0755)
		jnl, err = journal.Open(cfg.JournalPath)
		if err != nil {
			slog.Error("opening journal failed", "error", err)
			os.Exit(1)
		}
		defer jnl.Close()

		runID, err = jnl.BeginRun(&world.Init)
		if err != nil {
			slog.Error("starting journal run failed", "error", err)
			os.Exit(1)
		}
		slog.Info("journal opened", "path", cfg.JournalPath, "run", runID)
	}

	// ── API ───────────────────────────────────────────────────────────
	var mu sync.Mutex // guards world.State between the loop and StatusFn

	hub := api.NewHub()
	go hub.Run()

	server := &api.Server{
		Hub:        hub,
		ListenAddr: cfg.ListenAddr,
		Init:       &world.Init,
		StatusFn: func() api.Status {
			mu.Lock()
			defer mu.Unlock()
			st := &world.State
			return api.Status{
				Tick:      uint64(st.Timestamp),
				WindSpeed: st.Wind.Speed(),
				WindAngle: st.Wind.Angle(),
				Money:     st.Player.Money,
				Cargo:     st.Player.Vehicle.ResourceWeight,
			}
		},
	}
	server.Start()

	// ── Loop ──────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	const tickDuration = time.Second / units.TicksPerSecond

	// maxCatchUp caps how much simulated time a single frame may replay, so
	// a long stall does not spiral into an ever-growing backlog.
	const maxCatchUp = time.Second

	ticker := time.NewTicker(tickDuration)
	defer ticker.Stop()

	const broadcastEvery = units.TicksPerSecond / 10 // 10 Hz snapshot feed
	snapshotEvery := uint64(cfg.SnapshotEverySecs) * units.TicksPerSecond

	var input sim.Input
	var acc time.Duration
	last := time.Now()
	slog.Info("simulation running", "addr", cfg.ListenAddr)

	for {
		select {
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			if jnl != nil {
				mu.Lock()
				if err := jnl.RecordSnapshot(runID, &world.State); err != nil {
					slog.Error("final snapshot failed", "error", err)
				}
				mu.Unlock()
			}
			return

		case now := <-ticker.C:
			// Latest input wins; stale frames are superseded.
			for {
				select {
				case input = <-hub.Inputs:
					continue
				default:
				}
				break
			}

			// Accumulate elapsed wall time and run zero or more fixed-size
			// updates until the backlog is paid off.
			acc += now.Sub(last)
			last = now
			if acc > maxCatchUp {
				acc = maxCatchUp
			}

			mu.Lock()
			for acc >= tickDuration {
				acc -= tickDuration

				events := world.State.Update(&world.Init, &input)
				tick := uint64(world.State.Timestamp)

				if jnl != nil {
					if err := jnl.RecordEvents(runID, world.State.Timestamp, events); err != nil {
						slog.Error("journaling events failed", "error", err)
					}
					if tick%snapshotEvery == 0 {
						if err := jnl.RecordSnapshot(runID, &world.State); err != nil {
							slog.Error("journaling snapshot failed", "error", err)
						}
					}
				}

				if len(events) > 0 {
					broadcast(hub, "events", events)
				}
				if tick%broadcastEvery == 0 {
					broadcast(hub, "snapshot", &world.State)
				}
			}
			mu.Unlock()
		}
	}
}

// broadcast marshals a frame and hands it to the hub.
func broadcast(hub *api.Hub, kind string, payload interface{}) {
	raw, err := json.Marshal(api.Frame{Type: kind, Payload: payload})
	if err != nil {
		slog.Error("marshaling frame failed", "type", kind, "error", err)
		return
	}
	hub.Broadcast <- raw
}
