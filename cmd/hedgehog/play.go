package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/hedgehog/common"
	"github.com/milk9111/hedgehog/game"
	"github.com/milk9111/hedgehog/prefabs"
	"github.com/milk9111/hedgehog/telemetry"
	"github.com/spf13/cobra"
)

var (
	playFlagsURL   string
	playFlagsFile  string
	playEventsAddr string
	playAssetsDir  string
	watchPrefabs   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the game window",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings
		if cmd.Flags().Changed("flags-url") {
			s.FlagsURL = playFlagsURL
		}
		if cmd.Flags().Changed("flags-file") {
			s.FlagsFile = playFlagsFile
		}
		if cmd.Flags().Changed("events-addr") {
			s.EventsAddr = playEventsAddr
		}
		if cmd.Flags().Changed("assets") {
			s.AssetsDir = playAssetsDir
		}
		settings = s
		return runPlay(cmd.Context())
	},
}

func init() {
	playCmd.Flags().StringVar(&playFlagsURL, "flags-url", "", "poll this flag endpoint (wins over --flags-file)")
	playCmd.Flags().StringVar(&playFlagsFile, "flags-file", "", "read flags from this YAML or JSON file and follow edits")
	playCmd.Flags().StringVar(&playEventsAddr, "events-addr", "", "serve the live event websocket on this address")
	playCmd.Flags().StringVar(&playAssetsDir, "assets", "", "directory holding sprite sheets; placeholders fill the gaps")
	playCmd.Flags().BoolVar(&watchPrefabs, "watch-prefabs", false, "reapply player.yaml edits to the running level")
}

func runPlay(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, distinctID := startFlags(ctx, settings, logger)
	loader, err := newLoader(settings)
	if err != nil {
		return err
	}

	bus := telemetry.NewBus(telemetry.BusOptions{Logger: logger})
	out, err := attachSinks(ctx, bus, settings, distinctID, logger)
	if err != nil {
		return err
	}
	defer out.Close()
	// Runs before out.Close so the collector sees the context end first.
	defer cancel()

	session := game.NewSession(game.Options{
		Flags:  store,
		Loader: loader,
		Bus:    bus,
		Logger: logger,
	})
	defer session.Destroy()
	if _, err := session.Start(ctx); err != nil {
		return fmt.Errorf("start game: %w", err)
	}

	var watcher *prefabs.Watcher
	if watchPrefabs {
		watcher, err = prefabs.NewWatcher(prefabs.Dir())
		if err != nil {
			logger.Warn("prefab watch disabled", "dir", prefabs.Dir(), "error", err)
		} else {
			defer watcher.Close()
		}
	}

	ebiten.SetWindowSize(common.ScreenWidth, common.ScreenHeight)
	ebiten.SetWindowTitle("hedgehog")
	ebiten.SetTPS(common.TPS)

	h := newHost(session, store, out.recorder, watcher, logger)
	return ebiten.RunGame(&quitOnDone{host: h, ctx: ctx})
}

// quitOnDone ends the run loop once ctx is canceled.
type quitOnDone struct {
	*host
	ctx context.Context
}

func (q *quitOnDone) Update() error {
	if q.ctx.Err() != nil {
		return ebiten.Termination
	}
	return q.host.Update()
}
