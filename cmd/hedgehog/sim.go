package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/hedgehog/common"
	"github.com/milk9111/hedgehog/ecs/component"
	"github.com/milk9111/hedgehog/flags"
	"github.com/milk9111/hedgehog/game"
	"github.com/milk9111/hedgehog/telemetry"
	"github.com/spf13/cobra"
)

const defaultScript = "R 40, RJ 1, R 30, RJ 1, R 5, J 1, R 60, - 30"

var (
	simScript    string
	simFlagsFile string
	simSkin      string
	simDouble    bool
	simBoost     bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the level headless from a key script and print its events",
	Long: `Run the level headless and print every gameplay event as a JSON line.

A script is a comma separated list of "<keys> <frames>" steps. Keys are any
of L (left), R (right), J (jump) and S (space), or "-" for nothing held.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := parseScript(simScript)
		if err != nil {
			return err
		}
		store := flags.NewStore(flags.Defaults())
		if simFlagsFile != "" {
			if err := flags.NewFileSource(simFlagsFile, store, logger).Load(); err != nil {
				return err
			}
		}
		overrides := []struct {
			flag  string
			key   string
			value any
		}{
			{"skin", flags.KeySkin, simSkin},
			{"double-jump", flags.KeyDoubleJump, simDouble},
			{"speed-boost", flags.KeySpeedBoost, simBoost},
		}
		for _, o := range overrides {
			if !cmd.Flags().Changed(o.flag) {
				continue
			}
			if err := store.Override(o.key, o.value); err != nil {
				return err
			}
		}
		return runSim(cmd.Context(), cmd.OutOrStdout(), store, steps)
	},
}

func init() {
	simCmd.Flags().StringVar(&simScript, "script", defaultScript, "key script to play")
	simCmd.Flags().StringVar(&simFlagsFile, "flags-file", "", "read flags from this YAML or JSON file")
	simCmd.Flags().StringVar(&simSkin, "skin", "default", "override the character skin")
	simCmd.Flags().BoolVar(&simDouble, "double-jump", false, "override the double jump flag")
	simCmd.Flags().BoolVar(&simBoost, "speed-boost", false, "override the speed boost flag")
}

// step holds a key state for a number of frames.
type step struct {
	input  component.Input
	frames int
}

func parseScript(script string) ([]step, error) {
	var steps []step
	for _, raw := range strings.Split(script, ",") {
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("sim: bad step %q: want \"<keys> <frames>\"", strings.TrimSpace(raw))
		}
		frames, err := strconv.Atoi(fields[1])
		if err != nil || frames <= 0 {
			return nil, fmt.Errorf("sim: bad frame count in %q", strings.TrimSpace(raw))
		}
		var in component.Input
		if fields[0] != "-" {
			for _, k := range strings.ToUpper(fields[0]) {
				switch k {
				case 'L':
					in.Left = true
				case 'R':
					in.Right = true
				case 'J':
					in.Jump = true
				case 'S':
					in.Restart = true
				default:
					return nil, fmt.Errorf("sim: unknown key %q in %q", k, strings.TrimSpace(raw))
				}
			}
		}
		steps = append(steps, step{input: in, frames: frames})
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("sim: empty script")
	}
	return steps, nil
}

// runSim plays steps on a fixed clock that advances one frame per tick and
// writes each event to out as it is dispatched.
func runSim(ctx context.Context, out io.Writer, store *flags.Store, steps []step) error {
	if ctx == nil {
		ctx = context.Background()
	}
	loader, err := newLoader(settings)
	if err != nil {
		return err
	}

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	frame := time.Duration(float64(time.Second) * common.FrameDT)

	bus := telemetry.NewBus(telemetry.BusOptions{Logger: logger, Now: now})
	enc := json.NewEncoder(out)
	bus.SubscribeFunc(telemetry.AllEvents, func(evt telemetry.GameplayEvent) error {
		return enc.Encode(evt)
	})

	session := game.NewSession(game.Options{Flags: store, Loader: loader, Bus: bus, Now: now, Logger: logger})
	defer session.Destroy()
	if _, err := session.Start(ctx); err != nil {
		return err
	}

	for _, s := range steps {
		for range s.frames {
			if err := ctx.Err(); err != nil {
				return err
			}
			clock = clock.Add(frame)
			if _, err := session.Tick(s.input); err != nil {
				return err
			}
		}
	}
	logger.Debug("sim finished", "phase", session.Phase())
	return nil
}
