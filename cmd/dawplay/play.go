package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cbegin/daw-go"
)

func newPlayCmd(root *rootOptions) *cobra.Command {
	var (
		presetName string
		seconds    float64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a preset on the audio device",
		Long:  "Plays a preset until it ends by itself, --seconds elapse, or the process is interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load(cmd)
			if err != nil {
				return err
			}
			pr, err := buildPreset(presetName, cfg.SampleRate)
			if err != nil {
				return err
			}
			pl, err := daw.NewPlayer(
				daw.WithSampleRate(cfg.SampleRate),
				daw.WithChannels(cfg.Channels),
				daw.WithBackend(cfg.Backend),
				daw.WithBuffer(cfg.Buffer),
				daw.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			pl.SetMasterVolume(cfg.Volume)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if seconds > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(seconds*float64(time.Second)))
				defer cancel()
			}

			events := pl.Watch()
			if err := pl.Play(ctx, pr.patch); err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				for {
					select {
					case ev := <-events:
						logger.Debug("player event", "kind", ev.Kind.String(), "clock", ev.Clock)
						if ev.Kind == daw.EventPlaybackEnded || ev.Kind == daw.EventStopped {
							return nil
						}
					case <-gctx.Done():
						return nil
					}
				}
			})
			g.Go(func() error {
				// The player reacts to ctx itself; this only waits for the
				// patch to be parked.
				return pl.Wait(context.Background())
			})
			if err := g.Wait(); err != nil {
				return err
			}

			stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if _, err := pl.Stop(stopCtx); err != nil {
				return err
			}
			if pr.scope != nil {
				logger.Info("final window", "peak", peak(pr.scope.Snapshot()))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "played %s for %v\n", presetName, pl.Position().Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&presetName, "preset", "p", "tone", "preset to play: "+presetNames())
	cmd.Flags().Float64Var(&seconds, "seconds", 0, "stop after this many seconds (0 = until the preset ends)")
	return cmd
}
