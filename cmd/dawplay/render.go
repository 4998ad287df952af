package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cbegin/daw-go"
)

func newRenderCmd(root *rootOptions) *cobra.Command {
	var (
		presetName string
		outPath    string
		seconds    float64
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a preset to a 16-bit WAV file",
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
			samples, err := daw.Render(pr.patch, cfg.SampleRate, cfg.Channels, seconds)
			if err != nil {
				return err
			}
			for i := range samples {
				samples[i] *= float32(cfg.Volume)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := daw.WriteWAV(f, samples, cfg.SampleRate, cfg.Channels); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			frames := len(samples) / cfg.Channels
			logger.Info("rendered", "preset", presetName, "frames", frames, "out", outPath)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%.2fs)\n", outPath, float64(frames)/float64(cfg.SampleRate))
			return nil
		},
	}
	cmd.Flags().StringVarP(&presetName, "preset", "p", "tone", "preset to render: "+presetNames())
	cmd.Flags().StringVarP(&outPath, "out", "o", "out.wav", "output WAV path")
	cmd.Flags().Float64Var(&seconds, "seconds", 10, "maximum length; presets that end sooner are not padded")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range sortedPresets() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s\n", name, presets[name].about)
			}
		},
	}
}
