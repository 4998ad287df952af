package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/cbegin/daw-go/effect"
	"github.com/cbegin/daw-go/frame"
	"github.com/cbegin/daw-go/generator"
	"github.com/cbegin/daw-go/patch"
	"github.com/cbegin/daw-go/synth"
	"github.com/cbegin/daw-go/timing"
)

type preset struct {
	about string
	build func() (patch.Patch, error)
}

// built is a preset ready to play, with the scope watching its output.
type built struct {
	patch patch.Patch
	scope *effect.Oscilloscope
}

var presets = map[string]preset{
	"tone":  {about: "a single enveloped 440 Hz sine", build: tonePreset},
	"drums": {about: "two bars of kick and hi-hat", build: drumsPreset},
	"glide": {about: "a chorused sweep with stutter and drive", build: glidePreset},
}

func sortedPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func presetNames() string { return strings.Join(sortedPresets(), "|") }

func buildPreset(name string, sampleRate int) (built, error) {
	pr, ok := presets[name]
	if !ok {
		return built{}, fmt.Errorf("unknown preset %q (want %s)", name, presetNames())
	}
	p, err := pr.build()
	if err != nil {
		return built{}, fmt.Errorf("preset %s: %w", name, err)
	}
	scope, err := effect.NewOscilloscope(0.05, 1/float64(sampleRate))
	if err != nil {
		return built{}, err
	}
	return built{
		patch: patch.Func(func(t timing.SampleTiming) frame.Frame {
			return scope.Process(t, p.Next(t))
		}),
		scope: scope,
	}, nil
}

// stopAfter ends p once the clock reaches seconds.
func stopAfter(p patch.Patch, seconds float64) patch.Patch {
	return patch.Func(func(t timing.SampleTiming) frame.Frame {
		if t.Clock >= uint64(t.DurationToSampleCount(seconds)) {
			return frame.None()
		}
		return p.Next(t)
	})
}

func peak(points []effect.Point) float64 {
	var m float64
	for _, p := range points {
		for _, v := range p.Frame {
			m = max(m, math.Abs(v))
		}
	}
	return m
}

func tonePreset() (patch.Patch, error) {
	sine, err := generator.NewSine(440)
	if err != nil {
		return nil, err
	}
	env, err := generator.NewADSR(generator.ADSRConfig{Attack: 0.02, Decay: 0.1, SustainLevel: 0.7, Release: 0.4})
	if err != nil {
		return nil, err
	}
	s := synth.New(sine, env)
	s.Volume = 0.5
	s.Play(1)
	return stopAfter(s, env.TotalDuration()), nil
}

func drumsPreset() (patch.Patch, error) {
	const (
		beat = 0.5
		bars = 2
	)
	kickOsc, err := generator.NewTriangle(120)
	if err != nil {
		return nil, err
	}
	kickEnv, err := generator.NewADSR(generator.ADSRConfig{Attack: 0.002, Decay: 0.2})
	if err != nil {
		return nil, err
	}
	kick := synth.New(kickOsc, kickEnv)
	kick.Volume = 0.8

	noise, err := generator.NewLFO(9000, 1, generator.WaveSampleHold)
	if err != nil {
		return nil, err
	}
	hatEnv, err := generator.NewADSR(generator.ADSRConfig{Attack: 0.001, Decay: 0.04})
	if err != nil {
		return nil, err
	}
	hat := synth.New(noise, hatEnv)
	hat.Volume = 0.3
	hpf, err := effect.NewFilter(effect.FilterConfig{Kind: effect.HighPass, Cutoff: 3000, Length: 32})
	if err != nil {
		return nil, err
	}
	echo, err := effect.NewDelay(effect.DelayConfig{Seconds: beat / 4, Feedback: 0.3})
	if err != nil {
		return nil, err
	}

	silent := frame.Frame{0}
	sequencer := patch.Func(func(t timing.SampleTiming) frame.Frame {
		beatTicks := uint64(max(1, t.DurationToSampleCount(beat)))
		pos := t.Clock % beatTicks
		if pos == 0 {
			kick.Play(0)
		}
		if pos%max(1, beatTicks/2) == 0 {
			hat.Play(0)
		}
		// Pitch drops from 120 Hz towards 40 Hz after each hit.
		elapsed := float64(pos) / t.SampleRate
		if err := kickOsc.SetFrequency(40 + 80*math.Exp(-elapsed*30)); err != nil {
			return frame.None()
		}
		return silent
	})

	master := patch.NewMaster(sequencer, kick, patch.Pipe(hat, hpf, echo))
	return stopAfter(master, beat*4*bars), nil
}

func glidePreset() (patch.Patch, error) {
	const length = 4.0
	sine, err := generator.NewSine(220)
	if err != nil {
		return nil, err
	}
	vibrato, err := generator.NewLFO(5, 0.01, generator.WaveTriangle)
	if err != nil {
		return nil, err
	}
	voices, err := generator.NewChorus(sine, 11, 23)
	if err != nil {
		return nil, err
	}
	stutter, err := effect.NewLag(effect.LagConfig{
		StartChance:          0.0004,
		StopChance:           0.003,
		BufferLength:         0.06,
		BufferLengthRandBias: 0.02,
		Source:               rand.NewPCG(7, 11),
	})
	if err != nil {
		return nil, err
	}
	drive := effect.NewDistortion(2.5, 0.5, 5000)

	sweep := generator.Func(func(t timing.SampleTiming) frame.Frame {
		progress := min(t.SampleClock()/length, 1)
		f := 220 * math.Pow(3, progress) * (1 + vibrato.Generate(t)[0])
		if err := sine.SetFrequency(f); err != nil {
			return frame.None()
		}
		return voices.Generate(t)
	})
	return stopAfter(patch.Pipe(sweep, stutter, drive), length), nil
}
