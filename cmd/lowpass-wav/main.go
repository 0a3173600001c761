// Command lowpass-wav runs WAV audio through the low-pass filter engine.
//
// Usage:
//
//	lowpass-wav filter -c 800 input.wav output.wav
//	lowpass-wav filter -c 800 --sweep-rate 0.5 --sweep-depth 2 in.wav out.wav
//	lowpass-wav filter -c 800 --play input.wav
//	lowpass-wav response -c 800 -r 3
package main

import (
	"fmt"
	"log"
	"math"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-lowpass/dsp/engine"
	"github.com/cwbudde/algo-lowpass/dsp/modulation"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Filter   FilterCmd        `cmd:"" default:"withargs" help:"Filter a WAV file."`
	Response ResponseCmd      `cmd:"" help:"Print the magnitude response of a filter setting."`
	Version  kong.VersionFlag `short:"V" help:"Show version information."`
}

// FilterCmd renders a WAV file through the kernel, optionally sweeping the
// cutoff with a low-frequency oscillator and playing the result.
type FilterCmd struct {
	Input  string `arg:"" type:"existingfile" help:"Input WAV file."`
	Output string `arg:"" optional:"" help:"Output WAV file (omit with --play)."`

	Cutoff    float64 `short:"c" default:"400" help:"Cutoff frequency in Hz."`
	Resonance float64 `short:"r" default:"20" help:"Resonance in dB."`
	Bypass    bool    `help:"Pass audio through unfiltered."`
	Block     int     `default:"512" help:"Render block size in frames."`

	SweepRate  float64 `default:"0" help:"Cutoff sweep rate in Hz (0 disables the sweep)."`
	SweepDepth float64 `default:"1" help:"Sweep depth in octaves around the cutoff."`
	SweepShape string  `default:"sine" enum:"sine,triangle,square,sawtooth" help:"Sweep waveform."`

	Play    bool `help:"Play the result on the default audio device."`
	Verbose bool `short:"v" help:"Verbose output."`
}

// ResponseCmd prints the filter's magnitude response on a logarithmic
// frequency grid.
type ResponseCmd struct {
	Cutoff     float64 `short:"c" default:"400" help:"Cutoff frequency in Hz."`
	Resonance  float64 `short:"r" default:"20" help:"Resonance in dB."`
	SampleRate float64 `default:"44100" help:"Sample rate the filter runs at."`
	Low        float64 `default:"20" help:"Lowest query frequency in Hz."`
	High       float64 `default:"20000" help:"Highest query frequency in Hz."`
	Points     int     `default:"32" help:"Number of query frequencies."`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("lowpass-wav"),
		kong.Description("Low-pass filter for WAV files with sample-accurate parameter ramping."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(ctx.Run())
}

// Run filters the input file block by block.
func (cmd *FilterCmd) Run() error {
	if cmd.Output == "" && !cmd.Play {
		return fmt.Errorf("either an output file or --play is required")
	}
	if cmd.Block <= 0 {
		return fmt.Errorf("block size must be > 0: %d", cmd.Block)
	}

	clip, err := readWAV(cmd.Input)
	if err != nil {
		return err
	}

	if cmd.Verbose {
		log.Printf("input: %d Hz, %d channels, %d-bit, %d frames",
			clip.sampleRate, len(clip.channels), clip.bitDepth, clip.frames())
	}

	kernel, err := engine.NewKernel(
		engine.WithCutoff(cmd.Cutoff),
		engine.WithResonance(cmd.Resonance),
	)
	if err != nil {
		return err
	}
	if err := kernel.Configure(float64(clip.sampleRate), len(clip.channels), cmd.Block); err != nil {
		return err
	}
	kernel.SetBypass(cmd.Bypass)

	sweep, err := cmd.newSweep(clip.sampleRate)
	if err != nil {
		return err
	}

	if err := cmd.render(kernel, sweep, clip); err != nil {
		return err
	}

	if cmd.Output != "" {
		if err := writeWAV(cmd.Output, clip); err != nil {
			return err
		}
		if cmd.Verbose {
			log.Printf("wrote %s", cmd.Output)
		}
	}

	if cmd.Play {
		if cmd.Verbose {
			log.Printf("playing %d frames", clip.frames())
		}
		return play(clip)
	}

	return nil
}

// newSweep builds the cutoff modulator, or returns nil when no sweep was
// requested. The oscillator ticks once per render block.
func (cmd *FilterCmd) newSweep(sampleRate int) (*modulation.LFO, error) {
	if cmd.SweepRate <= 0 {
		return nil, nil
	}

	shape, err := modulation.ParseWaveform(cmd.SweepShape)
	if err != nil {
		return nil, err
	}

	lfo, err := modulation.NewLFO(shape, 256)
	if err != nil {
		return nil, err
	}

	blockRate := float64(sampleRate) / float64(cmd.Block)
	if err := lfo.Start(blockRate, cmd.SweepRate); err != nil {
		return nil, fmt.Errorf("sweep rate: %w", err)
	}

	return lfo, nil
}

// render processes the clip in place, one block at a time. With a sweep
// active, each block gets one cutoff event ramped across the whole block,
// so the cutoff glides between the per-block oscillator samples.
func (cmd *FilterCmd) render(kernel *engine.Kernel, sweep *modulation.LFO, clip *wavClip) error {
	frames := clip.frames()
	views := make([][]float64, len(clip.channels))
	var events [1]engine.Event

	for off := 0; off < frames; off += cmd.Block {
		n := cmd.Block
		if off+n > frames {
			n = frames - off
		}

		for c, ch := range clip.channels {
			views[c] = ch[off : off+n]
		}

		blockEvents := events[:0]
		if sweep != nil {
			swept := cmd.Cutoff * math.Exp2(cmd.SweepDepth*sweep.Tick())
			events[0] = engine.Event{
				Kind:         engine.EventParameter,
				Param:        engine.ParamCutoff,
				Value:        swept,
				RampDuration: n,
			}
			blockEvents = events[:1]
		}

		if err := kernel.Render(views, views, n, blockEvents); err != nil {
			return err
		}
	}

	return nil
}

// Run prints a magnitude table for the requested filter setting.
func (cmd *ResponseCmd) Run() error {
	if cmd.Points < 2 {
		return fmt.Errorf("points must be >= 2: %d", cmd.Points)
	}
	if cmd.Low <= 0 || cmd.High <= cmd.Low {
		return fmt.Errorf("invalid frequency range [%g, %g]", cmd.Low, cmd.High)
	}

	kernel, err := engine.NewKernel(
		engine.WithCutoff(cmd.Cutoff),
		engine.WithResonance(cmd.Resonance),
	)
	if err != nil {
		return err
	}
	if err := kernel.Configure(cmd.SampleRate, engine.DefaultChannelCount, engine.DefaultMaxFrames); err != nil {
		return err
	}

	freqs := engine.ResponseFrequencies(cmd.Points, cmd.Low, cmd.High)
	mags := kernel.Controls().QueryMagnitudes(freqs)

	fmt.Printf("# cutoff %g Hz, resonance %g dB, sample rate %g Hz\n",
		cmd.Cutoff, cmd.Resonance, cmd.SampleRate)
	for i, f := range freqs {
		db := 20 * math.Log10(mags[i])
		fmt.Printf("%10.2f Hz  %12.6f  %+8.2f dB\n", f, mags[i], db)
	}

	return nil
}
