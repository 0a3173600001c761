package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavClip is a decoded WAV file as planar float64 channels in [-1, 1].
type wavClip struct {
	channels   [][]float64
	sampleRate int
	bitDepth   int
}

func (c *wavClip) frames() int {
	if len(c.channels) == 0 {
		return 0
	}
	return len(c.channels[0])
}

// readWAV decodes a PCM WAV file into planar float64 channels.
func readWAV(path string) (*wavClip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	numChannels := buf.Format.NumChannels
	if numChannels <= 0 {
		return nil, fmt.Errorf("no channels in %s", path)
	}
	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("unsupported bit depth %d in %s", bitDepth, path)
	}

	frames := len(buf.Data) / numChannels
	scale := float64(int64(1) << (bitDepth - 1))

	channels := make([][]float64, numChannels)
	for c := range channels {
		channels[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < numChannels; c++ {
			channels[c][i] = float64(buf.Data[i*numChannels+c]) / scale
		}
	}

	return &wavClip{
		channels:   channels,
		sampleRate: buf.Format.SampleRate,
		bitDepth:   bitDepth,
	}, nil
}

// writeWAV encodes the clip as PCM at its original bit depth.
func writeWAV(path string, clip *wavClip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, clip.sampleRate, clip.bitDepth, len(clip.channels), 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: len(clip.channels),
			SampleRate:  clip.sampleRate,
		},
		Data:           interleave(clip),
		SourceBitDepth: clip.bitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}

	return nil
}

// interleave converts the planar float channels to clamped interleaved PCM.
func interleave(clip *wavClip) []int {
	frames := clip.frames()
	numChannels := len(clip.channels)
	peak := float64(int64(1)<<(clip.bitDepth-1)) - 1

	data := make([]int, frames*numChannels)
	for i := 0; i < frames; i++ {
		for c := 0; c < numChannels; c++ {
			v := clip.channels[c][i]
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			data[i*numChannels+c] = int(math.Round(v * peak))
		}
	}
	return data
}
