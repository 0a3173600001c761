package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

// play renders the clip to the default audio device as 16-bit PCM and
// blocks until playback finishes.
func play(clip *wavClip) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   clip.sampleRate,
		ChannelCount: len(clip.channels),
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(bytes.NewReader(pcm16LE(clip)))
	defer player.Close()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	return nil
}

// pcm16LE converts the planar float channels to interleaved little-endian
// 16-bit PCM bytes.
func pcm16LE(clip *wavClip) []byte {
	frames := clip.frames()
	numChannels := len(clip.channels)

	out := make([]byte, 0, frames*numChannels*2)
	for i := 0; i < frames; i++ {
		for c := 0; c < numChannels; c++ {
			v := clip.channels[c][i]
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			out = binary.LittleEndian.AppendUint16(out, uint16(int16(math.Round(v*32767))))
		}
	}
	return out
}
