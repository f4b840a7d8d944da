// Package audio plays a short tone when tiles merge.
package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate   = beep.SampleRate(44100)
	toneDuration = 60 * time.Millisecond
	baseFreq     = 660.0
	// maxSteps caps how far the pitch rises for large merges
	maxSteps = 4
)

// Chime plays a tone whose pitch rises with the number of merged tiles
type Chime struct {
	sampleRate beep.SampleRate
	play       func(beep.Streamer)
}

// NewChime opens the speaker. Callers treat an error as "play without sound".
func NewChime() (*Chime, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return newChime(sampleRate, func(s beep.Streamer) { speaker.Play(s) }), nil
}

func newChime(sr beep.SampleRate, play func(beep.Streamer)) *Chime {
	return &Chime{sampleRate: sr, play: play}
}

// Merge plays the tone for count merged tiles
func (c *Chime) Merge(count int) {
	if c == nil || count < 1 {
		return
	}
	tone, err := Tone(c.sampleRate, count)
	if err != nil {
		return
	}
	c.play(tone)
}

// Close releases the speaker
func (c *Chime) Close() {
	if c == nil {
		return
	}
	speaker.Close()
}

// Tone returns a sine tone a major third higher per extra merge
func Tone(sr beep.SampleRate, count int) (beep.Streamer, error) {
	steps := count - 1
	if steps > maxSteps {
		steps = maxSteps
	}
	freq := baseFreq
	for i := 0; i < steps; i++ {
		freq *= 1.25
	}

	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, err
	}
	return beep.Take(sr.N(toneDuration), sine), nil
}
