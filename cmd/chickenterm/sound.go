package main

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// sounds plays short tones for hits. The zero value is muted.
type sounds struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	enabled bool
}

func newSounds(mute bool) (*sounds, error) {
	s := &sounds{}
	if mute {
		return s, nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return s, err
	}
	s.mixer = &beep.Mixer{}
	speaker.Play(s.mixer)
	s.enabled = true
	return s, nil
}

// bossHit is a short high blip
func (s *sounds) bossHit() {
	s.tone(880, 60*time.Millisecond)
}

// playerHit is a longer low thud
func (s *sounds) playerHit() {
	s.tone(196, 180*time.Millisecond)
}

func (s *sounds) tone(freq float64, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	speaker.Lock()
	s.mixer.Add(beep.Take(sampleRate.N(d), &toneGenerator{sr: sampleRate, freq: freq, total: sampleRate.N(d)}))
	speaker.Unlock()
}

func (s *sounds) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.enabled = false
}

// toneGenerator is a sine wave with a linear fade-out
type toneGenerator struct {
	sr    beep.SampleRate
	freq  float64
	pos   int
	total int
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		amp := 0.2
		if g.total > 0 {
			amp *= 1 - float64(g.pos)/float64(g.total)
		}
		v := amp * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *toneGenerator) Err() error {
	return nil
}
