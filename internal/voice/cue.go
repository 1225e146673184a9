package voice

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const cueSampleRate = beep.SampleRate(44100)

// Cue is a short sound played before listening starts
type Cue interface {
	Play(ctx context.Context) error
}

// Tone is a sine beep played on the default output device
type Tone struct {
	Freq     float64
	Duration time.Duration
	Volume   float64
}

// DefaultTone is the listening cue
var DefaultTone = Tone{Freq: 880, Duration: 150 * time.Millisecond, Volume: 0.3}

var (
	speakerOnce sync.Once
	speakerErr  error
)

// Play blocks until the tone has finished or ctx ends
func (t Tone) Play(ctx context.Context) error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(cueSampleRate, cueSampleRate.N(time.Second/20))
	})
	if speakerErr != nil {
		return speakerErr
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(t.streamer(cueSampleRate), beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

// streamer returns the finite tone at sample rate sr
func (t Tone) streamer(sr beep.SampleRate) beep.Streamer {
	step := 2 * math.Pi * t.Freq / float64(sr)
	var phase float64

	sine := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := t.Volume * math.Sin(phase)
			samples[i][0], samples[i][1] = v, v
			phase += step
		}
		return len(samples), true
	})
	return beep.Take(sr.N(t.Duration), sine)
}
