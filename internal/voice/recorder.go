package voice

import (
	"context"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Capture parameters for speech recognition
const (
	SampleRate = 16000
	frameSize  = 320 // 20ms at 16kHz

	silenceThreshold = 0.015
	trailingSilence  = 600 * time.Millisecond
	frameDuration    = time.Second * frameSize / SampleRate
)

// Recorder captures one utterance as mono float32 PCM at SampleRate
type Recorder interface {
	Record(ctx context.Context, maxDur time.Duration) ([]float32, error)
}

// MicRecorder records from the default input device through portaudio
type MicRecorder struct{}

// NewMicRecorder creates a recorder for the default microphone
func NewMicRecorder() *MicRecorder {
	return &MicRecorder{}
}

// Record captures audio until the speaker falls silent, maxDur passes or ctx ends
func (r *MicRecorder) Record(ctx context.Context, maxDur time.Duration) ([]float32, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	defer portaudio.Terminate()

	buf := make([]float32, frameSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	seg := newSegmenter(maxDur)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stream.Read(); err != nil {
			return nil, err
		}
		if seg.add(buf) {
			break
		}
	}
	return seg.samples(), nil
}

// segmenter collects frames of one utterance. Leading silence is skipped and
// the utterance ends after trailingSilence of quiet or maxFrames.
type segmenter struct {
	out           []float32
	speaking      bool
	silentFrames  int
	frames        int
	maxFrames     int
	silenceFrames int
}

func newSegmenter(maxDur time.Duration) *segmenter {
	if maxDur <= 0 {
		maxDur = 10 * time.Second
	}
	return &segmenter{
		out:           make([]float32, 0, SampleRate*3),
		maxFrames:     int(maxDur / frameDuration),
		silenceFrames: int(trailingSilence / frameDuration),
	}
}

// add appends a frame and reports whether the utterance is complete
func (s *segmenter) add(frame []float32) bool {
	s.frames++

	if frameRMS(frame) > silenceThreshold {
		s.speaking = true
		s.silentFrames = 0
		s.out = append(s.out, frame...)
	} else if s.speaking {
		s.silentFrames++
		if s.silentFrames >= s.silenceFrames {
			return true
		}
		s.out = append(s.out, frame...)
	}

	return s.frames >= s.maxFrames
}

func (s *segmenter) samples() []float32 {
	return s.out
}

func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var sum float64
	for _, x := range f {
		sum += float64(x * x)
	}
	return math.Sqrt(sum / float64(len(f)))
}
