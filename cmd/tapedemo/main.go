// Command tapedemo plays a sine tone through the tape saturation effect.
//
// Usage:
//
//	tapedemo [flags]
//
// Examples:
//
//	tapedemo
//	tapedemo -freq 110 -gain 6 -bump 0.1
//	tapedemo -rate 44100 -dur 2s
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-tape/dsp/core"
	"github.com/cwbudde/algo-tape/dsp/tape"
)

func main() {
	freq := flag.Float64("freq", 220, "tone frequency in Hz")
	rate := flag.Int("rate", 48000, "sample rate in Hz")
	dur := flag.Duration("dur", 5*time.Second, "playback duration")
	gainDB := flag.Float64("gain", 0, "input gain in dB")
	bump := flag.Float64("bump", 0.05, "head bump amount in [0, 1]")
	amp := flag.Float64("amp", 0.8, "tone amplitude in [0, 1]")
	flag.Parse()

	if err := run(*freq, *rate, *dur, *gainDB, *bump, *amp); err != nil {
		fmt.Fprintf(os.Stderr, "tapedemo: %v\n", err)
		os.Exit(1)
	}
}

func run(freq float64, rate int, dur time.Duration, gainDB, bump, amp float64) error {
	proc, err := tape.NewProcessor(float64(rate),
		tape.WithInputGain(core.DBToLinear(gainDB)),
		tape.WithHeadBumpAmount(bump),
	)
	if err != nil {
		return err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return err
	}
	<-ready

	src := &toneSource{
		proc:      proc,
		rate:      float64(rate),
		freq:      freq,
		amp:       amp,
		remaining: int(float64(rate) * dur.Seconds()),
	}

	player := ctx.NewPlayer(src)
	player.Play()

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	return player.Close()
}

// toneSource streams a processed sine tone as float32 LE samples.
type toneSource struct {
	proc      *tape.Processor
	rate      float64
	freq      float64
	amp       float64
	phase     float64
	remaining int
	scratch   []float64
}

func (s *toneSource) Read(p []byte) (int, error) {
	if s.remaining <= 0 {
		return 0, io.EOF
	}

	n := len(p) / 4
	if n > s.remaining {
		n = s.remaining
	}
	if n == 0 {
		return 0, nil
	}

	s.scratch = core.EnsureLen(s.scratch, n)

	step := 2 * math.Pi * s.freq / s.rate
	for i := range s.scratch {
		s.scratch[i] = s.amp * math.Sin(s.phase)
		s.phase += step
		if s.phase >= 2*math.Pi {
			s.phase -= 2 * math.Pi
		}
	}

	s.proc.ProcessInPlace(s.scratch)

	for i, v := range s.scratch {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(float32(v)))
	}

	s.remaining -= n

	return n * 4, nil
}
