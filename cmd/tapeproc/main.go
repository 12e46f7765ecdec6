// Command tapeproc runs a WAV file through the tape saturation effect.
//
// Usage:
//
//	tapeproc -in input.wav -out output.wav [flags]
//
// Multi-channel files are processed with one independent effect instance
// per channel.
//
// Examples:
//
//	tapeproc -in drums.wav -out drums-tape.wav
//	tapeproc -in mix.wav -out mix-tape.wav -gain 3 -bump 0.08
//	tapeproc -in mix.wav -out mix-tape.wav -block 256
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-vecmath"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-tape/dsp/core"
	"github.com/cwbudde/algo-tape/dsp/tape"
)

func main() {
	inPath := flag.String("in", "", "input WAV path")
	outPath := flag.String("out", "", "output WAV path")
	gainDB := flag.Float64("gain", 0, "input gain in dB")
	bump := flag.Float64("bump", 0.05, "head bump amount in [0, 1]")
	blockSize := flag.Int("block", 1024, "processing block size in samples")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tapeproc -in input.wav -out output.wav [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a WAV file through the tape saturation effect.\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *blockSize <= 0 {
		fmt.Fprintln(os.Stderr, "tapeproc: block size must be > 0")
		os.Exit(2)
	}

	if err := run(*inPath, *outPath, *gainDB, *bump, *blockSize); err != nil {
		fmt.Fprintf(os.Stderr, "tapeproc: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, gainDB, bump float64, blockSize int) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		return fmt.Errorf("%s is not a valid WAV file", inPath)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("decode %s: %w", inPath, err)
	}

	channels := buf.Format.NumChannels
	sampleRate := buf.Format.SampleRate
	bitDepth := int(dec.BitDepth)
	frames := len(buf.Data) / channels
	fullScale := float64(int(1) << (bitDepth - 1))

	gain := core.DBToLinear(gainDB)

	procs := make([]*tape.Processor, channels)
	for ch := range procs {
		procs[ch], err = tape.NewProcessor(float64(sampleRate),
			tape.WithInputGain(gain),
			tape.WithHeadBumpAmount(bump),
		)
		if err != nil {
			return err
		}
	}

	var scratch []float64
	var inPeak, outPeak float64

	for ch := 0; ch < channels; ch++ {
		scratch = core.EnsureLen(scratch, frames)
		for i := 0; i < frames; i++ {
			scratch[i] = float64(buf.Data[i*channels+ch]) / fullScale
		}

		if p := vecmath.MaxAbs(scratch); p > inPeak {
			inPeak = p
		}

		for off := 0; off < frames; off += blockSize {
			end := off + blockSize
			if end > frames {
				end = frames
			}
			procs[ch].ProcessInPlace(scratch[off:end])
		}

		if p := vecmath.MaxAbs(scratch); p > outPeak {
			outPeak = p
		}

		for i := 0; i < frames; i++ {
			v := core.Clamp(scratch[i]*fullScale, -fullScale, fullScale-1)
			buf.Data[i*channels+ch] = int(v)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := wav.NewEncoder(out, sampleRate, bitDepth, channels, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode %s: %w", outPath, err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	printSummary(os.Stdout, buf, bitDepth, frames, inPeak, outPeak)

	return nil
}

func printSummary(w *os.File, buf *audio.IntBuffer, bitDepth, frames int, inPeak, outPeak float64) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "channels\t%d\n", buf.Format.NumChannels)
	fmt.Fprintf(tw, "sample rate\t%d Hz\n", buf.Format.SampleRate)
	fmt.Fprintf(tw, "bit depth\t%d\n", bitDepth)
	fmt.Fprintf(tw, "duration\t%.2f s\n", float64(frames)/float64(buf.Format.SampleRate))
	fmt.Fprintf(tw, "input peak\t%.2f dBFS\n", core.LinearToDB(inPeak))
	fmt.Fprintf(tw, "output peak\t%.2f dBFS\n", core.LinearToDB(outPeak))
	tw.Flush()
}
