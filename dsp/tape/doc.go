// Package tape provides an analog magnetic-tape saturation effect.
//
// A [Processor] colors a mono audio stream with tape-style nonlinear
// saturation, a low-frequency "head bump" resonance, and asymptotic soft
// limiting. Two time-interleaved filter banks alternate sample-by-sample
// so that no single filter's transient response imposes a fixed
// coloration. Processing is single-threaded, allocation-free after
// construction, and deterministic given the prior state and input.
//
// The host owns the Processor lifetime: construct once per channel, call
// SetSampleRate whenever the processing rate changes, and feed blocks of
// arbitrary length through ProcessInPlace or ProcessBlockTo.
package tape
