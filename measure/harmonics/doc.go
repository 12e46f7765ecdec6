// Package harmonics measures the harmonic content of a real-valued
// signal: fundamental level, per-harmonic levels relative to the
// fundamental, and total harmonic distortion.
//
// It is the measurement companion to the tape saturation stages: an odd
// waveshaper driven by a pure sine produces odd harmonics only, which
// AnalyzeSignal makes directly observable.
package harmonics
