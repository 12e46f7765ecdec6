// Package biquad provides a biquad (second-order IIR) filter runtime.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. The tape head-bump
// resonator embeds one Section per processing phase, sharing coefficients
// while keeping delay state private.
//
// This package provides the processing runtime only; coefficient
// derivation lives with the consumers.
package biquad
