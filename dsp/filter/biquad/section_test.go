package biquad

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tape/dsp/core"
)

// tolerance for floating-point comparisons.
const eps = 1e-12

// passthrough returns coefficients for a unity gain passthrough (B0=1, all else 0).
func passthrough() Coefficients {
	return Coefficients{B0: 1}
}

func TestNewSection(t *testing.T) {
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}
	s := NewSection(c)
	if s.Coefficients != c {
		t.Fatalf("coefficients mismatch: got %v, want %v", s.Coefficients, c)
	}
	st := s.State()
	if st != [2]float64{0, 0} {
		t.Fatalf("initial state not zero: %v", st)
	}
}

func TestProcessSample_Passthrough(t *testing.T) {
	s := NewSection(passthrough())
	input := []float64{1, 0, -1, 0.5, 0.25}
	for i, x := range input {
		y := s.ProcessSample(x)
		if !core.NearlyEqual(y, x, eps) {
			t.Errorf("sample %d: got %v, want %v", i, y, x)
		}
	}
}

func TestProcessSample_DFIIT(t *testing.T) {
	// Hand-traced DF-II-T with specific coefficients:
	// B0=0.25, B1=0.5, B2=0.25, A1=-0.2, A2=0.04
	//
	// Step through with x = [1, 0, 0, 0]:
	//
	// n=0: y=0.25*1+0 = 0.25
	//      d0=0.5*1-(-0.2)*0.25+0 = 0.5+0.05 = 0.55
	//      d1=0.25*1-0.04*0.25 = 0.25-0.01 = 0.24
	//
	// n=1: y=0.25*0+0.55 = 0.55
	//      d0=0.5*0-(-0.2)*0.55+0.24 = 0.11+0.24 = 0.35
	//      d1=0.25*0-0.04*0.55 = -0.022
	//
	// n=2: y=0.25*0+0.35 = 0.35
	//      d0=0.5*0-(-0.2)*0.35+(-0.022) = 0.07-0.022 = 0.048
	//      d1=0.25*0-0.04*0.35 = -0.014
	//
	// n=3: y=0.25*0+0.048 = 0.048

	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	s := NewSection(c)

	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i, w := range want {
		var x float64
		if i == 0 {
			x = 1
		}
		y := s.ProcessSample(x)
		if !core.NearlyEqual(y, w, eps) {
			t.Errorf("sample %d: got %.15f, want %.15f", i, y, w)
		}
	}
}

func TestProcessBlock_MatchesSample(t *testing.T) {
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}

	ref := NewSection(c)
	blk := NewSection(c)

	input := make([]float64, 257)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * float64(i) / 37)
	}

	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = ref.ProcessSample(x)
	}

	got := append([]float64(nil), input...)
	blk.ProcessBlock(got)

	for i := range got {
		if !core.NearlyEqual(got[i], want[i], eps) {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if ref.State() != blk.State() {
		t.Fatalf("state mismatch: got %v, want %v", blk.State(), ref.State())
	}
}

func TestSetCoefficientsPreservesState(t *testing.T) {
	s := NewSection(Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04})
	s.ProcessSample(1)
	s.ProcessSample(-0.5)

	before := s.State()
	s.SetCoefficients(Coefficients{B0: 0.5, B2: -0.5, A1: -0.1, A2: 0.2})
	if s.State() != before {
		t.Fatalf("SetCoefficients changed state: got %v, want %v", s.State(), before)
	}
}

func TestResetAndStateRoundTrip(t *testing.T) {
	s := NewSection(Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04})

	s.ProcessSample(1)
	s.ProcessSample(0.5)
	saved := s.State()
	if saved == [2]float64{0, 0} {
		t.Fatal("expected nonzero state after processing")
	}

	next := s.ProcessSample(0.25)

	s.SetState(saved)
	replay := s.ProcessSample(0.25)
	if !core.NearlyEqual(replay, next, eps) {
		t.Fatalf("state round trip mismatch: got %v, want %v", replay, next)
	}

	s.Reset()
	if s.State() != [2]float64{0, 0} {
		t.Fatalf("state not cleared after Reset: %v", s.State())
	}
}
