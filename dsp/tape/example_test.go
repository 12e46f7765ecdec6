package tape_test

import (
	"fmt"

	"github.com/cwbudde/algo-tape/dsp/tape"
)

func ExampleProcessor_ProcessInPlace() {
	p, err := tape.NewProcessor(48000,
		tape.WithInputGain(1.5),
		tape.WithHeadBumpAmount(0.05),
	)
	if err != nil {
		panic(err)
	}

	buf := []float64{0.1, 0.3, 0.5, 0.3, -0.1, -0.4}
	p.ProcessInPlace(buf)
	fmt.Println(len(buf))
	// Output: 6
}

func ExampleSaturate() {
	// The spiral waveshaper is near-identity for small inputs and
	// saturates smoothly toward full scale.
	fmt.Printf("%.4f\n", tape.Saturate(0.01))
	fmt.Printf("%.4f\n", tape.Saturate(1.2))
	// Output:
	// 0.0100
	// 0.8262
}
