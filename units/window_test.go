// Copyright © 2023 EcoSwell

package units

import (
	"reflect"
	"testing"
)

func TestCPUWindow(t *testing.T) {
	w := NewCPUWindow(CPUWindowSize, 40)
	if w.Average() != 40 {
		t.Fatalf("initial average: got %f, want 40", w.Average())
	}

	avg := w.Push(50)
	if !floatEquals(avg, 42) {
		t.Errorf("average after one push: got %f, want 42", avg)
	}

	for _, s := range []float64{51, 52, 53, 54} {
		w.Push(s)
	}
	want := []float64{50, 51, 52, 53, 54}
	if !reflect.DeepEqual(w.Samples(), want) {
		t.Errorf("samples: got %v, want %v", w.Samples(), want)
	}
	if !floatEquals(w.Average(), 52) {
		t.Errorf("average: got %f, want 52", w.Average())
	}
}
