package logic

import (
	"errors"
	"testing"
)

func evalOK(t *testing.T, g Gate, inputs []float64, p Params) float64 {
	t.Helper()
	v, err := Eval(g, inputs, p)
	if err != nil {
		t.Fatalf("Eval(%v, %v) returned error: %v", g, inputs, err)
	}
	return v
}

func TestBooleanGates_TwoInputTruthTables(t *testing.T) {
	cases := []struct {
		gate Gate
		want [4]float64 // outputs for (0,0), (0,1), (1,0), (1,1)
	}{
		{GateAND, [4]float64{0, 0, 0, 1}},
		{GateOR, [4]float64{0, 1, 1, 1}},
		{GateNAND, [4]float64{1, 1, 1, 0}},
		{GateNOR, [4]float64{1, 0, 0, 0}},
		{GateXOR, [4]float64{0, 1, 1, 0}},
		{GateXNOR, [4]float64{1, 0, 0, 1}},
		{GateIMPLY, [4]float64{1, 1, 0, 1}},
		{GateNIMPLY, [4]float64{0, 0, 1, 0}},
	}

	combos := [4][2]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	for _, tc := range cases {
		for i, in := range combos {
			got := evalOK(t, tc.gate, in[:], Params{})
			if got != tc.want[i] {
				t.Errorf("%v(%v, %v) = %v, want %v", tc.gate, in[0], in[1], got, tc.want[i])
			}
		}
	}
}

func TestNOT(t *testing.T) {
	if got := evalOK(t, GateNOT, []float64{1}, Params{}); got != 0 {
		t.Errorf("NOT(1) = %v, want 0", got)
	}
	if got := evalOK(t, GateNOT, []float64{0}, Params{}); got != 1 {
		t.Errorf("NOT(0) = %v, want 1", got)
	}
}

func TestXOR_OddParity(t *testing.T) {
	got := evalOK(t, GateXOR, []float64{1, 1, 1}, Params{})
	if got != 1 {
		t.Errorf("XOR(1,1,1) = %v, want 1 (odd parity)", got)
	}
}

func TestThresholdGates(t *testing.T) {
	in := []float64{1, 1, 0, 1, 0} // 3 of 5 true

	if got := evalOK(t, GateMajority, in, Params{}); got != 1 {
		t.Errorf("Majority = %v, want 1", got)
	}
	if got := evalOK(t, GateMinority, in, Params{}); got != 0 {
		t.Errorf("Minority = %v, want 0", got)
	}
	if got := evalOK(t, GateThresholdK, in, Params{K: 3}); got != 1 {
		t.Errorf("Threshold(3) = %v, want 1", got)
	}
	if got := evalOK(t, GateThresholdK, in, Params{K: 4}); got != 0 {
		t.Errorf("Threshold(4) = %v, want 0", got)
	}
	if got := evalOK(t, GateExactlyK, in, Params{K: 3}); got != 1 {
		t.Errorf("Exactly(3) = %v, want 1", got)
	}
	if got := evalOK(t, GateAtMostK, in, Params{K: 2}); got != 0 {
		t.Errorf("AtMost(2) = %v, want 0", got)
	}
}

func TestMUX_SelectsByFirstInput(t *testing.T) {
	got := evalOK(t, GateMUX, []float64{1, 10, 20, 30}, Params{})
	if got != 20 {
		t.Errorf("MUX(sel=1) = %v, want 20", got)
	}

	_, err := Eval(GateMUX, []float64{5, 10, 20}, Params{})
	if err == nil {
		t.Error("expected error for out-of-range selector")
	}
}

func TestEncoderDecoder(t *testing.T) {
	if got := evalOK(t, GateEncoder, []float64{0, 0, 1, 1}, Params{}); got != 2 {
		t.Errorf("Encoder = %v, want 2 (first active index)", got)
	}
	if got := evalOK(t, GateEncoder, []float64{0, 0}, Params{}); got != -1 {
		t.Errorf("Encoder with no active input = %v, want -1", got)
	}
	if got := evalOK(t, GateDecoder, []float64{5}, Params{OutputCount: 4}); got != 1 {
		t.Errorf("Decoder(5 mod 4) = %v, want 1", got)
	}
}

func TestParityAndComparator(t *testing.T) {
	if got := evalOK(t, GateParity, []float64{1, 0, 1, 1}, Params{}); got != 1 {
		t.Errorf("Parity = %v, want 1", got)
	}
	if got := evalOK(t, GateComparator, []float64{2, 5}, Params{}); got != -1 {
		t.Errorf("Comparator(2,5) = %v, want -1", got)
	}
	if got := evalOK(t, GateComparator, []float64{5, 5}, Params{}); got != 0 {
		t.Errorf("Comparator(5,5) = %v, want 0", got)
	}
	if got := evalOK(t, GateComparator, []float64{5, 2}, Params{}); got != 1 {
		t.Errorf("Comparator(5,2) = %v, want 1", got)
	}
}

func TestLukasiewicz(t *testing.T) {
	p := Params{Levels: 3} // values 0..2

	if got := evalOK(t, GateLukasiewiczAND, []float64{1, 2}, p); got != 1 {
		t.Errorf("Luk AND = %v, want 1", got)
	}
	if got := evalOK(t, GateLukasiewiczOR, []float64{1, 2}, p); got != 2 {
		t.Errorf("Luk OR = %v, want 2", got)
	}
	if got := evalOK(t, GateLukasiewiczNOT, []float64{0}, p); got != 2 {
		t.Errorf("Luk NOT(0) = %v, want 2", got)
	}
	// imply: min(maxVal, maxVal - a + b)
	if got := evalOK(t, GateLukasiewiczImply, []float64{2, 1}, p); got != 1 {
		t.Errorf("Luk IMPLY(2,1) = %v, want 1", got)
	}
}

func TestPostCyclicNegation(t *testing.T) {
	p := Params{Levels: 4}
	if got := evalOK(t, GatePostNegation, []float64{3}, p); got != 0 {
		t.Errorf("Post negation(3) mod 4 = %v, want 0", got)
	}
	if got := evalOK(t, GatePostNegation, []float64{1}, p); got != 2 {
		t.Errorf("Post negation(1) = %v, want 2", got)
	}
}

func TestKleeneConsensus(t *testing.T) {
	if got := evalOK(t, GateKleeneConsensus, []float64{2, 2}, Params{}); got != 2 {
		t.Errorf("consensus(true,true) = %v, want 2", got)
	}
	if got := evalOK(t, GateKleeneConsensus, []float64{0, 2}, Params{}); got != 1 {
		t.Errorf("consensus(false,true) = %v, want 1 (unknown)", got)
	}
}

func TestQuaternaryAverage(t *testing.T) {
	if got := evalOK(t, GateQuaternaryAverage, []float64{1, 2}, Params{}); got != 2 {
		t.Errorf("quaternary avg(1,2) = %v, want 2 (rounded)", got)
	}
}

func TestArityValidation(t *testing.T) {
	_, err := Eval(GateIMPLY, []float64{1}, Params{})
	var arityErr *ArityError
	if !errors.As(err, &arityErr) {
		t.Fatalf("expected ArityError, got %v", err)
	}
	if arityErr.Min != 2 || arityErr.Got != 1 {
		t.Errorf("ArityError = %+v, want Min=2 Got=1", arityErr)
	}
}

func TestParseGate(t *testing.T) {
	g, err := ParseGate("xnor")
	if err != nil {
		t.Fatalf("ParseGate(xnor) error: %v", err)
	}
	if g != GateXNOR {
		t.Errorf("ParseGate(xnor) = %v, want GateXNOR", g)
	}

	if _, err := ParseGate("frobnicate"); err == nil {
		t.Error("expected validation error for unknown gate name")
	}
}

func TestGateNameRoundTrip(t *testing.T) {
	for g, name := range gateNames {
		parsed, err := ParseGate(name)
		if err != nil {
			t.Errorf("ParseGate(%q) error: %v", name, err)
			continue
		}
		if parsed != g {
			t.Errorf("ParseGate(%q) = %v, want %v", name, parsed, g)
		}
	}
}
