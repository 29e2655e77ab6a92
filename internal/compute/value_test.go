package compute

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValueZeroIsUnavailable(t *testing.T) {
	var v Value[float64]
	if v.Available() {
		t.Error("zero Value should be unavailable")
	}
}

func TestValueDistinguishesZero(t *testing.T) {
	got, ok := Of(0.0).Get()
	if !ok || got != 0 {
		t.Errorf("Get() = %v, %v; want 0, true", got, ok)
	}
}

func TestFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if Finite(v).Available() {
			t.Errorf("Finite(%v) should be unavailable", v)
		}
	}
	if got, ok := Finite(-2.5).Get(); !ok || got != -2.5 {
		t.Errorf("Finite(-2.5) = %v, %v; want -2.5, true", got, ok)
	}
}

func TestValueJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Value[float64] `json:"a"`
		B Value[float64] `json:"b"`
	}{A: Of(1.5)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"a":1.5,"b":null}` {
		t.Errorf("Marshal = %s", out)
	}

	var in struct {
		A Value[int64] `json:"a"`
		B Value[int64] `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":3,"b":null}`), &in); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if a, ok := in.A.Get(); !ok || a != 3 {
		t.Errorf("A = %v, %v; want 3, true", a, ok)
	}
	if in.B.Available() {
		t.Error("B should be unavailable")
	}
}
