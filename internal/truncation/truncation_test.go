package truncation

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestDigits(t *testing.T) {
	t.Parallel()
	tests := []struct {
		eps     float64
		want    float64
		wantErr bool
	}{
		{1e-8, 8, false},
		{0.1, 1, false},
		{1e-15, 15, false},
		{0, 0, true},
		{1, 0, true},
		{-1e-3, 0, true},
		{math.NaN(), 0, true},
	}
	for _, tt := range tests {
		got, err := Digits(tt.eps)
		if (err != nil) != tt.wantErr {
			t.Errorf("Digits(%g) error = %v, wantErr %v", tt.eps, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Digits(%g) = %v, want %v", tt.eps, got, tt.want)
		}
	}
}

func TestStieltjesPlan(t *testing.T) {
	t.Parallel()
	tests := []struct {
		eps         float64
		index       int
		wantOrder   int
		wantShift   int
		wantClamped bool
	}{
		{1e-6, 0, 6, 28, false},
		{1e-8, 0, 7, 34, false},
		{1e-8, 4, 8, 34, false},
		{1e-12, 0, 9, 46, false},
		{1e-12, 5, 11, 46, false},
		{1e-12, 10, 13, 46, false},
		{1e-14, 10, 14, 52, true},
		{1e-8, -3, 7, 34, false},
	}
	for _, tt := range tests {
		p, err := Stieltjes.Plan(tt.eps, tt.index)
		if err != nil {
			t.Fatalf("Plan(%g, %d): %v", tt.eps, tt.index, err)
		}
		if p.Order != tt.wantOrder || p.Shift != tt.wantShift || p.Clamped != tt.wantClamped {
			t.Errorf("Plan(%g, %d) = %+v, want order %d shift %d clamped %v",
				tt.eps, tt.index, p, tt.wantOrder, tt.wantShift, tt.wantClamped)
		}
	}
}

func TestDefaultPrecisionIsNotClamped(t *testing.T) {
	t.Parallel()
	for _, rule := range []Rule{Stieltjes, Zeta, Digamma} {
		for index := 0; index <= 10; index++ {
			p, err := rule.Plan(1e-12, index)
			if err != nil {
				t.Fatal(err)
			}
			if p.Clamped {
				t.Errorf("rule %+v clamps index %d at 1e-12: %+v", rule, index, p)
			}
		}
	}
}

func TestIndexGrowsPlan(t *testing.T) {
	t.Parallel()
	r := Rule{Scale: 1, IndexScale: 0.1, ShiftScale: 1, ShiftPerIndex: 2}
	low, _ := r.Plan(1e-10, 0)
	high, _ := r.Plan(1e-10, 10)
	if low.Order != 10 || high.Order != 20 {
		t.Errorf("orders = %d, %d, want 10, 20", low.Order, high.Order)
	}
	if low.Shift != 10 || high.Shift != 30 {
		t.Errorf("shifts = %d, %d, want 10, 30", low.Shift, high.Shift)
	}
}

func TestPlanRejectsBadPrecision(t *testing.T) {
	t.Parallel()
	for _, rule := range []Rule{Stieltjes, Zeta, Digamma} {
		if _, err := rule.Plan(2, 0); err == nil {
			t.Errorf("expected an error for eps = 2 with rule %+v", rule)
		}
	}
	if _, err := Zeta.Order(0, 0); err == nil {
		t.Error("expected an error for eps = 0")
	}
}

func TestUncappedRule(t *testing.T) {
	t.Parallel()
	r := Rule{Scale: 2, Offset: 1}
	p, err := r.Plan(1e-20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if p.Order != 41 || p.Clamped {
		t.Errorf("got %+v, want order 41 unclamped", p)
	}
	if p.Shift != 1 {
		t.Errorf("shift = %d, want the minimum of 1", p.Shift)
	}
}

func TestPlanMonotonicity(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("tighter precision never lowers order or shift", prop.ForAll(
		func(d1, d2 float64, index int) bool {
			if d1 > d2 {
				d1, d2 = d2, d1
			}
			loose, err1 := Stieltjes.Plan(math.Pow(10, -d1), index)
			tight, err2 := Stieltjes.Plan(math.Pow(10, -d2), index)
			return err1 == nil && err2 == nil &&
				tight.Order >= loose.Order && tight.Shift >= loose.Shift &&
				tight.Order <= StabilityCeiling
		},
		gen.Float64Range(1, 15), gen.Float64Range(1, 15), gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
