package invoice

import (
	"math"
	"testing"
)

func TestComputeExamples(t *testing.T) {
	tests := []struct {
		name      string
		fields    FieldSet
		budget    float64
		vatType   VATType
		vatAmount float64
		total     float64
	}{
		{
			name:    "non-GCC",
			fields:  FieldSet{FieldQuantity: "100", FieldRate: "50", FieldVATRate: VATOptionNonGCC},
			budget:  5,
			vatType: VATTypeNonGCC,
			total:   5,
		},
		{
			name:      "GCC",
			fields:    FieldSet{FieldQuantity: "1000", FieldRate: "200", FieldVATRate: VATOptionGCC},
			budget:    200,
			vatType:   VATTypeGCC,
			vatAmount: 10,
			total:     210,
		},
		{
			name:    "empty quantity",
			fields:  FieldSet{FieldQuantity: "", FieldRate: "50", FieldVATRate: VATOptionGCC},
			vatType: VATTypeGCC,
		},
		{
			name:    "negative quantity passes through",
			fields:  FieldSet{FieldQuantity: "-100", FieldRate: "10", FieldVATRate: VATOptionNonGCC},
			budget:  -1,
			vatType: VATTypeNonGCC,
			total:   -1,
		},
		{
			name:    "malformed numbers degrade to zero",
			fields:  FieldSet{FieldQuantity: "abc", FieldRate: "12x"},
			vatType: VATTypeNonGCC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.fields)
			if got.Budget != tt.budget {
				t.Errorf("budget: expected %v got %v", tt.budget, got.Budget)
			}
			if got.VATType != tt.vatType {
				t.Errorf("vat type: expected %q got %q", tt.vatType, got.VATType)
			}
			if got.VATAmount != tt.vatAmount {
				t.Errorf("vat amount: expected %v got %v", tt.vatAmount, got.VATAmount)
			}
			if got.TotalAmount != tt.total {
				t.Errorf("total: expected %v got %v", tt.total, got.TotalAmount)
			}
			if Fixed(got.TotalAmount) != Fixed(tt.total) {
				t.Errorf("fixed total: expected %s got %s", Fixed(tt.total), Fixed(got.TotalAmount))
			}
		})
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	fields := FieldSet{FieldQuantity: "1234.567", FieldRate: "0.333", FieldVATRate: VATOptionGCC}
	first := Compute(fields)
	for i := 0; i < 100; i++ {
		if got := Compute(fields); got != first {
			t.Fatalf("call %d: expected %+v got %+v", i, first, got)
		}
	}
}

func TestComputeZeroInputs(t *testing.T) {
	for _, fields := range []FieldSet{
		{FieldQuantity: "0", FieldRate: "999", FieldVATRate: VATOptionGCC},
		{FieldQuantity: "999", FieldRate: "0", FieldVATRate: VATOptionGCC},
		{FieldQuantity: "0", FieldRate: "0"},
	} {
		got := Compute(fields)
		if got.Budget != 0 || got.VATAmount != 0 || got.TotalAmount != 0 {
			t.Errorf("%v: expected zero amounts got %+v", fields, got)
		}
	}
}

func TestComputeVATProperties(t *testing.T) {
	inputs := [][2]string{{"1", "1"}, {"250", "3.5"}, {"-40", "12"}, {"7777", "123.45"}, {"1e6", "1e3"}}

	for _, in := range inputs {
		for _, vat := range []string{"", "non-GCC (0%)", "0%", "gcc lowercase", "none"} {
			got := Compute(FieldSet{FieldQuantity: in[0], FieldRate: in[1], FieldVATRate: vat})
			if got.VATType != VATTypeNonGCC || got.VATAmount != 0 || got.TotalAmount != got.Budget {
				t.Errorf("%v with %q: expected non-GCC passthrough got %+v", in, vat, got)
			}
		}
		for _, vat := range []string{"GCC (5%)", "GCC", "UAE GCC member"} {
			got := Compute(FieldSet{FieldQuantity: in[0], FieldRate: in[1], FieldVATRate: vat})
			if got.VATType != VATTypeGCC {
				t.Errorf("%v with %q: expected GCC got %q", in, vat, got.VATType)
			}
			if math.Abs(got.VATAmount-got.Budget*0.05) > 1e-9*math.Max(1, math.Abs(got.Budget)) {
				t.Errorf("%v with %q: expected vat %v got %v", in, vat, got.Budget*0.05, got.VATAmount)
			}
			if got.TotalAmount != got.Budget+got.VATAmount {
				t.Errorf("%v with %q: total %v is not budget+vat", in, vat, got.TotalAmount)
			}
		}
	}
}

func TestComputeMissingEqualsEmpty(t *testing.T) {
	missing := Compute(FieldSet{})
	empty := Compute(FieldSet{FieldQuantity: "", FieldRate: "", FieldVATRate: ""})
	if missing != empty {
		t.Fatalf("expected %+v got %+v", empty, missing)
	}
	if missing.VATType != VATTypeNonGCC {
		t.Fatalf("expected non-GCC got %q", missing.VATType)
	}
}

func TestComputeIgnoresNonDependencyFields(t *testing.T) {
	base := FieldSet{FieldQuantity: "300", FieldRate: "20", FieldVATRate: VATOptionGCC}
	want := Compute(base)

	for _, f := range Fields {
		if DependsOn(f.Name) {
			continue
		}
		changed := base.Clone()
		changed[f.Name] = "changed value 42"
		if got := Compute(changed); got != want {
			t.Errorf("changing %s altered result: %+v", f.Name, got)
		}
	}
}

func TestComputeLargeNumbersOverflow(t *testing.T) {
	got := Compute(FieldSet{FieldQuantity: "1e400", FieldRate: "1"})
	if !math.IsInf(got.Budget, 1) {
		t.Fatalf("expected +Inf budget got %v", got.Budget)
	}
	if got.VATAmount != 0 || got.TotalAmount != got.Budget {
		t.Fatalf("non-GCC overflow: expected vat 0 and total == budget got %+v", got)
	}

	got = Compute(FieldSet{FieldQuantity: "-1e400", FieldRate: "1", FieldVATRate: VATOptionNonGCC})
	if !math.IsInf(got.Budget, -1) || got.VATAmount != 0 || !math.IsInf(got.TotalAmount, -1) {
		t.Fatalf("expected -Inf budget and total with zero vat got %+v", got)
	}

	got = Compute(FieldSet{FieldQuantity: "1e400", FieldRate: "1", FieldVATRate: VATOptionGCC})
	if !math.IsInf(got.VATAmount, 1) || !math.IsInf(got.TotalAmount, 1) {
		t.Fatalf("GCC overflow: expected +Inf vat and total got %+v", got)
	}
}

func TestComputeSpelledNonFiniteIsZero(t *testing.T) {
	for _, in := range []string{"inf", "-inf", "+INF", "Infinity", "-Infinity", "NaN", "nan"} {
		got := Compute(FieldSet{FieldQuantity: in, FieldRate: "1000", FieldVATRate: VATOptionGCC})
		if got.Quantity != 0 || got.Budget != 0 || got.VATAmount != 0 || got.TotalAmount != 0 {
			t.Errorf("%q: expected zero result got %+v", in, got)
		}
	}
}

func TestComputeTrimsWhitespace(t *testing.T) {
	got := Compute(FieldSet{FieldQuantity: " 100 ", FieldRate: "50\n"})
	if got.Budget != 5 {
		t.Fatalf("expected 5 got %v", got.Budget)
	}
}

func TestDependsOn(t *testing.T) {
	for _, name := range []string{FieldQuantity, FieldRate, FieldVATRate} {
		if !DependsOn(name) {
			t.Errorf("expected %s to be a dependency", name)
		}
	}
	for _, name := range []string{FieldClientName, FieldDate, FieldBudget, FieldTotalAmount, "unknown"} {
		if DependsOn(name) {
			t.Errorf("expected %s not to be a dependency", name)
		}
	}
}

func TestVATLabel(t *testing.T) {
	if got := VATLabel(VATTypeGCC); got != "VAT(5%)" {
		t.Errorf("expected VAT(5%%) got %s", got)
	}
	if got := VATLabel(VATTypeNonGCC); got != "VAT(0%)" {
		t.Errorf("expected VAT(0%%) got %s", got)
	}
}
