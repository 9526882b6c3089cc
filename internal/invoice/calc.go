package invoice

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
)

type VATType string

const (
	VATTypeGCC    VATType = "GCC"
	VATTypeNonGCC VATType = "non-GCC"
)

// Result is the derived financial summary of a field-set.
type Result struct {
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Budget      float64 `json:"budget"`
	VATType     VATType `json:"vatType"`
	VATAmount   float64 `json:"vatAmount"`
	TotalAmount float64 `json:"totalAmount"`
}

// Rate is expressed per thousand units.
const budgetScale = 1000

// Dependencies are the fields Compute reads. A change to any other field
// never alters the result.
var Dependencies = []string{FieldQuantity, FieldRate, FieldVATRate}

// DependsOn reports whether a change to the named field requires a recompute.
func DependsOn(field string) bool {
	return slices.Contains(Dependencies, field)
}

// Compute derives the budget, VAT and total from a field-set. It never
// fails: quantity and rate that do not parse are treated as zero.
func Compute(fields FieldSet) Result {
	quantity := parseAmount(fields[FieldQuantity])
	rate := parseAmount(fields[FieldRate])

	budget := (quantity * rate) / budgetScale
	vatType := ClassifyVAT(fields[FieldVATRate])
	vatAmount := 0.0
	if percent := VATPercent(vatType); percent != 0 {
		vatAmount = (budget * percent) / 100
	}

	return Result{
		Quantity:    quantity,
		Rate:        rate,
		Budget:      budget,
		VATType:     vatType,
		VATAmount:   vatAmount,
		TotalAmount: budget + vatAmount,
	}
}

// ClassifyVAT returns GCC when the text names the GCC region. The
// "non-GCC" marker is stripped first so "non-GCC (0%)" stays non-GCC.
func ClassifyVAT(vatRate string) VATType {
	if strings.Contains(strings.ReplaceAll(vatRate, "non-GCC", ""), "GCC") {
		return VATTypeGCC
	}
	return VATTypeNonGCC
}

// VATPercent is the only place VAT policy lives.
func VATPercent(t VATType) float64 {
	if t == VATTypeGCC {
		return 5
	}
	return 0
}

// VATLabel is the rate written into a saved record, e.g. "VAT(5%)".
func VATLabel(t VATType) string {
	return "VAT(" + strconv.FormatFloat(VATPercent(t), 'f', -1, 64) + "%)"
}

// parseAmount reads a finite number. Text that does not parse, including
// spelled-out "inf" and "nan", is zero; only numeric overflow yields ±Inf.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return 0
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
