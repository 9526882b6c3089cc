package invoice

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// SubmitRequired are checked by the form host before a record is sent.
var SubmitRequired = []string{FieldClientName, FieldDate}

// SaveRequired are checked by the invoice service before a record is saved.
var SaveRequired = []string{FieldInvoiceNo, FieldClientName, FieldDate, FieldDescription, FieldQuantity, FieldRate}

// Missing returns the names in required whose value is empty, in order.
func Missing(fields FieldSet, required []string) []string {
	missing := []string{}
	for _, name := range required {
		if fields[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Messages returns the violations sorted by catalog order, unknown fields last.
func (v Violations) Messages() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := catalogIndex(names[i]), catalogIndex(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, v[name])
	}
	return msgs
}

func catalogIndex(name string) int {
	for i, f := range Fields {
		if f.Name == name {
			return i
		}
	}
	return len(Fields)
}

// Validate checks every field of a record against the catalog. It is a
// separate layer from Compute, which never rejects input.
func Validate(fields FieldSet) Violations {
	v := Violations{}
	for name, value := range fields {
		validateField(name, value, v)
	}
	return v
}

var nonNegative = []string{FieldQuantity, FieldRate, FieldBudget}

func validateField(name, value string, v Violations) {
	field, ok := Lookup(name)
	if !ok {
		v[name] = "Unknown field: " + name
		return
	}
	if field.ReadOnly {
		return
	}

	if strings.TrimSpace(value) == "" {
		v[name] = field.Label + " is required"
		return
	}

	switch field.Kind {
	case KindNumeric:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			v[name] = field.Label + " must be a number"
			return
		}
		if slices.Contains(nonNegative, name) && n < 0 {
			v[name] = fmt.Sprintf("%s must be >= %d", field.Label, 0)
			return
		}
	case KindDate:
		if _, err := ParseDate(value); err != nil {
			v[name] = field.Label + " must be in DD/MM/YYYY format"
			return
		}
	}

	if name == FieldVATRate && !slices.Contains(VATOptions, value) {
		v[name] = fmt.Sprintf("%s must be one of %s", field.Label, strings.Join(VATOptions, ", "))
	}
}
