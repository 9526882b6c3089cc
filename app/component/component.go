// Package component renders the pages and htmx fragments of the invoice
// form. The templ components live in component.templ; this file holds the
// props they render.
package component

import (
	"github.com/angelofallars/hyperinvoice/internal/invoice"
)

type FieldProps struct {
	invoice.Field
	Value string
}

// Input is the HTML input type for the field.
func (f FieldProps) Input() string {
	if f.Kind == invoice.KindNumeric && !f.ReadOnly {
		return "number"
	}
	return "text"
}

type FormProps struct {
	Fields     []FieldProps
	Clients    []invoice.Client
	Months     []string
	VATOptions []string
	Summary    SummaryProps
}

func (p FormProps) Value(name string) string {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Computed reports whether the field is filled in by the server.
func (p FormProps) Computed(name string) bool {
	if name == invoice.FieldBudget {
		return true
	}
	f, ok := invoice.Lookup(name)
	return ok && f.ReadOnly
}

func (p FormProps) ClientSelect() ClientSelectProps {
	return ClientSelectProps{Clients: p.Clients, Selected: p.Value(invoice.FieldClientName)}
}

func (p FormProps) ClientAddress() ClientAddressProps {
	return ClientAddressProps{Value: p.Value(invoice.FieldClientAddress)}
}

// NewFormProps lays out a draft's fields in catalog order.
func NewFormProps(fields invoice.FieldSet, result invoice.Result, clients []invoice.Client, months []string) FormProps {
	props := FormProps{
		Clients:    clients,
		Months:     months,
		VATOptions: invoice.VATOptions,
		Summary:    NewSummaryProps(result),
	}
	for _, f := range invoice.Fields {
		value := fields.Get(f.Name)
		switch f.Name {
		case invoice.FieldBudget:
			value = invoice.Fixed(result.Budget)
		case invoice.FieldTotalAmount:
			value = invoice.Fixed(result.TotalAmount)
		}
		props.Fields = append(props.Fields, FieldProps{Field: f, Value: value})
	}
	return props
}

type PageProps struct {
	Form       FormProps
	ErrMessage string
}

type SummaryProps struct {
	Budget      float64
	VATType     invoice.VATType
	VATLabel    string
	VATAmount   float64
	TotalAmount float64

	BudgetFixed string
	TotalFixed  string
}

func NewSummaryProps(result invoice.Result) SummaryProps {
	return SummaryProps{
		Budget:      result.Budget,
		VATType:     result.VATType,
		VATLabel:    invoice.VATLabel(result.VATType),
		VATAmount:   result.VATAmount,
		TotalAmount: result.TotalAmount,
		BudgetFixed: invoice.Fixed(result.Budget),
		TotalFixed:  invoice.Fixed(result.TotalAmount),
	}
}

type ClientSelectProps struct {
	Clients  []invoice.Client
	Selected string
}

type ClientAddressProps struct {
	Value string
	OOB   bool
}
