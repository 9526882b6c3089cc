// Package invoice holds the invoice domain: the field catalog, the
// calculation engine and the helpers both hosts share.
package invoice

import (
	"fmt"
	"strconv"
)

// FieldSet is the editable invoice record, keyed by field name.
type FieldSet map[string]string

// Get returns the value of a field, or "" when absent.
func (fs FieldSet) Get(name string) string { return fs[name] }

// Clone returns a copy that can be mutated independently.
func (fs FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(fs))
	for k, v := range fs {
		out[k] = v
	}
	return out
}

// FieldSetFromMap converts a decoded JSON object into a FieldSet.
// Numbers are written without exponent, nil becomes "".
func FieldSetFromMap(m map[string]any) FieldSet {
	fs := make(FieldSet, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
			fs[k] = ""
		case string:
			fs[k] = val
		case float64:
			fs[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			fs[k] = strconv.FormatBool(val)
		default:
			fs[k] = fmt.Sprint(val)
		}
	}
	return fs
}

type Client struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

const (
	FieldInvoiceNo     = "invoice_no"
	FieldClientName    = "client_name"
	FieldClientAddress = "client_address"
	FieldClientTRN     = "client_trn"
	FieldDate          = "date"
	FieldBONo          = "bo_no"
	FieldDeliveryMonth = "delivery_month"
	FieldDescription   = "description"
	FieldQuantity      = "quantity"
	FieldRate          = "rate"
	FieldBudget        = "budget"
	FieldVATRate       = "vat_rate"
	FieldTotalAmount   = "total_amount"
	FieldHeader        = "header"
)

// Written by the invoice service when a record is saved.
const (
	FieldDueDate      = "due_date"
	FieldVATAmount    = "vat_amount"
	FieldTotalInWords = "total_in_words"
)

type Kind string

const (
	KindString  Kind = "string"
	KindDate    Kind = "date"
	KindNumeric Kind = "numeric"
)

type Field struct {
	Name     string
	Label    string
	Kind     Kind
	ReadOnly bool
}

// Fields is the catalog of user-facing invoice fields, in form order.
var Fields = []Field{
	{Name: FieldInvoiceNo, Label: "Invoice No.", Kind: KindString},
	{Name: FieldClientName, Label: "Client Name", Kind: KindString},
	{Name: FieldClientAddress, Label: "Client Address", Kind: KindString},
	{Name: FieldClientTRN, Label: "Client TRN No.", Kind: KindString},
	{Name: FieldDate, Label: "Date", Kind: KindDate},
	{Name: FieldBONo, Label: "BO No.", Kind: KindString},
	{Name: FieldDeliveryMonth, Label: "Delivery Month", Kind: KindString},
	{Name: FieldDescription, Label: "Description", Kind: KindString},
	{Name: FieldQuantity, Label: "Quantity", Kind: KindNumeric},
	{Name: FieldRate, Label: "Rate", Kind: KindNumeric},
	{Name: FieldBudget, Label: "Budget", Kind: KindNumeric},
	{Name: FieldVATRate, Label: "VAT Rate (%)", Kind: KindString},
	{Name: FieldTotalAmount, Label: "Total Amount", Kind: KindNumeric, ReadOnly: true},
	{Name: FieldHeader, Label: "Header Preview", Kind: KindString, ReadOnly: true},
}

// Lookup finds a catalog field by name.
func Lookup(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

const (
	VATOptionNonGCC = "non-GCC (0%)"
	VATOptionGCC    = "GCC (5%)"
)

// VATOptions are the choices offered for the vat_rate field.
var VATOptions = []string{VATOptionNonGCC, VATOptionGCC}
