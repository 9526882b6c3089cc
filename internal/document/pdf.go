// Package document renders saved invoices and archives the result.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/angelofallars/hyperinvoice/internal/invoice"
	"github.com/jung-kurt/gofpdf"
)

// Invoice is everything printed on a generated document.
type Invoice struct {
	Number       string
	Header       string
	Fields       invoice.FieldSet
	Result       invoice.Result
	DueDate      string
	TotalInWords string
}

var detailRows = []struct {
	label string
	field string
}{
	{"Client Name", invoice.FieldClientName},
	{"Client Address", invoice.FieldClientAddress},
	{"Client TRN No.", invoice.FieldClientTRN},
	{"Date", invoice.FieldDate},
	{"Due Date", invoice.FieldDueDate},
	{"BO No.", invoice.FieldBONo},
	{"Delivery Month", invoice.FieldDeliveryMonth},
	{"Description", invoice.FieldDescription},
}

// Render draws the invoice on a single A4 page and returns the PDF bytes.
func Render(inv Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Invoice "+inv.Number, true)
	pdf.AddPage()

	if inv.Header != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 4.5, tr(inv.Header), "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("TAX INVOICE"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, tr("Invoice No.: "+inv.Number), "", 1, "R", false, 0, "")
	pdf.Ln(3)

	values := inv.Fields.Clone()
	values[invoice.FieldDueDate] = inv.DueDate
	for _, row := range detailRows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 7, tr(row.label), "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 7, tr(strings.TrimSpace(values[row.field])), "1", "L", false)
	}
	pdf.Ln(6)

	amounts := []struct {
		label string
		value string
	}{
		{"Quantity", formatPlain(inv.Result.Quantity)},
		{"Rate", formatPlain(inv.Result.Rate)},
		{"Budget", invoice.Money(inv.Result.Budget)},
		{invoice.VATLabel(inv.Result.VATType), invoice.Money(inv.Result.VATAmount)},
		{"Total Amount", invoice.Money(inv.Result.TotalAmount)},
	}
	for i, a := range amounts {
		style := ""
		if i == len(amounts)-1 {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(130, 7, tr(a.label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(a.value), "1", 1, "R", false, 0, "")
	}

	if inv.TotalInWords != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, tr(inv.TotalInWords+" ONLY"), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering invoice %s: %w", inv.Number, err)
	}
	return buf.Bytes(), nil
}

func formatPlain(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

// FileName turns an invoice number into a safe file name.
func FileName(number, ext string) string {
	safe := strings.TrimSpace(number)
	safe = strings.ReplaceAll(safe, "/", "-")
	safe = strings.ReplaceAll(safe, "\n", "_")
	if safe == "" {
		safe = "Invoice"
	}
	return safe + ext
}
