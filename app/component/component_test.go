package component

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/angelofallars/hyperinvoice/app/event"
	"github.com/angelofallars/hyperinvoice/internal/invoice"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestSummary(t *testing.T) {
	result := invoice.Compute(invoice.FieldSet{
		invoice.FieldQuantity: "10000000",
		invoice.FieldRate:     "200",
		invoice.FieldVATRate:  invoice.VATOptionGCC,
	})
	out := renderString(t, Summary(NewSummaryProps(result)))

	for _, want := range []string{
		`id="summary"`,
		"2,000,000.00",
		"VAT(5%)",
		"100,000.00",
		"2,100,000.00",
		`value="2100000.00"`,
		`hx-swap-oob="true"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
}

func TestPage(t *testing.T) {
	fields := invoice.FieldSet{
		invoice.FieldInvoiceNo:     "42",
		invoice.FieldClientName:    "Acme",
		invoice.FieldClientAddress: "Dubai <HQ>",
		invoice.FieldVATRate:       invoice.VATOptionNonGCC,
	}
	clients := []invoice.Client{{Name: "Acme"}, {Name: "Globex"}}
	props := NewFormProps(fields, invoice.Compute(fields), clients, []string{"March 2025"})

	out := renderString(t, FullPage("Invoice", Page(PageProps{Form: props, ErrMessage: "down"})))

	for _, want := range []string{
		"<title>Invoice</title>",
		`value="42"`,
		`<option value="Acme" selected>`,
		"Dubai &lt;HQ&gt;",
		`<option value="non-GCC (0%)" selected>`,
		"March 2025",
		`data-err="down"`,
		`x-on:set-err-message.window=`,
		`hx-trigger="reset-form from:body"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
}

func TestPageListensForEvents(t *testing.T) {
	out := renderString(t, Page(PageProps{Form: NewFormProps(invoice.FieldSet{}, invoice.Result{}, nil, nil)}))

	for _, e := range []event.Event{event.SetErrMessage, event.SetSuccessMessage, event.CloseAddClient} {
		if !strings.Contains(out, "x-on:"+e.String()+".window=") {
			t.Fatalf("expected a listener for %s in page", e)
		}
	}
	if !strings.Contains(out, `x-on:set-err-message.window="errMessage = $event.detail.value; if (errMessage) successMessage = &#39;&#39;"`) {
		t.Fatalf("expected escaped listener code in %s", out)
	}
}

func TestAddedClientSelectsNewClient(t *testing.T) {
	clients := []invoice.Client{{Name: "Acme"}, {Name: "Globex", Address: "Abu Dhabi"}}
	out := renderString(t, AddedClient(clients, clients[1]))

	for _, want := range []string{
		`<option value="Acme">`,
		`<option value="Globex" selected>`,
		`hx-swap-oob="true">Abu Dhabi</textarea>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
}

func TestClientAddressOOB(t *testing.T) {
	out := renderString(t, ClientAddress(ClientAddressProps{Value: "Dubai", OOB: true}))
	if !strings.Contains(out, `hx-swap-oob="true"`) || !strings.Contains(out, "Dubai") {
		t.Fatalf("unexpected fragment %s", out)
	}
}
