package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/angelofallars/hyperinvoice/internal/api"
	"github.com/angelofallars/hyperinvoice/internal/document"
	"github.com/angelofallars/hyperinvoice/internal/invoice"
	"github.com/angelofallars/hyperinvoice/internal/store"
	"github.com/angelofallars/hyperinvoice/pkg/invoiceapi"
)

// newTestService runs the real invoice service against in-memory sqlite.
func newTestService(t *testing.T) *invoiceService {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), false, store.WithInvoiceStart(100))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := api.New(logger, st, document.Dir{Root: t.TempDir()}, api.Settings{APIKey: "k", Header: "Yazle"})
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	return NewInvoice(invoiceapi.New(srv.URL, invoiceapi.WithAPIKey("k")))
}

func TestDraftSeededAndReused(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	d, err := svc.Draft(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if d.Get(invoice.FieldInvoiceNo) != "100" || d.Get(invoice.FieldHeader) != "Yazle" {
		t.Fatalf("unexpected seed %v", d.Fields())
	}

	d.Set(invoice.FieldQuantity, "100")
	again, err := svc.Draft(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if again != d {
		t.Fatal("expected the same draft for the same session")
	}

	other, err := svc.Draft(ctx, "s2")
	if err != nil {
		t.Fatal(err)
	}
	if other == d || other.Get(invoice.FieldQuantity) != "" {
		t.Fatal("expected an independent draft per session")
	}

	svc.Discard("s1")
	fresh, err := svc.Draft(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if fresh == d || fresh.Get(invoice.FieldQuantity) != "" {
		t.Fatal("expected a fresh draft after discard")
	}
}

func TestDraftPrunesIdleSessions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	now := time.Now()
	svc.now = func() time.Time { return now }

	if _, err := svc.Draft(ctx, "old"); err != nil {
		t.Fatal(err)
	}
	now = now.Add(draftTTL + time.Minute)
	if _, err := svc.Draft(ctx, "new"); err != nil {
		t.Fatal(err)
	}

	if _, ok := svc.sessions["old"]; ok {
		t.Fatal("expected idle session to be pruned")
	}
}

func TestAddClientAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.AddClient(ctx, "   ", "x"); !errors.Is(err, ErrEmptyClient) {
		t.Fatalf("expected ErrEmptyClient got %v", err)
	}
	if err := svc.AddClient(ctx, "Acme", "Dubai"); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddClient(ctx, "Acme", "Dubai"); !errors.Is(err, invoiceapi.ErrRejected) {
		t.Fatalf("expected ErrRejected for duplicate got %v", err)
	}

	clients, err := svc.Clients(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(clients) != 1 || clients[0].Address != "Dubai" {
		t.Fatalf("unexpected clients %#v", clients)
	}
}

func TestSave(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, invoice.FieldSet{invoice.FieldClientName: "Acme"})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields got %v", err)
	}

	_, err = svc.Save(ctx, invoice.FieldSet{invoice.FieldClientName: "Acme", invoice.FieldDate: "01/03/2025"})
	if !errors.Is(err, invoiceapi.ErrRejected) {
		t.Fatalf("expected service rejection got %v", err)
	}

	resp, err := svc.Save(ctx, invoice.FieldSet{
		invoice.FieldInvoiceNo:   "100",
		invoice.FieldClientName:  "Acme",
		invoice.FieldDate:        "01/03/2025",
		invoice.FieldDescription: "Leaflets",
		invoice.FieldQuantity:    "1000",
		invoice.FieldRate:        "200",
		invoice.FieldVATRate:     invoice.VATOptionGCC,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatalf("unexpected response %+v", resp)
	}
	if _, err := os.Stat(resp.OutputPath); err != nil {
		t.Fatalf("expected saved document: %v", err)
	}
}

func TestWithComputed(t *testing.T) {
	fields := invoice.FieldSet{invoice.FieldQuantity: "1000", invoice.FieldRate: "200", invoice.FieldVATRate: invoice.VATOptionGCC}
	record := withComputed(fields)

	if record[invoice.FieldBudget] != "200.00" || record[invoice.FieldTotalAmount] != "210.00" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := fields[invoice.FieldBudget]; ok {
		t.Fatal("input fields must not be mutated")
	}
}

func TestInitialDataFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	svc := NewInvoice(invoiceapi.New(srv.URL))

	if _, err := svc.Draft(context.Background(), "s"); err == nil {
		t.Fatal("expected error when the invoice service is down")
	}
	clients, err := svc.Clients(context.Background())
	if err == nil || clients == nil {
		t.Fatalf("expected empty list and error got %#v %v", clients, err)
	}
}
