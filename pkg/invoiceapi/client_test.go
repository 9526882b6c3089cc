package invoiceapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithAPIKey("secret"))
}

func TestGetInitialData(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/invoice/initial" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get(HeaderAPIKey); got != "secret" {
			t.Errorf("expected api key header got %q", got)
		}
		_, _ = w.Write([]byte(`{"invoice_no":"7","quantity":1000,"bo_no":null}`))
	})

	fields, err := c.GetInitialData(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if fields["invoice_no"] != "7" || fields["quantity"] != "1000" || fields["bo_no"] != "" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestGetClientsEmpty(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	clients, err := c.GetClients(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if clients == nil || len(clients) != 0 {
		t.Fatalf("expected empty slice got %#v", clients)
	}
}

func TestAddClientSendsBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/clients/add" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body ClientEntry
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Name != "Acme" || body.Address != "Dubai" {
			t.Errorf("unexpected body %#v", body)
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"Client Acme added successfully"}`))
	})

	resp, err := c.AddClient(context.Background(), "Acme", "Dubai")
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatalf("expected success got %#v", resp)
	}
}

func TestSaveInvoiceRejected(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"errors":["Missing required fields: description, rate"]}`))
	})

	_, err := c.SaveInvoice(context.Background(), Fields{"client_name": "Acme"})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected got %v", err)
	}
	if !strings.Contains(err.Error(), "Missing required fields: description, rate") {
		t.Fatalf("expected server message in %q", err)
	}
}

func TestUnauthorized(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	})

	_, err := c.GetNextInvoiceNumber(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized got %v", err)
	}
}

func TestServerError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := c.Health(context.Background())
	if err == nil || errors.Is(err, ErrRejected) || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSaveAndValidate(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/invoice/validate":
			_, _ = w.Write([]byte(`{"valid":false,"errors":["Rate must be >= 0"]}`))
		case "/api/invoice/save":
			_, _ = w.Write([]byte(`{"success":true,"message":"Invoice saved successfully","output_path":"generated_invoices/7.pdf"}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	v, err := c.ValidateInvoice(ctx, Fields{"rate": "-1"})
	if err != nil {
		t.Fatal(err)
	}
	if v.Valid || len(v.Errors) != 1 {
		t.Fatalf("unexpected validation %#v", v)
	}

	saved, err := c.SaveInvoice(ctx, Fields{"invoice_no": "7"})
	if err != nil {
		t.Fatal(err)
	}
	if saved.OutputPath != "generated_invoices/7.pdf" {
		t.Fatalf("unexpected output path %q", saved.OutputPath)
	}
}

func TestFieldsUnmarshal(t *testing.T) {
	var f Fields
	if err := json.Unmarshal([]byte(`{"quantity":1e21,"rate":0.5,"paid":true,"bo_no":null,"date":"01/03/2025"}`), &f); err != nil {
		t.Fatal(err)
	}
	want := Fields{"quantity": "1000000000000000000000", "rate": "0.5", "paid": "true", "bo_no": "", "date": "01/03/2025"}
	for k, v := range want {
		if f[k] != v {
			t.Errorf("%s: expected %q got %q", k, v, f[k])
		}
	}
}
