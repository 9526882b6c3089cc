package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/angelofallars/hyperinvoice/internal/document"
	"github.com/angelofallars/hyperinvoice/internal/invoice"
	"github.com/angelofallars/hyperinvoice/internal/store"
	"github.com/angelofallars/hyperinvoice/pkg/invoiceapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const version = "1.0.0"

func (a *API) RegisterRoutes() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.settings.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", invoiceapi.HeaderAPIKey},
	}))

	a.router.Get("/", handleIndex)
	a.router.Get("/health", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Use(a.apiKeyRequired)

		r.Get("/invoice/initial", a.handleInitialData)
		r.Get("/invoice/next-number", a.handleNextNumber)
		r.Post("/invoice/validate", handleValidate)
		r.Post("/invoice/save", a.handleSave)
		r.Get("/invoice/{id}", a.handleGetInvoice)

		r.Get("/clients", a.handleGetClients)
		r.Post("/clients/add", a.handleAddClient)
	})
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"message": "Invoice Automation API",
		"version": version,
		"endpoints": map[string]string{
			"/health":                  "Health check",
			"/api/invoice/initial":     "Get initial invoice data",
			"/api/clients":             "Get all clients",
			"/api/clients/add":         "Add new client (POST)",
			"/api/invoice/next-number": "Get next invoice number",
			"/api/invoice/validate":    "Validate invoice (POST)",
			"/api/invoice/save":        "Save invoice (POST)",
			"/api/invoice/{id}":        "Get a saved invoice",
		},
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		a.slog.Error("database unreachable", "err", err)
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{"status": "unavailable"})
		return
	}
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (a *API) handleInitialData(w http.ResponseWriter, r *http.Request) {
	next, err := a.store.NextInvoiceNumber(r.Context())
	if err != nil {
		jsonError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	data := make(map[string]string, len(invoice.Fields))
	for _, f := range invoice.Fields {
		data[f.Name] = ""
	}
	data[invoice.FieldInvoiceNo] = strconv.FormatInt(next, 10)
	data[invoice.FieldVATRate] = invoice.VATOptionNonGCC
	data[invoice.FieldHeader] = a.settings.Header

	render.JSON(w, r, data)
}

func (a *API) handleNextNumber(w http.ResponseWriter, r *http.Request) {
	next, err := a.store.NextInvoiceNumber(r.Context())
	if err != nil {
		jsonError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	render.JSON(w, r, map[string]string{"number": strconv.FormatInt(next, 10)})
}

func (a *API) handleGetClients(w http.ResponseWriter, r *http.Request) {
	clients, err := a.store.ListClients(r.Context())
	if err != nil {
		jsonError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	render.JSON(w, r, map[string]any{"clients": clients})
}

type AddClientRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// AddClientRequest satisfies [render.Binder]
func (req *AddClientRequest) Bind(r *http.Request) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" {
		return errors.New("Client name is required")
	}
	return nil
}

func (a *API) handleAddClient(w http.ResponseWriter, r *http.Request) {
	req := &AddClientRequest{}
	if err := render.Bind(r, req); err != nil {
		jsonError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.store.AddClient(r.Context(), req.Name, req.Address); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrClientExists) {
			status = http.StatusBadRequest
		}
		jsonError(w, r, status, err.Error())
		return
	}

	a.slog.Info("client added", "name", req.Name)
	render.JSON(w, r, invoiceapi.MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Client %s added successfully", req.Name),
	})
}

func decodeFields(r *http.Request) (invoice.FieldSet, error) {
	var raw map[string]any
	if err := render.DecodeJSON(r.Body, &raw); err != nil {
		return nil, fmt.Errorf("Invalid JSON body: %w", err)
	}
	return invoice.FieldSetFromMap(raw), nil
}

func handleValidate(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		jsonError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if v := invoice.Validate(fields); !v.Empty() {
		render.JSON(w, r, invoiceapi.ValidateResponse{Valid: false, Errors: v.Messages()})
		return
	}
	render.JSON(w, r, invoiceapi.ValidateResponse{Valid: true})
}

func (a *API) handleSave(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		saveFailed(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if missing := invoice.Missing(fields, invoice.SaveRequired); len(missing) > 0 {
		saveFailed(w, r, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	dueDate, err := invoice.DueDate(fields[invoice.FieldDate], a.settings.DueDays)
	if err != nil {
		saveFailed(w, r, http.StatusBadRequest, "Invalid date format. Use DD/MM/YYYY: "+err.Error())
		return
	}

	result := invoice.Compute(fields)
	if !finite(result.Budget, result.VATAmount, result.TotalAmount) {
		saveFailed(w, r, http.StatusBadRequest, "Error calculating fields: amount out of range")
		return
	}
	words := invoice.AmountInWords(result.TotalAmount)
	if words == "" {
		saveFailed(w, r, http.StatusBadRequest, "Error calculating fields: amount out of range")
		return
	}

	record := fields.Clone()
	record[invoice.FieldDueDate] = dueDate
	record[invoice.FieldBudget] = invoice.Fixed(result.Budget)
	record[invoice.FieldVATAmount] = invoice.Fixed(result.VATAmount)
	record[invoice.FieldVATRate] = invoice.VATLabel(result.VATType)
	record[invoice.FieldTotalAmount] = invoice.Fixed(result.TotalAmount)
	record[invoice.FieldTotalInWords] = words

	invoiceNo := fields[invoice.FieldInvoiceNo]
	pdf, err := document.Render(document.Invoice{
		Number:       a.settings.InvoicePrefix + invoiceNo,
		Header:       a.settings.Header,
		Fields:       record,
		Result:       result,
		DueDate:      dueDate,
		TotalInWords: words,
	})
	if err != nil {
		saveFailed(w, r, http.StatusInternalServerError, "Error saving invoice: "+err.Error())
		return
	}

	snapshot, err := json.Marshal(record)
	if err != nil {
		saveFailed(w, r, http.StatusInternalServerError, "Error saving invoice: "+err.Error())
		return
	}

	saved := &store.SavedInvoice{
		InvoiceNo:    invoiceNo,
		ClientName:   fields[invoice.FieldClientName],
		Date:         fields[invoice.FieldDate],
		DueDate:      dueDate,
		VATRate:      record[invoice.FieldVATRate],
		Budget:       decimal.NewFromFloat(result.Budget),
		VATAmount:    decimal.NewFromFloat(result.VATAmount),
		TotalAmount:  decimal.NewFromFloat(result.TotalAmount),
		TotalInWords: words,
		Fields:       datatypes.JSON(snapshot),
	}
	err = a.store.SaveInvoice(r.Context(), saved, func(ctx context.Context) (string, error) {
		return a.archiver.Put(ctx, document.FileName(invoiceNo, ".pdf"), bytes.NewReader(pdf))
	})
	if errors.Is(err, store.ErrInvoiceExists) {
		saveFailed(w, r, http.StatusBadRequest, fmt.Sprintf("Invoice number %s already exists", invoiceNo))
		return
	}
	if err != nil {
		saveFailed(w, r, http.StatusInternalServerError, "Error saving invoice: "+err.Error())
		return
	}
	location := saved.Location

	a.slog.Info("invoice saved",
		"invoice_no", invoiceNo,
		"client", saved.ClientName,
		"total", record[invoice.FieldTotalAmount],
		"location", location,
	)

	render.JSON(w, r, saveResponse{
		Success:    true,
		Message:    "Invoice saved successfully",
		OutputPath: location,
		ID:         saved.ID.String(),
	})
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

func (a *API) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, r, http.StatusBadRequest, "Invalid invoice id")
		return
	}

	inv, err := a.store.FindInvoice(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, r, http.StatusNotFound, "Invoice not found")
		return
	}
	if err != nil {
		jsonError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	render.JSON(w, r, inv)
}
