package invoice

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"
	"github.com/angelofallars/hyperinvoice/app/component"
	"github.com/angelofallars/hyperinvoice/app/event"
	"github.com/angelofallars/hyperinvoice/internal/invoice"
	"github.com/angelofallars/hyperinvoice/internal/service"
	"github.com/angelofallars/hyperinvoice/pkg/invoiceapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

const sessionCookie = "invoice_session"

// Delivery months offered around the current month.
const (
	monthsBack  = 12
	monthsAhead = 3
)

type HandlerGroup struct {
	svc  service.Invoice
	slog *slog.Logger
	now  func() time.Time
}

func NewHandlerGroup(svc service.Invoice, slog *slog.Logger) *HandlerGroup {
	return &HandlerGroup{svc: svc, slog: slog, now: time.Now}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Get("/", hg.handlePage)
	r.Get("/form", hg.handleForm)
	r.Post("/field", hg.handleSetField)
	r.Post("/client", hg.handleSelectClient)
	r.Get("/clients", hg.handleGetClients)
	r.Post("/clients", hg.handleAddClient)
	r.Post("/validate", hg.handleValidate)
	r.Post("/invoice", hg.handleSaveInvoice)
	r.Post("/clear", hg.handleClear)
}

// sessionID returns the draft session of the request, starting one when
// the cookie is missing.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (hg *HandlerGroup) formProps(r *http.Request, draft *invoice.Draft) component.FormProps {
	clients, err := hg.svc.Clients(r.Context())
	if err != nil {
		hg.slog.Warn("could not load clients", "err", err)
	}
	return component.NewFormProps(draft.Fields(), draft.Result(), clients, invoice.Months(hg.now(), monthsBack, monthsAhead))
}

func (hg *HandlerGroup) handlePage(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)

	props := component.PageProps{}
	draft, err := hg.svc.Draft(r.Context(), id)
	if err != nil {
		hg.slog.Error("could not start draft", "err", err)
		draft = invoice.NewDraft(invoice.FieldSet{})
		props.ErrMessage = err.Error()
	}
	props.Form = hg.formProps(r, draft)

	templ.Handler(component.FullPage("Invoice Form", component.Page(props))).ServeHTTP(w, r)
}

func (hg *HandlerGroup) handleForm(w http.ResponseWriter, r *http.Request) {
	draft, err := hg.svc.Draft(r.Context(), sessionID(w, r))
	if err != nil {
		showError(w, http.StatusBadGateway, err)
		return
	}
	_ = htmx.NewResponse().RenderTempl(r.Context(), w, component.Form(hg.formProps(r, draft)))
}

// applyForm copies the editable posted fields into the draft and reports
// whether the calculation was refreshed.
func applyForm(r *http.Request, draft *invoice.Draft) (bool, error) {
	if err := r.ParseForm(); err != nil {
		return false, err
	}
	recomputed := false
	for name, values := range r.PostForm {
		f, ok := invoice.Lookup(name)
		if !ok || f.ReadOnly || name == invoice.FieldBudget || len(values) == 0 {
			continue
		}
		if draft.Set(name, values[len(values)-1]) {
			recomputed = true
		}
	}
	return recomputed, nil
}

func (hg *HandlerGroup) handleSetField(w http.ResponseWriter, r *http.Request) {
	draft, err := hg.svc.Draft(r.Context(), sessionID(w, r))
	if err != nil {
		showError(w, http.StatusBadGateway, err)
		return
	}

	recomputed, err := applyForm(r, draft)
	if err != nil {
		showError(w, http.StatusBadRequest, err)
		return
	}
	if !recomputed {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	_ = htmx.NewResponse().
		RenderTempl(r.Context(), w, component.Summary(component.NewSummaryProps(draft.Result())))
}

func (hg *HandlerGroup) handleSelectClient(w http.ResponseWriter, r *http.Request) {
	draft, err := hg.svc.Draft(r.Context(), sessionID(w, r))
	if err != nil {
		showError(w, http.StatusBadGateway, err)
		return
	}

	name := strings.TrimSpace(r.FormValue(invoice.FieldClientName))
	draft.Set(invoice.FieldClientName, name)

	clients, err := hg.svc.Clients(r.Context())
	if err != nil {
		hg.slog.Warn("could not load clients", "err", err)
	}
	for _, c := range clients {
		if c.Name == name && c.Address != "" {
			draft.Set(invoice.FieldClientAddress, c.Address)
			break
		}
	}

	_ = htmx.NewResponse().RenderTempl(r.Context(), w,
		component.ClientAddress(component.ClientAddressProps{Value: draft.Get(invoice.FieldClientAddress)}),
	)
}

func (hg *HandlerGroup) handleGetClients(w http.ResponseWriter, r *http.Request) {
	draft, err := hg.svc.Draft(r.Context(), sessionID(w, r))
	if err != nil {
		showError(w, http.StatusBadGateway, err)
		return
	}

	clients, err := hg.svc.Clients(r.Context())
	if err != nil {
		showError(w, http.StatusBadGateway, err)
		return
	}

	_ = htmx.NewResponse().RenderTempl(r.Context(), w, component.ClientSelect(component.ClientSelectProps{
		Clients:  clients,
		Selected: draft.Get(invoice.FieldClientName),
	}))
}

type AddClientRequest struct {
	Name    string `form:"name"`
	Address string `form:"address"`
}

// AddClientRequest satisfies [render.Binder]
func (req *AddClientRequest) Bind(r *http.Request) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" {
		return service.ErrEmptyClient
	}
	return nil
}

func (hg *HandlerGroup) handleAddClient(w http.ResponseWriter, r *http.Request) {
	req := &AddClientRequest{}
	if err := render.Bind(r, req); err != nil {
		showError(w, http.StatusBadRequest, err)
		return
	}

	draft, err := hg.svc.Draft(r.Context(), sessionID(w, r))
	if err != nil {
		showError(w, http.StatusBadGateway, err)
		return
	}

	if err := hg.svc.AddClient(r.Context(), req.Name, req.Address); err != nil {
		showError(w, statusFor(err), err)
		return
	}
	hg.slog.Info("client added", "name", req.Name)

	draft.Set(invoice.FieldClientName, req.Name)
	draft.Set(invoice.FieldClientAddress, req.Address)

	clients, err := hg.svc.Clients(r.Context())
	if err != nil {
		hg.slog.Warn("could not load clients", "err", err)
	}

	_ = htmx.NewResponse().
		AddTrigger(
			event.TriggerCloseAddClient,
			event.TriggerSetSuccessMessage(fmt.Sprintf("Client %s added successfully", req.Name)),
		).
		RenderTempl(r.Context(), w, component.AddedClient(clients, invoice.Client{Name: req.Name, Address: req.Address}))
}

func (hg *HandlerGroup) handleValidate(w http.ResponseWriter, r *http.Request) {
	draft, err := hg.svc.Draft(r.Context(), sessionID(w, r))
	if err != nil {
		showError(w, http.StatusBadGateway, err)
		return
	}
	if _, err := applyForm(r, draft); err != nil {
		showError(w, http.StatusBadRequest, err)
		return
	}

	problems, err := hg.svc.Validate(r.Context(), draft.Fields())
	if err != nil {
		showError(w, statusFor(err), err)
		return
	}
	if len(problems) > 0 {
		showError(w, http.StatusUnprocessableEntity, errors.New(strings.Join(problems, "\n")))
		return
	}

	showSuccess(w, "Invoice is valid")
}

func (hg *HandlerGroup) handleSaveInvoice(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	draft, err := hg.svc.Draft(r.Context(), id)
	if err != nil {
		showError(w, http.StatusBadGateway, err)
		return
	}
	if _, err := applyForm(r, draft); err != nil {
		showError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := hg.svc.Save(r.Context(), draft.Fields())
	if err != nil {
		showError(w, statusFor(err), err)
		return
	}
	if !resp.Success {
		showError(w, http.StatusBadGateway, errors.New("Error saving invoice: "+resp.Message))
		return
	}

	hg.slog.Info("invoice saved", "invoice_no", draft.Get(invoice.FieldInvoiceNo), "location", resp.OutputPath)
	hg.svc.Discard(id)

	_ = htmx.NewResponse().
		Reswap(htmx.SwapNone).
		AddTrigger(
			event.TriggerSetSuccessMessage("Invoice saved successfully! Location: "+resp.OutputPath),
			event.TriggerResetForm,
		).
		Write(w)
}

func (hg *HandlerGroup) handleClear(w http.ResponseWriter, r *http.Request) {
	hg.svc.Discard(sessionID(w, r))

	_ = htmx.NewResponse().
		Reswap(htmx.SwapNone).
		AddTrigger(
			event.TriggerSetErrMessage(""),
			event.TriggerSetSuccessMessage(""),
			event.TriggerResetForm,
		).
		Write(w)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingFields), errors.Is(err, service.ErrEmptyClient):
		return http.StatusBadRequest
	case errors.Is(err, invoiceapi.ErrRejected):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func showError(w http.ResponseWriter, code int, err error) {
	_ = htmx.NewResponse().
		StatusCode(code).
		Reswap(htmx.SwapNone).
		AddTrigger(event.TriggerSetErrMessage(err.Error())).
		Write(w)
}

func showSuccess(w http.ResponseWriter, message string) {
	_ = htmx.NewResponse().
		Reswap(htmx.SwapNone).
		AddTrigger(
			event.TriggerSetErrMessage(""),
			event.TriggerSetSuccessMessage(message),
		).
		Write(w)
}
