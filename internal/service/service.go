package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/angelofallars/hyperinvoice/internal/invoice"
	"github.com/angelofallars/hyperinvoice/pkg/invoiceapi"
)

// Invoice is what the form host needs: a draft per session and the
// invoice service calls behind the form.
type Invoice interface {
	Draft(ctx context.Context, sessionID string) (*invoice.Draft, error)
	Discard(sessionID string)
	Clients(ctx context.Context) ([]invoice.Client, error)
	AddClient(ctx context.Context, name, address string) error
	Validate(ctx context.Context, fields invoice.FieldSet) ([]string, error)
	Save(ctx context.Context, fields invoice.FieldSet) (*invoiceapi.SaveResponse, error)
}

var (
	ErrMissingFields = errors.New("Please fill in all required fields")
	ErrEmptyClient   = errors.New("Client name cannot be empty")
)

// Shown when the invoice service cannot hand out a number.
const fallbackInvoiceNo = "AUTO-GENERATED"

const draftTTL = 24 * time.Hour

type session struct {
	draft    *invoice.Draft
	lastSeen time.Time
}

type invoiceService struct {
	client *invoiceapi.Client
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewInvoice(client *invoiceapi.Client) *invoiceService {
	return &invoiceService{
		client:   client,
		now:      time.Now,
		sessions: map[string]*session{},
	}
}

// Draft returns the session's draft, seeding a new one from the invoice
// service's initial data.
func (s *invoiceService) Draft(ctx context.Context, sessionID string) (*invoice.Draft, error) {
	s.mu.Lock()
	s.prune()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastSeen = s.now()
		s.mu.Unlock()
		return sess.draft, nil
	}
	s.mu.Unlock()

	data, err := s.client.GetInitialData(ctx)
	if err != nil {
		return nil, err
	}
	initial := invoice.FieldSet(data)
	if initial[invoice.FieldInvoiceNo] == "" {
		initial[invoice.FieldInvoiceNo] = s.nextInvoiceNumber(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess.draft, nil
	}
	draft := invoice.NewDraft(initial)
	s.sessions[sessionID] = &session{draft: draft, lastSeen: s.now()}
	return draft, nil
}

func (s *invoiceService) nextInvoiceNumber(ctx context.Context) string {
	n, err := s.client.GetNextInvoiceNumber(ctx)
	if err != nil || n == "" {
		return fallbackInvoiceNo
	}
	return n
}

// prune drops drafts idle for longer than draftTTL. Callers hold s.mu.
func (s *invoiceService) prune() {
	cutoff := s.now().Add(-draftTTL)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func (s *invoiceService) Discard(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.draft.Reset()
		delete(s.sessions, sessionID)
	}
}

// Clients never fails the form: a service error yields an empty list.
func (s *invoiceService) Clients(ctx context.Context) ([]invoice.Client, error) {
	entries, err := s.client.GetClients(ctx)
	if err != nil {
		return []invoice.Client{}, err
	}
	clients := make([]invoice.Client, 0, len(entries))
	for _, e := range entries {
		clients = append(clients, invoice.Client{Name: e.Name, Address: e.Address})
	}
	return clients, nil
}

func (s *invoiceService) AddClient(ctx context.Context, name, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyClient
	}
	_, err := s.client.AddClient(ctx, name, strings.TrimSpace(address))
	return err
}

func (s *invoiceService) Validate(ctx context.Context, fields invoice.FieldSet) ([]string, error) {
	resp, err := s.client.ValidateInvoice(ctx, withComputed(fields))
	if err != nil {
		return nil, err
	}
	return resp.Errors, nil
}

// Save checks the fields the host requires, attaches the computed budget and
// total and sends the record to the invoice service.
func (s *invoiceService) Save(ctx context.Context, fields invoice.FieldSet) (*invoiceapi.SaveResponse, error) {
	if len(invoice.Missing(fields, invoice.SubmitRequired)) > 0 {
		return nil, ErrMissingFields
	}
	return s.client.SaveInvoice(ctx, withComputed(fields))
}

func withComputed(fields invoice.FieldSet) invoiceapi.Fields {
	result := invoice.Compute(fields)
	record := fields.Clone()
	record[invoice.FieldBudget] = invoice.Fixed(result.Budget)
	record[invoice.FieldTotalAmount] = invoice.Fixed(result.TotalAmount)
	return invoiceapi.Fields(record)
}
