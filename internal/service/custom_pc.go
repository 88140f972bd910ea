package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jokads/JokaTech/internal/catalog"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/email"
	"github.com/jokads/JokaTech/internal/events"
	"github.com/jokads/JokaTech/internal/pricing"
	"github.com/jokads/JokaTech/internal/repository"
	"github.com/jokads/JokaTech/internal/telemetry"
	"github.com/shopspring/decimal"
)

// CustomPCService prices custom builds and manages the admin review of
// submitted requests.
type CustomPCService interface {
	// Quote prices a selection. Every selected product must exist and
	// belong to its slot's category.
	Quote(ctx context.Context, sel ComponentSelection) (*domain.CustomPCQuote, error)

	// Submit stores a request in pending status and announces it so the
	// shop inbox is notified.
	Submit(ctx context.Context, sub CustomPCSubmission) (*domain.CustomPCRequest, error)

	List(ctx context.Context, status domain.CustomPCStatus) ([]domain.CustomPCRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.CustomPCRequest, error)

	Approve(ctx context.Context, id uuid.UUID, notes string) (*domain.CustomPCRequest, error)
	Reject(ctx context.Context, id uuid.UUID, notes string) (*domain.CustomPCRequest, error)
	Complete(ctx context.Context, id uuid.UUID, notes string) (*domain.CustomPCRequest, error)

	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*domain.CustomPCRequest, error)
}

// CustomPCMailer sends review decisions to the customer.
type CustomPCMailer interface {
	SendCustomPCStatus(ctx context.Context, data email.CustomPCStatusEmail) error
}

// ComponentSelection maps slots to chosen product ids.
type ComponentSelection struct {
	Components map[domain.Slot]uuid.UUID `json:"components"`
	IncludeRAM bool                      `json:"include_ram"`
}

// CustomPCSubmission is the builder form.
type CustomPCSubmission struct {
	ComponentSelection
	CustomerName    string `json:"customer_name" validate:"required,max=200"`
	CustomerEmail   string `json:"customer_email" validate:"required,email,max=255"`
	CustomerPhone   string `json:"customer_phone" validate:"max=40"`
	AdditionalNotes string `json:"additional_notes" validate:"max=2000"`
}

type customPCService struct {
	repo    repository.Querier
	bus     events.Bus
	mailer  CustomPCMailer
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

// NewCustomPCService creates a CustomPCService. mailer may be nil, in
// which case no status emails are sent.
func NewCustomPCService(repo repository.Querier, bus events.Bus, mailer CustomPCMailer, metrics *telemetry.BusinessMetrics, logger *slog.Logger) CustomPCService {
	return &customPCService{
		repo:    repo,
		bus:     bus,
		mailer:  mailer,
		metrics: metrics,
		logger:  logger,
	}
}

func isKnownSlot(slot domain.Slot) bool {
	_, ok := domain.SlotCategory[slot]
	return ok
}

func (s *customPCService) Quote(ctx context.Context, sel ComponentSelection) (*domain.CustomPCQuote, error) {
	const op = "custom_pc.quote"

	ids := make([]uuid.UUID, 0, len(sel.Components))
	for slot, id := range sel.Components {
		if !isKnownSlot(slot) {
			return nil, domain.Errorf(domain.EINVALID, op, "unknown component slot %q", slot)
		}
		if id == uuid.Nil {
			continue
		}
		ids = append(ids, id)
	}

	byID := make(map[uuid.UUID]domain.Product, len(ids))
	if len(ids) > 0 {
		pgIDs := make([]pgtype.UUID, 0, len(ids))
		for _, id := range ids {
			pgIDs = append(pgIDs, repository.UUID(id))
		}
		rows, err := s.repo.GetProductsByIDs(ctx, pgIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load components: %w", err)
		}
		products, err := productsFromRows(rows)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			byID[p.ID] = p
		}
	}

	quote := &domain.CustomPCQuote{
		Components:  make(map[domain.Slot]*domain.Product, len(domain.Slots)),
		IncludeRAM:  sel.IncludeRAM,
		AssemblyFee: pricing.AssemblyFee,
	}
	prices := make(map[domain.Slot]*decimal.Decimal, len(domain.Slots))
	for _, slot := range domain.Slots {
		id, ok := sel.Components[slot]
		if !ok || id == uuid.Nil {
			quote.Components[slot] = nil
			continue
		}
		p, found := byID[id]
		if !found {
			return nil, ErrComponentNotFound
		}
		if !catalog.Matches(p.Category, domain.SlotCategory[slot]) {
			return nil, ErrComponentCategory
		}
		price := p.Price
		prices[slot] = &price
		quote.Components[slot] = &p
	}

	quote.Total = pricing.CustomPCTotal(pricing.Selection{Components: prices, IncludeRAM: sel.IncludeRAM})
	return quote, nil
}

func (s *customPCService) Submit(ctx context.Context, sub CustomPCSubmission) (*domain.CustomPCRequest, error) {
	const op = "custom_pc.submit"

	sub.CustomerName = strings.TrimSpace(sub.CustomerName)
	sub.CustomerEmail = strings.TrimSpace(sub.CustomerEmail)
	sub.CustomerPhone = strings.TrimSpace(sub.CustomerPhone)
	sub.AdditionalNotes = strings.TrimSpace(sub.AdditionalNotes)

	err := validateStruct(op, sub)
	if err != nil && !domain.IsValidationError(err) {
		return nil, err
	}
	if sub.Components[domain.SlotCPU] == uuid.Nil {
		if err == nil {
			err = domain.NewValidationError(op, "cpu", "is required")
		} else {
			err = domain.AddFieldError(err, "cpu", "is required")
		}
	}
	if err != nil {
		return nil, err
	}

	quote, err := s.Quote(ctx, sub.ComponentSelection)
	if err != nil {
		return nil, err
	}

	req := domain.CustomPCRequest{RAMIncluded: sub.IncludeRAM}
	for slot, p := range quote.Components {
		if p != nil {
			req.SetComponent(slot, p.Name)
		}
	}

	row, err := s.repo.CreateCustomPCRequest(ctx, repository.CreateCustomPCRequestParams{
		CustomerName:    sub.CustomerName,
		CustomerEmail:   sub.CustomerEmail,
		CustomerPhone:   sub.CustomerPhone,
		Cpu:             req.CPU,
		Gpu:             req.GPU,
		Ram:             req.RAM,
		RamIncluded:     req.RAMIncluded,
		Motherboard:     req.Motherboard,
		Storage:         req.Storage,
		CaseType:        req.CaseType,
		PowerSupply:     req.PowerSupply,
		Cooling:         req.Cooling,
		AdditionalNotes: sub.AdditionalNotes,
		EstimatedPrice:  repository.Numeric(quote.Total),
		AssemblyFee:     repository.Numeric(quote.AssemblyFee),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create custom pc request: %w", err)
	}

	created := customPCFromRow(row)
	s.metrics.RecordCustomPC(string(created.Status))
	s.logger.Info("custom pc request submitted",
		"request_id", created.ID,
		"estimated_price", pricing.Display(created.EstimatedPrice),
	)
	publish(ctx, s.bus, s.logger, events.NewCustomPCSubmitted(created))
	return &created, nil
}

func (s *customPCService) List(ctx context.Context, status domain.CustomPCStatus) ([]domain.CustomPCRequest, error) {
	rows, err := s.repo.ListCustomPCRequests(ctx, repository.Text(string(status)))
	if err != nil {
		return nil, fmt.Errorf("failed to list custom pc requests: %w", err)
	}
	out := make([]domain.CustomPCRequest, 0, len(rows))
	for _, r := range rows {
		out = append(out, customPCFromRow(r))
	}
	return out, nil
}

func (s *customPCService) Get(ctx context.Context, id uuid.UUID) (*domain.CustomPCRequest, error) {
	row, err := s.repo.GetCustomPCRequest(ctx, repository.UUID(id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCustomPCNotFound
		}
		return nil, fmt.Errorf("failed to get custom pc request: %w", err)
	}
	r := customPCFromRow(row)
	return &r, nil
}

func (s *customPCService) Approve(ctx context.Context, id uuid.UUID, notes string) (*domain.CustomPCRequest, error) {
	return s.transition(ctx, id, domain.CustomPCApproved, notes)
}

func (s *customPCService) Reject(ctx context.Context, id uuid.UUID, notes string) (*domain.CustomPCRequest, error) {
	return s.transition(ctx, id, domain.CustomPCRejected, notes)
}

func (s *customPCService) Complete(ctx context.Context, id uuid.UUID, notes string) (*domain.CustomPCRequest, error) {
	return s.transition(ctx, id, domain.CustomPCCompleted, notes)
}

func (s *customPCService) transition(ctx context.Context, id uuid.UUID, to domain.CustomPCStatus, notes string) (*domain.CustomPCRequest, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(to) {
		return nil, domain.ErrCustomPCTransition
	}

	row, err := s.repo.TransitionCustomPCRequest(ctx, repository.TransitionCustomPCRequestParams{
		ID:         repository.UUID(id),
		Status:     string(to),
		FromStatus: string(current.Status),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCustomPCTransition
		}
		return nil, fmt.Errorf("failed to update custom pc request: %w", err)
	}

	if notes = strings.TrimSpace(notes); notes != "" {
		row, err = s.repo.UpdateCustomPCNotes(ctx, repository.UpdateCustomPCNotesParams{
			ID:         row.ID,
			AdminNotes: notes,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update admin notes: %w", err)
		}
	}

	updated := customPCFromRow(row)
	s.metrics.RecordCustomPC(string(to))
	s.logger.Info("custom pc request status changed",
		"request_id", id,
		"from", current.Status,
		"to", to,
	)
	s.notifyCustomer(ctx, updated)
	return &updated, nil
}

// notifyCustomer is best effort; the status change stands either way.
func (s *customPCService) notifyCustomer(ctx context.Context, r domain.CustomPCRequest) {
	if s.mailer == nil {
		return
	}
	err := s.mailer.SendCustomPCStatus(ctx, email.CustomPCStatusEmail{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Status:        string(r.Status),
		AdminNotes:    r.AdminNotes,
	})
	s.metrics.RecordEmail("custom_pc_status", err)
	if err != nil {
		s.logger.Warn("failed to send custom pc status email",
			"request_id", r.ID,
			"error", err,
		)
	}
}

func (s *customPCService) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*domain.CustomPCRequest, error) {
	row, err := s.repo.UpdateCustomPCNotes(ctx, repository.UpdateCustomPCNotesParams{
		ID:         repository.UUID(id),
		AdminNotes: strings.TrimSpace(notes),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCustomPCNotFound
		}
		return nil, fmt.Errorf("failed to update admin notes: %w", err)
	}
	r := customPCFromRow(row)
	return &r, nil
}
