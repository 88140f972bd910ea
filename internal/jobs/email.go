// Package jobs turns published events into notification work.
package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/email"
	"github.com/jokads/JokaTech/internal/events"
	"github.com/jokads/JokaTech/internal/pricing"
	"github.com/shopspring/decimal"
)

// Job type constants for email jobs
const (
	JobTypeOrderConfirmation = "email:order_confirmation"
	JobTypeCustomPCRequest   = "email:custom_pc_request"
)

// Mailer is the subset of email.Service the jobs need.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, data email.OrderConfirmationEmail) error
	SendCustomPCRequest(ctx context.Context, data email.CustomPCRequestEmail) error
}

// Job is one unit of notification work.
type Job struct {
	Type    string
	Event   events.Event
	Attempt int
}

// Key identifies the job in logs.
func (j Job) Key() string {
	switch {
	case j.Event.Order != nil:
		return j.Event.Order.ID.String()
	case j.Event.CustomPC != nil:
		return j.Event.CustomPC.ID.String()
	}
	return ""
}

// EventTypes lists the events that produce jobs.
var EventTypes = []events.Type{events.OrderConfirmed, events.CustomPCSubmit}

// FromEvent maps an event to its job. ok is false for events that need no
// notification or arrive without their payload.
func FromEvent(e events.Event) (job Job, ok bool) {
	switch {
	case e.Type == events.OrderConfirmed && e.Order != nil:
		return Job{Type: JobTypeOrderConfirmation, Event: e}, true
	case e.Type == events.CustomPCSubmit && e.CustomPC != nil:
		return Job{Type: JobTypeCustomPCRequest, Event: e}, true
	}
	return Job{}, false
}

// Process runs job against mailer.
func Process(ctx context.Context, job Job, mailer Mailer) error {
	switch job.Type {
	case JobTypeOrderConfirmation:
		return mailer.SendOrderConfirmation(ctx, OrderConfirmation(*job.Event.Order))
	case JobTypeCustomPCRequest:
		return mailer.SendCustomPCRequest(ctx, CustomPCRequest(*job.Event.CustomPC))
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// OrderConfirmation builds the customer email for a paid order.
func OrderConfirmation(o domain.Order) email.OrderConfirmationEmail {
	items := make([]email.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, email.OrderItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			LineTotal: pricing.Display(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))),
		})
	}
	return email.OrderConfirmationEmail{
		OrderNumber:     OrderNumber(o),
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		OrderDate:       o.CreatedAt,
		Items:           items,
		Total:           pricing.Display(o.TotalAmount),
		ShippingAddress: o.ShippingAddress,
	}
}

// OrderNumber is the short reference shown to customers.
func OrderNumber(o domain.Order) string {
	return "JT-" + strings.ToUpper(o.ID.String()[:8])
}

var slotLabels = map[domain.Slot]string{
	domain.SlotCPU:         "Processador",
	domain.SlotGPU:         "Placa Gráfica",
	domain.SlotRAM:         "Memória RAM",
	domain.SlotMotherboard: "Placa-Mãe",
	domain.SlotStorage:     "Armazenamento",
	domain.SlotCase:        "Torre",
	domain.SlotPSU:         "Fonte de Alimentação",
	domain.SlotCooling:     "Refrigeração",
}

// CustomPCRequest builds the shop inbox notification for a new build.
// Open slots are left out; RAM is marked when the customer brings their own.
func CustomPCRequest(r domain.CustomPCRequest) email.CustomPCRequestEmail {
	lines := make([]email.ComponentLine, 0, len(domain.Slots))
	for _, slot := range domain.Slots {
		name := r.Component(slot)
		if name == "" {
			continue
		}
		if slot == domain.SlotRAM && !r.RAMIncluded {
			name += " (não incluída)"
		}
		lines = append(lines, email.ComponentLine{Label: slotLabels[slot], Name: name})
	}
	return email.CustomPCRequestEmail{
		CustomerName:   r.CustomerName,
		CustomerEmail:  r.CustomerEmail,
		CustomerPhone:  r.CustomerPhone,
		Components:     lines,
		EstimatedPrice: pricing.Display(r.EstimatedPrice),
		AssemblyFee:    pricing.Display(r.AssemblyFee),
		Notes:          r.AdditionalNotes,
	}
}
