package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCustomPCNotFound   = &Error{Code: ENOTFOUND, Message: "Custom PC request not found"}
	ErrCustomPCTransition = &Error{Code: ECONFLICT, Message: "Custom PC request status transition not allowed"}
)

// Slot names a component position in a custom build.
type Slot string

const (
	SlotCPU         Slot = "cpu"
	SlotGPU         Slot = "gpu"
	SlotRAM         Slot = "ram"
	SlotMotherboard Slot = "motherboard"
	SlotStorage     Slot = "storage"
	SlotCase        Slot = "case"
	SlotPSU         Slot = "psu"
	SlotCooling     Slot = "cooling"
)

// Slots lists every slot in builder order.
var Slots = []Slot{SlotCPU, SlotGPU, SlotRAM, SlotMotherboard, SlotStorage, SlotCase, SlotPSU, SlotCooling}

// SlotCategory is the canonical catalog category that feeds each slot.
var SlotCategory = map[Slot]string{
	SlotCPU:         "CPU",
	SlotGPU:         "GPU",
	SlotRAM:         "RAM",
	SlotMotherboard: "Placa-Mãe",
	SlotStorage:     "SSD",
	SlotCase:        "Torre",
	SlotPSU:         "Fonte",
	SlotCooling:     "Refrigeração",
}

// CustomPCStatus is the admin review lifecycle.
type CustomPCStatus string

const (
	CustomPCPending   CustomPCStatus = "pending"
	CustomPCApproved  CustomPCStatus = "approved"
	CustomPCRejected  CustomPCStatus = "rejected"
	CustomPCCompleted CustomPCStatus = "completed"
)

// CanTransitionTo allows pending -> approved|rejected and approved -> completed.
func (s CustomPCStatus) CanTransitionTo(next CustomPCStatus) bool {
	switch s {
	case CustomPCPending:
		return next == CustomPCApproved || next == CustomPCRejected
	case CustomPCApproved:
		return next == CustomPCCompleted
	}
	return false
}

// CustomPCRequest is a submitted build awaiting admin review.
// Component fields hold product names; empty means the slot was left open.
type CustomPCRequest struct {
	ID              uuid.UUID       `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	CPU             string          `json:"cpu"`
	GPU             string          `json:"gpu"`
	RAM             string          `json:"ram"`
	RAMIncluded     bool            `json:"ram_included"`
	Motherboard     string          `json:"motherboard"`
	Storage         string          `json:"storage"`
	CaseType        string          `json:"case_type"`
	PowerSupply     string          `json:"power_supply"`
	Cooling         string          `json:"cooling"`
	AdditionalNotes string          `json:"additional_notes"`
	EstimatedPrice  decimal.Decimal `json:"estimated_price"`
	AssemblyFee     decimal.Decimal `json:"assembly_fee"`
	Status          CustomPCStatus  `json:"status"`
	AdminNotes      string          `json:"admin_notes"`
	CreatedAt       time.Time       `json:"created_at"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

// SetComponent records the product name for a slot.
func (r *CustomPCRequest) SetComponent(slot Slot, name string) {
	switch slot {
	case SlotCPU:
		r.CPU = name
	case SlotGPU:
		r.GPU = name
	case SlotRAM:
		r.RAM = name
	case SlotMotherboard:
		r.Motherboard = name
	case SlotStorage:
		r.Storage = name
	case SlotCase:
		r.CaseType = name
	case SlotPSU:
		r.PowerSupply = name
	case SlotCooling:
		r.Cooling = name
	}
}

// Component returns the product name recorded for a slot.
func (r *CustomPCRequest) Component(slot Slot) string {
	switch slot {
	case SlotCPU:
		return r.CPU
	case SlotGPU:
		return r.GPU
	case SlotRAM:
		return r.RAM
	case SlotMotherboard:
		return r.Motherboard
	case SlotStorage:
		return r.Storage
	case SlotCase:
		return r.CaseType
	case SlotPSU:
		return r.PowerSupply
	case SlotCooling:
		return r.Cooling
	}
	return ""
}

// CustomPCQuote is the priced selection shown before submission.
type CustomPCQuote struct {
	Components  map[Slot]*Product `json:"components"`
	IncludeRAM  bool              `json:"include_ram"`
	AssemblyFee decimal.Decimal   `json:"assembly_fee"`
	Total       decimal.Decimal   `json:"total"`
}
