package email

import (
	"time"
)

// EmailTemplate defines the interface for email templates
type EmailTemplate interface {
	Subject() string
	TemplateName() string
}

// OrderConfirmationEmail is sent to the customer once payment is confirmed.
type OrderConfirmationEmail struct {
	OrderNumber     string
	CustomerName    string
	CustomerEmail   string
	OrderDate       time.Time
	Items           []OrderItem
	Total           string
	ShippingAddress string
}

func (e OrderConfirmationEmail) Subject() string {
	return "Encomenda confirmada - " + e.OrderNumber
}

func (e OrderConfirmationEmail) TemplateName() string {
	return "order_confirmation.html"
}

// CustomPCRequestEmail notifies the shop inbox of a new build request.
type CustomPCRequestEmail struct {
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	Components     []ComponentLine
	EstimatedPrice string
	AssemblyFee    string
	Notes          string
}

func (e CustomPCRequestEmail) Subject() string {
	return "Novo pedido de PC personalizado - " + e.CustomerName
}

func (e CustomPCRequestEmail) TemplateName() string {
	return "custom_pc_request.html"
}

// CustomPCStatusEmail tells the customer their build request moved on.
type CustomPCStatusEmail struct {
	CustomerName  string
	CustomerEmail string
	Status        string
	AdminNotes    string
}

// StatusLabel is the Portuguese label shown in the email.
func (e CustomPCStatusEmail) StatusLabel() string {
	switch e.Status {
	case "approved":
		return "Aprovado"
	case "rejected":
		return "Rejeitado"
	case "completed":
		return "Concluído"
	}
	return e.Status
}

func (e CustomPCStatusEmail) Subject() string {
	return "O seu PC personalizado: " + e.StatusLabel()
}

func (e CustomPCStatusEmail) TemplateName() string {
	return "custom_pc_status.html"
}

// OrderItem represents a line item in an order
type OrderItem struct {
	Name      string
	Quantity  int
	LineTotal string
}

// ComponentLine is one slot of a custom build.
type ComponentLine struct {
	Label string
	Name  string
}
