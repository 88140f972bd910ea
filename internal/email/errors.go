package email

import (
	"fmt"

	"github.com/jokads/JokaTech/internal/domain"
)

var (
	// ErrInvalidFromAddress is returned when the from address is invalid.
	ErrInvalidFromAddress = &domain.Error{Code: domain.EINVALID, Message: "Invalid from email address"}

	// ErrInvalidToAddress is returned when the to address is invalid.
	ErrInvalidToAddress = &domain.Error{Code: domain.EINVALID, Message: "Invalid to email address"}

	// ErrNoRecipient is returned when a notification has nobody to go to.
	ErrNoRecipient = &domain.Error{Code: domain.EINVALID, Message: "Email has no recipient"}
)

// ErrTemplateNotFound creates a template not found error.
func ErrTemplateNotFound(templateName string) error {
	return &domain.Error{
		Code:    domain.ENOTFOUND,
		Op:      "email.render",
		Message: fmt.Sprintf("Email template %s not found", templateName),
	}
}
