package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Service handles email composition and sending
type Service struct {
	sender      Sender
	fromAddress string
	fromName    string
	adminInbox  string
	templates   map[string]*template.Template
}

// NewService parses the embedded templates. adminInbox receives shop
// notifications; empty disables them.
func NewService(sender Sender, fromAddress, fromName, adminInbox string) (*Service, error) {
	templates, err := parseTemplates(templateFS)
	if err != nil {
		return nil, err
	}

	return &Service{
		sender:      sender,
		fromAddress: fromAddress,
		fromName:    fromName,
		adminInbox:  adminInbox,
		templates:   templates,
	}, nil
}

// parseTemplates pairs the layout with each page so their blocks don't collide.
func parseTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	pages, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list email templates: %w", err)
	}

	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		if page == layoutFile {
			continue
		}
		tmpl, err := template.ParseFS(fsys, layoutFile, page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", page, err)
		}
		out[strings.TrimPrefix(page, "templates/")] = tmpl
	}
	return out, nil
}

// SendOrderConfirmation sends an order confirmation email
func (s *Service) SendOrderConfirmation(ctx context.Context, data OrderConfirmationEmail) error {
	if err := s.send(ctx, []string{data.CustomerEmail}, data, data); err != nil {
		return fmt.Errorf("failed to send order confirmation email: %w", err)
	}
	return nil
}

// SendCustomPCRequest notifies the admin inbox. A service without an
// inbox skips silently.
func (s *Service) SendCustomPCRequest(ctx context.Context, data CustomPCRequestEmail) error {
	if s.adminInbox == "" {
		return nil
	}
	if err := s.send(ctx, []string{s.adminInbox}, data, data); err != nil {
		return fmt.Errorf("failed to send custom pc notification: %w", err)
	}
	return nil
}

// SendCustomPCStatus tells the customer about a review decision.
func (s *Service) SendCustomPCStatus(ctx context.Context, data CustomPCStatusEmail) error {
	if err := s.send(ctx, []string{data.CustomerEmail}, data, data); err != nil {
		return fmt.Errorf("failed to send custom pc status email: %w", err)
	}
	return nil
}

func (s *Service) send(ctx context.Context, to []string, tmpl EmailTemplate, data interface{}) error {
	if len(to) == 0 || to[0] == "" {
		return ErrNoRecipient
	}

	htmlBody, textBody, err := s.renderTemplate(tmpl.TemplateName(), data)
	if err != nil {
		return err
	}

	email := &Email{
		To:       to,
		From:     fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress),
		ReplyTo:  s.adminInbox,
		Subject:  tmpl.Subject(),
		HTMLBody: htmlBody,
		TextBody: textBody,
	}

	_, err = s.sender.Send(ctx, email)
	return err
}

// Helper method to render a template
func (s *Service) renderTemplate(templateName string, data interface{}) (string, string, error) {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return "", "", ErrTemplateNotFound(templateName)
	}

	var htmlBuf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&htmlBuf, "email_layout", data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	htmlBody := htmlBuf.String()
	return htmlBody, generatePlainText(htmlBody), nil
}

// generatePlainText creates a simple plain text version from HTML
func generatePlainText(html string) string {
	text := html

	for _, br := range []string{"<br>", "<br/>", "<br />", "</tr>", "</div>"} {
		text = strings.ReplaceAll(text, br, "\n")
	}
	for _, block := range []string{"</p>", "</h1>", "</h2>", "</h3>"} {
		text = strings.ReplaceAll(text, block, "\n\n")
	}
	text = strings.ReplaceAll(text, "</td>", " ")

	for strings.Contains(text, "<") && strings.Contains(text, ">") {
		start := strings.Index(text, "<")
		end := strings.Index(text, ">")
		if start >= 0 && end > start {
			text = text[:start] + text[end+1:]
		} else {
			break
		}
	}

	text = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", "\"",
		"&#34;", "\"",
		"&#39;", "'",
	).Replace(text)

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
