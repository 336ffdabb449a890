package smtp

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/petnfc-api/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	subjectOTP  = "One-Time Password Code"
	subjectScan = "Pet Tag Scanned Notification"
)

// Notifier renders the transactional templates and hands them to a Mailer.
type Notifier struct {
	mailer Mailer
	tmpl   *template.Template
}

func NewNotifier(m Mailer) (*Notifier, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Notifier{mailer: m, tmpl: tmpl}, nil
}

func (n *Notifier) SendOTP(ctx context.Context, u *domain.User, code string) error {
	return n.send(ctx, u.Email, subjectOTP, "otp.html", map[string]any{
		"FirstName": u.FirstName,
		"Code":      code,
	})
}

func (n *Notifier) SendScanNotification(ctx context.Context, u *domain.User, petName string, at domain.Coordinates, link string) error {
	return n.send(ctx, u.Email, subjectScan, "scan_notification.html", map[string]any{
		"FirstName": u.FirstName,
		"PetName":   petName,
		"Latitude":  at.Latitude,
		"Longitude": at.Longitude,
		"URL":       template.URL(link),
	})
}

func (n *Notifier) send(ctx context.Context, to, subject, name string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := n.render(name, data)
	if err != nil {
		return err
	}
	if err := n.mailer.SendEmail(to, subject, body); err != nil {
		return fmt.Errorf("send %s: %w", name, err)
	}
	return nil
}

func (n *Notifier) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := n.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
