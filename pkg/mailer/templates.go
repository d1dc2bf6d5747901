package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	templateVerification  = "verification"
	templatePasswordReset = "password_reset"
)

// CodeEmail carries the data for one-time code emails.
type CodeEmail struct {
	Name          string
	Brand         string
	Code          string
	ExpiryMinutes int
}

// Renderer builds the HTML bodies for transactional emails.
type Renderer struct {
	brand     string
	templates map[string]*template.Template
}

func NewRenderer(brand string) (*Renderer, error) {
	if strings.TrimSpace(brand) == "" {
		brand = "ShopDesk"
	}
	r := &Renderer{brand: brand, templates: make(map[string]*template.Template)}
	for _, name := range []string{templateVerification, templatePasswordReset} {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// VerificationEmail renders the email-verification code message.
func (r *Renderer) VerificationEmail(to, name, code string, ttl time.Duration) (Message, error) {
	return r.codeMessage(templateVerification, "Verify your email", to, name, code, ttl)
}

// PasswordResetEmail renders the password-reset code message.
func (r *Renderer) PasswordResetEmail(to, name, code string, ttl time.Duration) (Message, error) {
	return r.codeMessage(templatePasswordReset, "Reset your password", to, name, code, ttl)
}

func (r *Renderer) codeMessage(name, subject, to, recipient, code string, ttl time.Duration) (Message, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown template %s", name)
	}
	data := CodeEmail{
		Name:          strings.TrimSpace(recipient),
		Brand:         r.brand,
		Code:          code,
		ExpiryMinutes: int(ttl.Minutes()),
	}
	if data.Name == "" {
		data.Name = "there"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("%s: %s", r.brand, subject),
		HTML:    buf.String(),
		Text:    fmt.Sprintf("Your %s code is %s. It expires in %d minutes.", r.brand, code, data.ExpiryMinutes),
	}, nil
}
