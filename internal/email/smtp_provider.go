package email

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	config   *SMTPConfig
	dialer   *gomail.Dialer
	renderer TemplateRenderer
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(config *SMTPConfig, renderer TemplateRenderer) (*SMTPProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	// 465 - неявный TLS, остальные порты - STARTTLS, если сервер его предлагает
	dialer.SSL = config.UseTLS && config.Port == 465
	dialer.TLSConfig = &tls.Config{ServerName: config.Host, MinVersion: tls.VersionTLS12}

	return &SMTPProvider{
		config:   config,
		dialer:   dialer,
		renderer: renderer,
	}, nil
}

// SendTemplate рендерит шаблон и отправляет письмо.
// gomail открывает соединение на каждую отправку.
func (p *SMTPProvider) SendTemplate(to []string, subject, templateName string, data TemplateData) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients for %q", templateName)
	}
	if p.renderer == nil {
		return fmt.Errorf("template renderer is not configured")
	}

	htmlBody, err := p.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", templateName, err)
	}

	msg := p.buildMessage(&Email{To: to, Subject: subject, HTMLBody: htmlBody})
	if err := p.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %s: %w", templateName, err)
	}
	return nil
}

func (p *SMTPProvider) buildMessage(email *Email) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	switch {
	case email.HTMLBody != "" && email.Body != "":
		m.SetBody("text/plain", email.Body)
		m.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		m.SetBody("text/html", email.HTMLBody)
	default:
		m.SetBody("text/plain", email.Body)
	}
	return m
}
