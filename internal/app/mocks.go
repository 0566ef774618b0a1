package app

import (
	"campusjobs_backend/internal/email"
	"campusjobs_backend/internal/logger"
)

// logEmailProvider используется без SMTP: письма только логируются
type logEmailProvider struct{}

func (logEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	logger.Info("email (not sent)", "to", to, "subject", subject, "template", templateName)
	return nil
}
