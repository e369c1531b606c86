package app

import (
	"scholarhub_backend/internal/email"
	"scholarhub_backend/internal/logger"
)

// MockEmailProvider используется для тестов и локальной разработки: письма только логируются.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(e *email.Email) error {
	logger.Debug("Mock email send", "to", e.To, "subject", e.Subject)
	return nil
}

func (m *MockEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	logger.Debug("Mock email send", "to", to, "subject", subject, "template", templateName)
	return nil
}

func (m *MockEmailProvider) Validate() error { return nil }
