package email

// Встроенные шаблоны уведомлений об откликах
const (
	TemplateNewApplication    = "new_application"
	TemplateApplicationStatus = "application_status"
)

// TemplateData - переменные шаблона письма
type TemplateData map[string]interface{}

// Email - готовое к отправке письмо
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Provider отправляет письма-уведомления об откликах.
// Реализации: SMTPProvider и логирующая заглушка для разработки.
type Provider interface {
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error
}

type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}
