package email

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var defaultTemplates = map[string]string{
	TemplateNewApplication: `<p>Hello {{.CompanyName}},</p>
<p><strong>{{.StudentName}}</strong> applied to your job posting "{{.JobTitle}}".</p>
<p>Review the application in your dashboard.</p>`,

	TemplateApplicationStatus: `<p>Hello {{.StudentName}},</p>
<p>Your application to "{{.JobTitle}}" at {{.CompanyName}} is now <strong>{{.Status}}</strong>.</p>`,
}

// TemplateManager реализует TemplateRenderer
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	for name, body := range defaultTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// AddTemplate добавляет или заменяет шаблон
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Option("missingkey=zero").Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}

// LoadTemplates загружает *.html из директории поверх встроенных шаблонов
func (tm *TemplateManager) LoadTemplates(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}
		return tm.AddTemplate(strings.TrimSuffix(filepath.Base(path), ".html"), string(content))
	})
}
