package email

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_DefaultTemplates(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	out, err := tm.Render(TemplateApplicationStatus, TemplateData{
		"StudentName": "Ann <script>",
		"JobTitle":    "Go intern",
		"CompanyName": "Acme",
		"Status":      "interview",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Go intern")
	assert.Contains(t, out, "<strong>interview</strong>")
	// html/template экранирует пользовательские данные
	assert.Contains(t, out, "Ann &lt;script&gt;")

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestTemplateManager_LoadTemplatesOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new_application.html"), []byte("custom {{.JobTitle}}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	tm, err := NewTemplateManager()
	require.NoError(t, err)
	require.NoError(t, tm.LoadTemplates(dir))

	out, err := tm.Render(TemplateNewApplication, TemplateData{"JobTitle": "Analyst"})
	require.NoError(t, err)
	assert.Equal(t, "custom Analyst", out)
}

func TestSMTPConfig_Validate(t *testing.T) {
	assert.Error(t, (&SMTPConfig{}).Validate())
	assert.Error(t, (&SMTPConfig{Host: "smtp", Port: 70000, FromEmail: "a@b.c"}).Validate())
	assert.NoError(t, (&SMTPConfig{Host: "smtp", Port: 587, FromEmail: "a@b.c"}).Validate())
}
