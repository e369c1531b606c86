package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationStatusTemplate(t *testing.T) {
	tm := NewTemplateManager()

	out, err := tm.Render(TemplateApplicationStatus, TemplateData{
		"Name":        "Asha",
		"Scholarship": "Merit <Award>",
		"Status":      "Approved",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Dear Asha")
	assert.Contains(t, out, "<strong>Approved</strong>")
	assert.Contains(t, out, "Merit &lt;Award&gt;", "values are html-escaped")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := NewTemplateManager().Render("missing", nil)
	assert.ErrorContains(t, err, "template not found")
}

func TestGomailProviderValidate(t *testing.T) {
	cfg := DefaultConfig()
	p := NewGomailProvider(cfg, nil)
	assert.ErrorContains(t, p.Validate(), "sender address")

	cfg.FromEmail = "noreply@example.com"
	assert.NoError(t, p.Validate())

	cfg.Port = 0
	assert.Error(t, p.Validate())
}

func TestGomailProviderRequiresRenderer(t *testing.T) {
	p := NewGomailProvider(&SMTPConfig{Host: "localhost", Port: 25, FromEmail: "a@b.c"}, nil)
	err := p.SendTemplate([]string{"x@y.z"}, "s", TemplateApplicationStatus, nil)
	assert.ErrorContains(t, err, "renderer")
}
