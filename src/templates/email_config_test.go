package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmailConfig(t *testing.T) {
	cfg, err := LoadEmailConfig()
	require.NoError(t, err)

	assert.Equal(t, "SCCBD", cfg.Branding.Name)
	assert.NotEmpty(t, cfg.Subjects.Activation)
	assert.NotEmpty(t, cfg.Subjects.PasswordReset)
	assert.NotEmpty(t, cfg.Activation.ButtonText)
	assert.NotEmpty(t, cfg.PasswordReset.ButtonText)
}

func TestRender_AllTemplates(t *testing.T) {
	cfg, err := LoadEmailConfig()
	require.NoError(t, err)

	link := "https://app.example.com/account-activation?token=abc&x=1"
	data := NewLinkEmailData(cfg, cfg.Activation, "", link)
	assert.Equal(t, "Hi there,", data.Greeting)

	for _, name := range []string{Activation, PasswordReset} {
		html, err := RenderHTML(name, data)
		require.NoError(t, err, name)
		assert.Contains(t, html, "token=abc&amp;x=1", "html output escapes the link")

		text, err := RenderText(name, data)
		require.NoError(t, err, name)
		assert.Contains(t, text, link)
		assert.True(t, strings.HasPrefix(text, "Hi there,"))
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := RenderHTML("missing", LinkEmailData{})
	assert.Error(t, err)
}
