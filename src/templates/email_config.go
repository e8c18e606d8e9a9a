package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	textTemplate "text/template"

	"gopkg.in/yaml.v3"
)

//go:embed emails/*
var emailTemplates embed.FS

// EmailConfig holds email copy and branding from config.yaml
type EmailConfig struct {
	Branding struct {
		Name    string `yaml:"name"`
		Tagline string `yaml:"tagline"`
		Website string `yaml:"website"`
	} `yaml:"branding"`

	Design struct {
		PrimaryColor string `yaml:"primary_color"`
		TextColor    string `yaml:"text_color"`
		MutedColor   string `yaml:"muted_color"`
		CodeBg       string `yaml:"code_bg"`
		BorderColor  string `yaml:"border_color"`
	} `yaml:"design"`

	Subjects struct {
		Activation    string `yaml:"activation"`
		PasswordReset string `yaml:"password_reset"`
	} `yaml:"subjects"`

	Activation    MessageCopy `yaml:"activation"`
	PasswordReset MessageCopy `yaml:"password_reset"`
}

// MessageCopy is the text of a single transactional email
type MessageCopy struct {
	Intro           string `yaml:"intro"`
	ButtonText      string `yaml:"button_text"`
	AlternativeText string `yaml:"alternative_text"`
	IgnoreText      string `yaml:"ignore_text"`
}

// LoadEmailConfig loads email configuration from the embedded config.yaml
func LoadEmailConfig() (*EmailConfig, error) {
	data, err := emailTemplates.ReadFile("emails/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read email config: %w", err)
	}

	var config EmailConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse email config: %w", err)
	}

	return &config, nil
}

// LinkEmailData holds the values rendered into a link-carrying email
type LinkEmailData struct {
	Name string
	Link string

	BrandName       string
	Tagline         string
	Website         string
	Greeting        string
	Intro           string
	ButtonText      string
	AlternativeText string
	IgnoreText      string

	PrimaryColor string
	TextColor    string
	MutedColor   string
	CodeBg       string
	BorderColor  string
}

// NewLinkEmailData fills branding and copy from config for one recipient
func NewLinkEmailData(cfg *EmailConfig, msg MessageCopy, name, link string) LinkEmailData {
	if name == "" {
		name = "there"
	}
	return LinkEmailData{
		Name:            name,
		Link:            link,
		BrandName:       cfg.Branding.Name,
		Tagline:         cfg.Branding.Tagline,
		Website:         cfg.Branding.Website,
		Greeting:        fmt.Sprintf("Hi %s,", name),
		Intro:           msg.Intro,
		ButtonText:      msg.ButtonText,
		AlternativeText: msg.AlternativeText,
		IgnoreText:      msg.IgnoreText,
		PrimaryColor:    cfg.Design.PrimaryColor,
		TextColor:       cfg.Design.TextColor,
		MutedColor:      cfg.Design.MutedColor,
		CodeBg:          cfg.Design.CodeBg,
		BorderColor:     cfg.Design.BorderColor,
	}
}

// Template names under emails/
const (
	Activation    = "activation"
	PasswordReset = "password-reset"
)

// RenderHTML renders emails/<name>.html
func RenderHTML(name string, data LinkEmailData) (string, error) {
	tmplData, err := emailTemplates.ReadFile("emails/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("failed to read %s.html: %w", name, err)
	}

	tmpl, err := template.New(name).Parse(string(tmplData))
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", name, err)
	}
	return buf.String(), nil
}

// RenderText renders emails/<name>.txt
func RenderText(name string, data LinkEmailData) (string, error) {
	tmplData, err := emailTemplates.ReadFile("emails/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("failed to read %s.txt: %w", name, err)
	}

	tmpl, err := textTemplate.New(name + "-text").Parse(string(tmplData))
	if err != nil {
		return "", fmt.Errorf("failed to parse %s text template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s text template: %w", name, err)
	}
	return buf.String(), nil
}
