// Package templates loads the notification message catalogue and renders it.
package templates

import (
	"bytes"
	_ "embed"
	"fmt"
	"maps"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"

	"placement/internal/notification/models"
)

//go:embed templates.yaml
var defaultCatalogue []byte

type entry struct {
	Title            string `yaml:"title"`
	Message          string `yaml:"message"`
	Priority         string `yaml:"priority"`
	ActionType       string `yaml:"actionType"`
	AffectedItemType string `yaml:"affectedItemType"`
}

type compiled struct {
	entry
	title   *template.Template
	message *template.Template
}

// Catalogue maps a notification type to its parsed title and message bodies.
type Catalogue struct {
	entries map[models.Type]compiled
}

// Default returns the embedded catalogue.
func Default() (*Catalogue, error) {
	return Parse(defaultCatalogue)
}

// Load reads the catalogue at path, falling back to the embedded one when path is empty.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template catalogue: %w", err)
	}
	return Parse(raw)
}

// Parse compiles a YAML catalogue.
func Parse(raw []byte) (*Catalogue, error) {
	var doc map[string]entry
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode template catalogue: %w", err)
	}
	c := &Catalogue{entries: make(map[models.Type]compiled, len(doc))}
	for name, e := range doc {
		if e.Title == "" || e.Message == "" {
			return nil, fmt.Errorf("template %q: title and message are required", name)
		}
		if e.Priority != "" && !models.Priority(e.Priority).IsValid() {
			return nil, fmt.Errorf("template %q: unknown priority %q", name, e.Priority)
		}
		title, err := template.New(name + ".title").Option("missingkey=zero").Parse(e.Title)
		if err != nil {
			return nil, fmt.Errorf("template %q title: %w", name, err)
		}
		message, err := template.New(name + ".message").Option("missingkey=zero").Parse(e.Message)
		if err != nil {
			return nil, fmt.Errorf("template %q message: %w", name, err)
		}
		c.entries[models.Type(name)] = compiled{entry: e, title: title, message: message}
	}
	return c, nil
}

// Has reports whether t is in the catalogue.
func (c *Catalogue) Has(t models.Type) bool {
	_, ok := c.entries[t]
	return ok
}

// Render fills the template for msg.Type. Data is copied into the metadata.
func (c *Catalogue) Render(msg models.Message) (models.Template, error) {
	e, ok := c.entries[msg.Type]
	if !ok {
		return models.Template{}, fmt.Errorf("unknown notification type %q", msg.Type)
	}
	data := msg.Data
	if data == nil {
		data = map[string]string{}
	}

	var title, message bytes.Buffer
	if err := e.title.Execute(&title, data); err != nil {
		return models.Template{}, fmt.Errorf("render %s title: %w", msg.Type, err)
	}
	if err := e.message.Execute(&message, data); err != nil {
		return models.Template{}, fmt.Errorf("render %s message: %w", msg.Type, err)
	}

	return models.Template{
		Type:             msg.Type,
		Title:            title.String(),
		Message:          message.String(),
		ActionType:       e.ActionType,
		AffectedItemID:   msg.AffectedItemID,
		AffectedItemType: e.AffectedItemType,
		Metadata:         maps.Clone(data),
		Priority:         models.Priority(e.Priority),
	}, nil
}
