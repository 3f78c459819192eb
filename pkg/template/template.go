package template

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/boattime/portfolio/pkg/errors"
)

// Ext is the template file extension.
const Ext = ".tmpl"

// Template is a named, parsed template.
type Template struct {
	Name    string
	Content string
	Nodes   []Node
}

// FromString parses template content under the given name.
func FromString(name, content string) (*Template, error) {
	nodes, err := Parse(content)
	if err != nil {
		return nil, err
	}
	return &Template{Name: name, Content: content, Nodes: nodes}, nil
}

// FromFile reads and parses a template file. The template name is the
// file name without its extension.
func FromFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedTemplate, "failed to read template file", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return FromString(name, string(data))
}
