package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"text/template"
)

//go:embed templates
var embedded embed.FS

// Data carries the record-derived parameters of a prompt.
type Data struct {
	ID       string
	City     string
	Country  string
	Subtypes []string
	Count    int
}

// Manager handles loading and rendering of prompt templates.
type Manager struct {
	root *template.Template
}

// NewDefaultManager loads the templates built into the binary.
func NewDefaultManager() (*Manager, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	return NewManager(sub)
}

// NewDirManager loads templates from a directory on disk, or the built-in set
// when dir is empty.
func NewDirManager(dir string) (*Manager, error) {
	if dir == "" {
		return NewDefaultManager()
	}
	return NewManager(os.DirFS(dir))
}

// NewManager loads every .tmpl file of fsys. Files under common/ are parsed
// first and only contribute named blocks.
func NewManager(fsys fs.FS) (*Manager, error) {
	m := &Manager{}
	m.root = template.New("root").Funcs(template.FuncMap{
		"bullets": bulletsFunc,
	})

	if err := m.loadCommon(fsys); err != nil {
		return nil, fmt.Errorf("loading common templates: %w", err)
	}

	if err := m.loadTemplates(fsys); err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	return m, nil
}

func (m *Manager) loadCommon(fsys fs.FS) error {
	return fs.WalkDir(fsys, "common", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "common" && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}

		if d.IsDir() || !strings.HasSuffix(p, ".tmpl") {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}

		if _, err = m.root.Parse(string(content)); err != nil {
			return fmt.Errorf("parsing %s: %w", p, err)
		}
		return nil
	})
}

func (m *Manager) loadTemplates(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || path.Ext(p) != ".tmpl" || strings.HasPrefix(p, "common/") {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}

		if _, err = m.root.New(p).Parse(string(content)); err != nil {
			return fmt.Errorf("parsing %s: %w", p, err)
		}
		return nil
	})
}

// Has reports whether a template with the given name was loaded.
func (m *Manager) Has(name string) bool {
	return m.root.Lookup(name) != nil
}

// Render executes the named template with the provided data.
func (m *Manager) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := m.root.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// bulletsFunc formats a list as "- item" lines.
// Usage: {{bullets .Subtypes}}
func bulletsFunc(items []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "- " + it
	}
	return strings.Join(lines, "\n")
}
