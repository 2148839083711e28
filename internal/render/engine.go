// Package render loads Django-syntax templates through pongo2 and renders
// pages and form fields.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates
var embedded embed.FS

// Templates returns the templates shipped with the binary.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Option configures an Engine before construction.
type Option func(*config)

type config struct {
	dir        string
	files      fs.FS
	debug      bool
	globalData map[string]any
}

// WithDir loads templates from a directory on disk ahead of the embedded set.
func WithDir(dir string) Option {
	return func(cfg *config) {
		cfg.dir = strings.TrimSpace(dir)
	}
}

// WithFS replaces the embedded templates with files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithDebug disables the template cache so edits show up on the next request.
func WithDebug(debug bool) Option {
	return func(cfg *config) {
		cfg.debug = debug
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine renders named templates from a pongo2 template set. It is safe for
// concurrent use.
type Engine struct {
	mu  sync.RWMutex
	set *pongo2.TemplateSet
}

// New constructs an Engine. Without options it serves the embedded templates.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.files == nil {
		cfg.files = Templates()
	}

	var loaders []pongo2.TemplateLoader
	if cfg.dir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.dir)
		if err != nil {
			return nil, fmt.Errorf("render: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	loaders = append(loaders, pongo2.NewFSLoader(cfg.files))

	set := pongo2.NewSet("bootstrap-forms", loaders...)
	set.Debug = cfg.debug
	if set.Globals == nil {
		set.Globals = make(pongo2.Context)
	}
	if len(cfg.globalData) > 0 {
		set.Globals.Update(pongo2.Context(cfg.globalData))
	}
	registerFilters()

	return &Engine{set: set}, nil
}

// RenderTemplate renders the template name with data and returns the output.
func (e *Engine) RenderTemplate(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := e.Render(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render renders the template name with data into w. Nothing is written to w
// when rendering fails.
func (e *Engine) Render(w io.Writer, name string, data map[string]any) error {
	if e == nil || e.set == nil {
		return errors.New("render: engine is nil")
	}

	tmpl, err := e.template(name)
	if err != nil {
		return err
	}

	ctx := pongo2.Context{}
	ctx.Update(pongo2.Context(data))

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("render: execute template %q: %w", name, err)
	}

	_, err = buf.WriteTo(w)
	return err
}

// GlobalContext adds data to the values every template sees.
func (e *Engine) GlobalContext(data map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.set.Globals.Update(pongo2.Context(data))
}

func (e *Engine) template(name string) (*pongo2.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tmpl, err := e.set.FromCache(name)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", name, err)
	}
	return tmpl, nil
}
