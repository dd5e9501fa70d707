// Package render turns content into HTML pages with html/template.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/Keenwby/polaris-youth-platform/pkg/logger"
	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
	"github.com/Keenwby/polaris-youth-platform/site/internal/content"
)

//go:embed templates static
var templateFS embed.FS

// Page template names.
const (
	PageSections    = "sections"
	PagePlaceholder = "placeholder"
	PageError       = "error"
	PageNotFound    = "notfound"
	PageActivities  = "activities"
	PageActivity    = "activity"
)

const defaultCopyright = "© 2025 北辰青年发展中心. All rights reserved."

// Options configures a Renderer.
type Options struct {
	MediaURL string         // base for relative media paths
	AdminURL string         // CMS admin link shown on placeholder pages
	Location *time.Location // display timezone for dates; nil keeps the value's own
	Logger   *slog.Logger
}

// Renderer renders sections and full pages. It is safe for concurrent use.
type Renderer struct {
	opts     Options
	logger   *slog.Logger
	partials *template.Template
	pages    map[string]*template.Template
}

// New parses the embedded templates.
func New(opts Options) (*Renderer, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Get()
	}
	if opts.AdminURL == "" && opts.MediaURL != "" {
		opts.AdminURL = strings.TrimRight(opts.MediaURL, "/") + "/admin"
	}
	r := &Renderer{opts: opts, logger: opts.Logger, pages: make(map[string]*template.Template)}

	base, err := template.New("base").Funcs(r.funcs()).ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("render: parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("render: list pages: %w", err)
	}
	for _, file := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("render: clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("render: parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	r.partials = base
	return r, nil
}

// Static returns the embedded stylesheet and other static assets.
func Static() http.FileSystem {
	sub, err := fs.Sub(templateFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"media":     r.MediaURL,
		"date":      func(t time.Time) string { return FormatDate(t, r.opts.Location) },
		"day":       func(t time.Time) string { return FormatDay(t, r.opts.Location) },
		"dateShort": func(t time.Time) string { return FormatDateShort(t, r.opts.Location) },
		"dateTime":  func(t time.Time) string { return FormatDateTime(t, r.opts.Location) },
		"shortTime": func(t time.Time) string { return FormatDateShortTime(t, r.opts.Location) },
		"truncate":  Truncate,
		"richText":  RichText,
		"category":  func(c content.Category) string { return c.Label() },
	}
}

// MediaURL resolves a media path against the configured media base.
func (r *Renderer) MediaURL(url string) string {
	return strapi.MediaURL(strings.TrimRight(r.opts.MediaURL, "/"), url)
}

// PageData is the input of every page template.
type PageData struct {
	Title       string // document title; empty shows the site name alone
	Description string
	Site        SiteView

	Body template.HTML // rendered sections

	Heading   string // placeholder, error and not-found pages
	Message   string
	Hint      string
	Admin     string
	BackURL   string
	BackLabel string

	Activities []content.Activity
	Activity   *content.Activity
	Category   content.Category
}

// Page renders the named page inside the site layout.
func (r *Renderer) Page(w io.Writer, name string, data *PageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("render: unknown page %q", name)
	}
	if data == nil {
		data = &PageData{}
	}
	if data.Admin == "" {
		data.Admin = r.opts.AdminURL
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render: page %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) partial(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.partials.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render: %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
