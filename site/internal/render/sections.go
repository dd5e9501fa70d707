package render

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/Keenwby/polaris-youth-platform/pkg/logger"
	"github.com/Keenwby/polaris-youth-platform/site/internal/content"
	"github.com/Keenwby/polaris-youth-platform/site/internal/metrics"
)

var (
	heroHeights = map[string]string{
		"small":      "min-h-[300px]",
		"medium":     "min-h-[500px]",
		"large":      "min-h-[600px]",
		"fullscreen": "min-h-screen",
	}
	heroAlignments = map[string]string{
		"left":   "text-left items-start",
		"center": "text-center items-center",
		"right":  "text-right items-end",
	}
	richTextWidths = map[string]string{
		"narrow": "max-w-3xl",
		"medium": "max-w-5xl",
		"wide":   "max-w-7xl",
		"full":   "max-w-full",
	}
	featureColumns = map[int]string{
		1: "grid-cols-1",
		2: "md:grid-cols-2",
		3: "md:grid-cols-2 lg:grid-cols-3",
		4: "md:grid-cols-2 lg:grid-cols-4",
	}
	galleryColumns = map[int]string{
		2: "grid-cols-2",
		3: "grid-cols-2 md:grid-cols-3",
		4: "grid-cols-2 md:grid-cols-3 lg:grid-cols-4",
		5: "grid-cols-2 md:grid-cols-3 lg:grid-cols-5",
		6: "grid-cols-2 md:grid-cols-3 lg:grid-cols-6",
	}
	aspectRatios = map[string]string{
		"square":    "aspect-square",
		"landscape": "aspect-video",
		"portrait":  "aspect-[3/4]",
		"original":  "",
	}
)

// Section renders one dynamic-zone section. Unknown and malformed
// components are logged and render nothing.
func (r *Renderer) Section(ctx context.Context, section content.Section) (template.HTML, error) {
	switch s := section.(type) {
	case nil:
		return "", nil
	case *content.Hero:
		if s == nil {
			return "", nil
		}
		view, err := r.heroView(s)
		if err != nil {
			return "", err
		}
		return r.partial("section-hero", view)
	case *content.RichText:
		if s == nil {
			return "", nil
		}
		body, err := RichText(s.Content)
		if err != nil {
			return "", fmt.Errorf("render: rich text: %w", err)
		}
		return r.partial("section-rich-text", richTextView{
			WidthClass:      pick(richTextWidths, s.Layout, "medium"),
			BackgroundColor: template.CSS(safeColor(s.BackgroundColor)),
			Body:            body,
		})
	case *content.FeatureGrid:
		if s == nil {
			return "", nil
		}
		return r.partial("section-feature-grid", r.featureGridView(s))
	case *content.ActivityList:
		if s == nil {
			return "", nil
		}
		return r.partial("section-activity-list", newActivityListView(s))
	case *content.ImageGallery:
		if s == nil {
			return "", nil
		}
		view := r.galleryView(s)
		if len(view.Images) == 0 {
			return "", nil
		}
		return r.partial("section-image-gallery", view)
	case *content.Unknown:
		log := logger.WithTraceID(ctx, r.logger)
		if s.Err != nil {
			log.Warn("malformed section skipped", "component", s.Type, "error", s.Err)
			return "", nil
		}
		log.Warn("unknown component type", "component", s.Type)
		return "", nil
	default:
		return "", fmt.Errorf("render: unsupported section %T", section)
	}
}

// Sections renders a dynamic zone in order. A section that fails to render is
// logged and skipped so the rest of the page still shows.
func (r *Renderer) Sections(ctx context.Context, sections content.Sections) template.HTML {
	var b strings.Builder
	for i, section := range sections {
		html, err := r.Section(ctx, section)
		if err != nil {
			logger.WithTraceID(ctx, r.logger).Error("section render failed", "index", i, "error", err)
			continue
		}
		b.WriteString(string(html))
		metrics.SectionsRendered.WithLabelValues(componentLabel(section)).Inc()
	}
	return template.HTML(b.String())
}

func componentLabel(s content.Section) string {
	switch s.(type) {
	case nil:
		return "nil"
	case *content.Unknown:
		return "unknown"
	}
	return s.Component()
}

type buttonView struct {
	content.Button
	Class string
}

type heroView struct {
	*content.Hero
	BackgroundURL   string
	HeightClass     string
	AlignClass      string
	OverlayOpacity  string
	DescriptionHTML template.HTML
	Buttons         []buttonView
}

func (r *Renderer) heroView(s *content.Hero) (heroView, error) {
	view := heroView{
		Hero:        s,
		HeightClass: pick(heroHeights, s.Height, "large"),
		AlignClass:  pick(heroAlignments, s.Alignment, "center"),
	}
	if img := s.BackgroundImage.Attributes(); img != nil && img.URL != "" {
		view.BackgroundURL = r.MediaURL(img.URL)
	}
	if s.Overlay && view.BackgroundURL != "" {
		view.OverlayOpacity = strconv.FormatFloat(float64(clamp(s.OverlayOpacity, 0, 100))/100, 'f', -1, 64)
	}
	desc, err := RichText(s.Description)
	if err != nil {
		return view, fmt.Errorf("render: hero description: %w", err)
	}
	view.DescriptionHTML = desc
	for _, b := range s.CTAButtons {
		view.Buttons = append(view.Buttons, buttonView{Button: b, Class: buttonClass(b.Variant, b.Size)})
	}
	return view, nil
}

type richTextView struct {
	WidthClass      string
	BackgroundColor template.CSS
	Body            template.HTML
}

type featureView struct {
	content.FeatureItem
	ImageURL string
	LinkText string
}

type featureGridView struct {
	*content.FeatureGrid
	GridClass string
	Items     []featureView
}

func (r *Renderer) featureGridView(s *content.FeatureGrid) featureGridView {
	view := featureGridView{FeatureGrid: s, GridClass: "flex flex-col gap-6"}
	if s.Layout == "" || s.Layout == "grid" {
		cols, ok := featureColumns[s.Columns]
		if !ok {
			cols = featureColumns[3]
		}
		view.GridClass = "grid gap-8 " + cols
	}
	for _, f := range s.Features {
		item := featureView{FeatureItem: f, LinkText: f.LinkText}
		if img := f.Image.Attributes(); img != nil && img.URL != "" {
			item.ImageURL = r.MediaURL(img.URL)
		}
		if item.LinkText == "" {
			item.LinkText = "了解更多"
		}
		view.Items = append(view.Items, item)
	}
	return view
}

type categoryLink struct {
	Key    content.Category
	Label  string
	Active bool
}

type activityListView struct {
	*content.ActivityList
	Filters    []categoryLink
	Activities []content.Activity
	Failed     bool
	ListClass  string
}

func newActivityListView(s *content.ActivityList) activityListView {
	view := activityListView{ActivityList: s, ListClass: "flex flex-col gap-6"}
	if s.Layout == "" || s.Layout == "grid" {
		view.ListClass = "grid gap-6 md:grid-cols-2 lg:grid-cols-3"
	}
	selected := s.DefaultCategory
	if s.Feed != nil {
		selected = s.Feed.Category
		view.Activities = s.Feed.Activities
		view.Failed = s.Feed.Failed
	}
	if selected == "" {
		selected = content.CategoryAll
	}
	if s.ShowFilters {
		for _, c := range content.Categories {
			view.Filters = append(view.Filters, categoryLink{Key: c, Label: c.Label(), Active: c == selected})
		}
	}
	return view
}

type galleryImage struct {
	URL string
	Alt string
}

type galleryView struct {
	*content.ImageGallery
	GridClass   string
	AspectClass string
	Images      []galleryImage
}

func (r *Renderer) galleryView(s *content.ImageGallery) galleryView {
	view := galleryView{
		ImageGallery: s,
		GridClass:    "grid gap-4",
		AspectClass:  aspectRatios[s.AspectRatio],
	}
	if s.Layout == "grid" {
		if cols, ok := galleryColumns[s.Columns]; ok {
			view.GridClass += " " + cols
		}
	}
	for _, img := range s.Images.Attributes() {
		view.Images = append(view.Images, galleryImage{URL: r.MediaURL(img.URL), Alt: img.AltText()})
	}
	return view
}

func buttonClass(variant, size string) string {
	classes := []string{"inline-flex items-center justify-center rounded-md font-medium"}
	switch variant {
	case "secondary":
		classes = append(classes, "bg-secondary text-secondary-foreground")
	case "outline":
		classes = append(classes, "border border-input bg-background")
	case "ghost":
		classes = append(classes, "hover:bg-accent")
	case "destructive":
		classes = append(classes, "bg-destructive text-destructive-foreground")
	case "link":
		classes = append(classes, "text-primary underline-offset-4 hover:underline")
	default:
		classes = append(classes, "bg-primary text-primary-foreground")
	}
	switch size {
	case "sm":
		classes = append(classes, "h-9 px-3 text-sm")
	case "lg":
		classes = append(classes, "h-11 px-8 text-lg")
	default:
		classes = append(classes, "h-10 px-4 py-2")
	}
	return strings.Join(classes, " ")
}

func pick(m map[string]string, key, fallback string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return m[fallback]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// safeColor accepts #hex, rgb()/hsl() and plain color names.
func safeColor(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return ""
	}
	for _, r := range c {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("#(),.% ", r):
		default:
			return ""
		}
	}
	return c
}
