package content

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
)

// Component identifiers carried in the __component field of a dynamic zone.
const (
	ComponentHero         = "sections.hero"
	ComponentRichText     = "sections.rich-text"
	ComponentFeatureGrid  = "sections.feature-grid"
	ComponentActivityList = "sections.activity-list"
	ComponentImageGallery = "sections.image-gallery"
)

// Section is one block of a page's dynamic zone. The set of implementations
// is closed: Hero, RichText, FeatureGrid, ActivityList, ImageGallery and
// Unknown.
type Section interface {
	Component() string
	isSection()
}

// Hero is the full-width banner at the top of a page.
type Hero struct {
	ID              int                                  `json:"id,omitempty"`
	Title           string                               `json:"title"`
	Subtitle        string                               `json:"subtitle,omitempty"`
	Description     string                               `json:"description,omitempty"`
	BackgroundImage *strapi.SingleRelation[strapi.Image] `json:"backgroundImage,omitempty"`
	CTAButtons      []Button                             `json:"ctaButtons,omitempty"`
	Alignment       string                               `json:"alignment,omitempty"` // left | center | right
	Height          string                               `json:"height,omitempty"`    // small | medium | large | fullscreen
	Overlay         bool                                 `json:"overlay"`
	OverlayOpacity  int                                  `json:"overlayOpacity"`
}

// RichText is a block of HTML or Markdown content.
type RichText struct {
	ID              int    `json:"id,omitempty"`
	Content         string `json:"content"`
	Layout          string `json:"layout,omitempty"` // narrow | medium | wide | full
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// FeatureGrid shows feature cards in a grid or list.
type FeatureGrid struct {
	ID          int           `json:"id,omitempty"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Features    []FeatureItem `json:"features,omitempty"`
	Columns     int           `json:"columns,omitempty"`
	Layout      string        `json:"layout,omitempty"` // grid | list
}

// ActivityList lists activities, optionally filtered. Feed is filled in by
// the page loader before rendering.
type ActivityList struct {
	ID               int      `json:"id,omitempty"`
	Title            string   `json:"title,omitempty"`
	Description      string   `json:"description,omitempty"`
	ShowFilters      bool     `json:"showFilters"`
	DefaultCategory  Category `json:"defaultCategory,omitempty"`
	ItemsPerPage     int      `json:"itemsPerPage,omitempty"`
	Layout           string   `json:"layout,omitempty"` // grid | list
	ShowFeaturedOnly bool     `json:"showFeaturedOnly"`

	Feed *ActivityFeed `json:"-"`
}

// ActivityFeed is the server-side result of an ActivityList query.
type ActivityFeed struct {
	Category   Category
	Activities []Activity
	Failed     bool
}

// ImageGallery shows a set of images.
type ImageGallery struct {
	ID          int                                `json:"id,omitempty"`
	Title       string                             `json:"title,omitempty"`
	Images      strapi.ManyRelation[strapi.Image] `json:"images"`
	Layout      string                             `json:"layout,omitempty"` // masonry | grid | slider
	Columns     int                                `json:"columns,omitempty"`
	AspectRatio string                             `json:"aspectRatio,omitempty"` // square | landscape | portrait | original
}

// Unknown keeps a section whose component is not recognized, or whose
// entry could not be decoded. Err holds the decode failure in that case.
type Unknown struct {
	Type string
	Raw  json.RawMessage
	Err  error
}

func (*Hero) Component() string         { return ComponentHero }
func (*RichText) Component() string     { return ComponentRichText }
func (*FeatureGrid) Component() string  { return ComponentFeatureGrid }
func (*ActivityList) Component() string { return ComponentActivityList }
func (*ImageGallery) Component() string { return ComponentImageGallery }
func (u *Unknown) Component() string    { return u.Type }

func (*Hero) isSection()         {}
func (*RichText) isSection()     {}
func (*FeatureGrid) isSection()  {}
func (*ActivityList) isSection() {}
func (*ImageGallery) isSection() {}
func (*Unknown) isSection()      {}

// NewHero returns a hero with the component defaults applied.
func NewHero() *Hero {
	return &Hero{Alignment: "center", Height: "large", OverlayOpacity: 50}
}

// NewRichText returns a rich-text block with the component defaults applied.
func NewRichText() *RichText {
	return &RichText{Layout: "medium"}
}

// NewFeatureGrid returns a feature grid with the component defaults applied.
func NewFeatureGrid() *FeatureGrid {
	return &FeatureGrid{Columns: 3, Layout: "grid"}
}

// NewActivityList returns an activity list with the component defaults applied.
func NewActivityList() *ActivityList {
	return &ActivityList{
		Title:           "最新活动",
		ShowFilters:     true,
		DefaultCategory: CategoryAll,
		ItemsPerPage:    6,
		Layout:          "grid",
	}
}

// NewImageGallery returns a gallery with the component defaults applied.
func NewImageGallery() *ImageGallery {
	return &ImageGallery{Layout: "grid", Columns: 3, AspectRatio: "original"}
}

// newSection returns a defaulted zero value for a component, or nil.
func newSection(component string) Section {
	switch component {
	case ComponentHero:
		return NewHero()
	case ComponentRichText:
		return NewRichText()
	case ComponentFeatureGrid:
		return NewFeatureGrid()
	case ComponentActivityList:
		return NewActivityList()
	case ComponentImageGallery:
		return NewImageGallery()
	}
	return nil
}

// DecodeSection decodes one dynamic-zone entry. Fields missing from raw keep
// the component defaults. Unrecognized components decode to *Unknown.
func DecodeSection(raw json.RawMessage) (Section, error) {
	var head struct {
		Component string `json:"__component"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("section: %w", err)
	}
	section := newSection(head.Component)
	if section == nil {
		return &Unknown{Type: head.Component, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
	if err := json.Unmarshal(raw, section); err != nil {
		return nil, fmt.Errorf("section %s: %w", head.Component, err)
	}
	return section, nil
}

// Sections is a page's dynamic zone in display order.
type Sections []Section

// UnmarshalJSON dispatches every entry on its __component. Null entries are
// dropped. An entry that fails to decode is kept as *Unknown carrying the
// error, so the other sections of the page survive.
func (s *Sections) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	if raws == nil {
		*s = nil
		return nil
	}
	out := make(Sections, 0, len(raws))
	for i, raw := range raws {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		section, err := DecodeSection(raw)
		if err != nil {
			section = &Unknown{
				Type: componentOf(raw),
				Raw:  append(json.RawMessage(nil), raw...),
				Err:  fmt.Errorf("sections[%d]: %w", i, err),
			}
		}
		out = append(out, section)
	}
	*s = out
	return nil
}

// componentOf returns the __component of raw, or "" when raw is not an object
// or the field is not a string.
func componentOf(raw json.RawMessage) string {
	var head struct {
		Component json.RawMessage `json:"__component"`
	}
	if json.Unmarshal(raw, &head) != nil {
		return ""
	}
	var component string
	if json.Unmarshal(head.Component, &component) != nil {
		return ""
	}
	return component
}

// MarshalJSON writes every section back with its __component field.
func (s Sections) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, section := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalSection(section)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalSection(section Section) ([]byte, error) {
	if u, ok := section.(*Unknown); ok {
		if len(u.Raw) == 0 {
			return json.Marshal(map[string]string{"__component": u.Type})
		}
		return u.Raw, nil
	}
	body, err := json.Marshal(section)
	if err != nil {
		return nil, err
	}
	tag, err := json.Marshal(section.Component())
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+len(tag)+17)
	out = append(out, `{"__component":`...)
	out = append(out, tag...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	out = append(out, body[1:]...)
	return out, nil
}
