// Package seed loads initial site content into the CMS.
package seed

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Keenwby/polaris-youth-platform/site/internal/content"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

//go:embed schemas/*.json
var schemaFS embed.FS

// Document is one entry as sent to the CMS.
type Document = map[string]any

// Fixtures is the content a seed run writes.
type Fixtures struct {
	Activities  []Document `yaml:"activities"`
	HomePage    Document   `yaml:"homePage"`
	AboutPage   Document   `yaml:"aboutPage"`
	SiteSetting Document   `yaml:"siteSetting"`
}

// DefaultFixtures returns the built-in fixtures.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

// ParseFixtures decodes YAML fixtures.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// Schema names.
const (
	SchemaActivity    = "activity"
	SchemaPage        = "page"
	SchemaSiteSetting = "site-setting"
)

// Validator checks documents against the embedded JSON schemas.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles the embedded schemas.
func NewValidator() (*Validator, error) {
	v := &Validator{schemas: map[string]*gojsonschema.Schema{}}
	for _, name := range []string{SchemaActivity, SchemaPage, SchemaSiteSetting} {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			return nil, err
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid json schema %s: %w", name, err)
		}
		v.schemas[name] = schema
	}
	return v, nil
}

// Validate checks doc against the named schema.
func (v *Validator) Validate(schema string, doc Document) error {
	s, ok := v.schemas[schema]
	if !ok {
		return fmt.Errorf("unknown schema %q", schema)
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("document invalid against schema: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ValidateFixtures checks every fixture and reports all problems at once.
// Activity slugs must also be unique.
func (v *Validator) ValidateFixtures(f *Fixtures) error {
	var errs []error
	slugs := map[string]int{}
	for i, a := range f.Activities {
		if err := v.Validate(SchemaActivity, a); err != nil {
			errs = append(errs, fmt.Errorf("activities[%d]: %w", i, err))
		}
		if slug, ok := a["slug"].(string); ok {
			if prev, dup := slugs[slug]; dup {
				errs = append(errs, fmt.Errorf("activities[%d]: slug %q already used by activities[%d]", i, slug, prev))
			}
			slugs[slug] = i
		}
	}
	for _, single := range []struct {
		name, schema string
		doc          Document
	}{
		{content.HomePagePath, SchemaPage, f.HomePage},
		{content.AboutPagePath, SchemaPage, f.AboutPage},
		{content.SiteSettingsPath, SchemaSiteSetting, f.SiteSetting},
	} {
		if single.doc == nil {
			continue
		}
		if err := v.Validate(single.schema, single.doc); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", single.name, err))
		}
	}
	return errors.Join(errs...)
}

// Slugs returns the activity slugs in fixture order.
func (f *Fixtures) Slugs() []string {
	out := make([]string, 0, len(f.Activities))
	for _, a := range f.Activities {
		slug, _ := a["slug"].(string)
		out = append(out, slug)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
