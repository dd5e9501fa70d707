// Package content holds the content types served by the CMS and the
// dynamic-zone sections that pages are assembled from.
package content

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
)

// Collection and single type names as they appear in API paths.
const (
	ActivitiesPath   = "activities"
	HomePagePath     = "home-page"
	AboutPagePath    = "about-page"
	SiteSettingsPath = "site-setting"
)

// Category classifies an activity.
type Category string

const (
	CategoryAll       Category = "all"
	CategoryWorkshop  Category = "workshop"
	CategorySeminar   Category = "seminar"
	CategoryCommunity Category = "community"
	CategoryProject   Category = "project"
	CategoryOther     Category = "other"
)

// Categories lists the filterable categories in display order, "all" first.
var Categories = []Category{
	CategoryAll, CategoryWorkshop, CategorySeminar, CategoryCommunity, CategoryProject, CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryAll:       "全部",
	CategoryWorkshop:  "工作坊",
	CategorySeminar:   "讲座",
	CategoryCommunity: "社区活动",
	CategoryProject:   "项目",
	CategoryOther:     "其他",
}

// Label returns the display name; unknown categories are shown verbatim.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Activity is an entry of the activities collection.
type Activity struct {
	Title           string                               `json:"title"`
	Slug            string                               `json:"slug"`
	Description     string                               `json:"description,omitempty"`
	Content         string                               `json:"content,omitempty"`
	Category        Category                             `json:"category"`
	FeaturedImage   *strapi.SingleRelation[strapi.Image] `json:"featuredImage,omitempty"`
	StartDate       *time.Time                           `json:"startDate,omitempty"`
	EndDate         *time.Time                           `json:"endDate,omitempty"`
	Location        string                               `json:"location,omitempty"`
	RegistrationURL string                               `json:"registrationUrl,omitempty"`
	Capacity        *int                                 `json:"capacity,omitempty"`
	Tags            []string                             `json:"tags,omitempty"`
	Featured        bool                                 `json:"featured"`
	SEO             *SEO                                 `json:"seo,omitempty"`
	strapi.Timestamps
}

// Image returns the featured image, or nil.
func (a Activity) Image() *strapi.Image {
	return a.FeaturedImage.Attributes()
}

// Seats returns the capacity, or 0 when unlimited or unknown.
func (a Activity) Seats() int {
	if a.Capacity == nil || *a.Capacity < 0 {
		return 0
	}
	return *a.Capacity
}

// HomePage is the home-page single type.
type HomePage struct {
	Title    string   `json:"title,omitempty"`
	SEO      *SEO     `json:"seo,omitempty"`
	Sections Sections `json:"sections,omitempty"`
	strapi.Timestamps
}

// AboutPage is the about-page single type.
type AboutPage struct {
	Title    string   `json:"title,omitempty"`
	SEO      *SEO     `json:"seo,omitempty"`
	Sections Sections `json:"sections,omitempty"`
	strapi.Timestamps
}

// SEO is the shared seo component.
type SEO struct {
	MetaTitle       string                               `json:"metaTitle,omitempty"`
	MetaDescription string                               `json:"metaDescription,omitempty"`
	Keywords        string                               `json:"keywords,omitempty"`
	MetaImage       *strapi.SingleRelation[strapi.Image] `json:"metaImage,omitempty"`
	MetaRobots      string                               `json:"metaRobots,omitempty"`
	StructuredData  map[string]any                       `json:"structuredData,omitempty"`
	CanonicalURL    string                               `json:"canonicalUrl,omitempty"`
}

// Button is the shared button component.
type Button struct {
	ID           int    `json:"id,omitempty"`
	Label        string `json:"label"`
	URL          string `json:"url,omitempty"`
	Variant      string `json:"variant,omitempty"`
	Size         string `json:"size,omitempty"`
	OpenInNewTab bool   `json:"openInNewTab,omitempty"`
	Icon         string `json:"icon,omitempty"`
}

// FeatureItem is one card of a feature grid.
type FeatureItem struct {
	ID          int                                  `json:"id,omitempty"`
	Title       string                               `json:"title"`
	Description string                               `json:"description,omitempty"`
	Icon        string                               `json:"icon,omitempty"`
	Image       *strapi.SingleRelation[strapi.Image] `json:"image,omitempty"`
	Link        string                               `json:"link,omitempty"`
	LinkText    string                               `json:"linkText,omitempty"`
}

// NavLink is one navigation or footer link.
type NavLink struct {
	Label        string `json:"label"`
	URL          string `json:"url"`
	OpenInNewTab bool   `json:"openInNewTab,omitempty"`
}

// SocialLink points at a social media account. Older entries carry a
// platform instead of a name.
type SocialLink struct {
	Name     string `json:"name,omitempty"`
	Platform string `json:"platform,omitempty"`
	URL      string `json:"url"`
	Icon     string `json:"icon,omitempty"`
}

// Label returns the name, or the platform when no name is set.
func (s SocialLink) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Platform
}

// Footer is the layout footer component.
type Footer struct {
	ID             int          `json:"id,omitempty"`
	CopyrightText  string       `json:"copyrightText,omitempty"`
	Links          []NavLink    `json:"links,omitempty"`
	SocialLinks    []SocialLink `json:"socialLinks,omitempty"`
	AdditionalInfo string       `json:"additionalInfo,omitempty"`
}

// NavGroup is a legacy navigation block: {links: [...]}.
type NavGroup struct {
	Links []NavLink `json:"links"`
}

// NavGroups accepts either a single navigation block or a list of them.
type NavGroups []NavGroup

func (g *NavGroups) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var one NavGroup
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*g = NavGroups{one}
		return nil
	}
	var many []NavGroup
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*g = many
	return nil
}

// SiteSettings is the site-setting single type driving the navbar and footer.
type SiteSettings struct {
	SiteName        string                               `json:"siteName"`
	SiteDescription string                               `json:"siteDescription,omitempty"`
	SiteLogo        *strapi.SingleRelation[strapi.Image] `json:"siteLogo,omitempty"`
	Logo            *strapi.SingleRelation[strapi.Image] `json:"logo,omitempty"`
	Favicon         *strapi.SingleRelation[strapi.Image] `json:"favicon,omitempty"`
	DefaultSEO      *SEO                                 `json:"defaultSeo,omitempty"`
	Footer          *Footer                              `json:"footer,omitempty"`
	MainNavigation  []NavLink                            `json:"mainNavigation,omitempty"`
	Navigation      NavGroups                            `json:"navigation,omitempty"`
	SocialLinks     []SocialLink                         `json:"socialLinks,omitempty"`
	ContactEmail    string                               `json:"contactEmail,omitempty"`
	ContactPhone    string                               `json:"contactPhone,omitempty"`
	Address         string                               `json:"address,omitempty"`
	strapi.Timestamps
}

// NavLinks returns mainNavigation when present, else the links of the first
// legacy navigation block.
func (s *SiteSettings) NavLinks() []NavLink {
	if s == nil {
		return nil
	}
	if s.MainNavigation != nil {
		return s.MainNavigation
	}
	if len(s.Navigation) > 0 {
		return s.Navigation[0].Links
	}
	return nil
}

// LogoImage returns logo, falling back to siteLogo.
func (s *SiteSettings) LogoImage() *strapi.Image {
	if s == nil {
		return nil
	}
	if img := s.Logo.Attributes(); img != nil {
		return img
	}
	return s.SiteLogo.Attributes()
}
