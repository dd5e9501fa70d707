package render

import (
	"html/template"

	"github.com/Keenwby/polaris-youth-platform/site/internal/content"
)

// DefaultNav is shown when the CMS provides no navigation.
var DefaultNav = []content.NavLink{
	{Label: "首页", URL: "/"},
	{Label: "活动", URL: "/activities"},
	{Label: "关于我们", URL: "/about"},
}

// SiteView is the navbar and footer data shared by every page.
type SiteView struct {
	Name        string
	Description string
	LogoURL     string
	Nav         []content.NavLink
	Footer      *FooterView
}

type FooterView struct {
	CopyrightText  string
	Links          []content.NavLink
	SocialLinks    []content.SocialLink
	AdditionalInfo template.HTML
}

// Site builds the layout view. settings may be nil when the CMS is
// unreachable; fallbackName and description then fill in.
func (r *Renderer) Site(settings *content.SiteSettings, fallbackName, description string) SiteView {
	view := SiteView{Name: fallbackName, Description: description, Nav: DefaultNav}
	if settings == nil {
		return view
	}
	if settings.SiteName != "" {
		view.Name = settings.SiteName
	}
	if settings.SiteDescription != "" {
		view.Description = settings.SiteDescription
	}
	if logo := settings.LogoImage(); logo != nil {
		view.LogoURL = r.MediaURL(logo.URL)
	}
	if settings.MainNavigation != nil || len(settings.Navigation) > 0 {
		view.Nav = settings.NavLinks()
	}
	if f := settings.Footer; f != nil {
		footer := &FooterView{
			CopyrightText: f.CopyrightText,
			Links:         f.Links,
			SocialLinks:   f.SocialLinks,
		}
		if footer.CopyrightText == "" {
			footer.CopyrightText = defaultCopyright
		}
		info, err := RichText(f.AdditionalInfo)
		if err != nil {
			r.logger.Warn("footer additional info not rendered", "error", err)
		}
		footer.AdditionalInfo = info
		view.Footer = footer
	}
	return view
}
