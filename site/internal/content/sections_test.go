package content

import (
	"encoding/json"
	"testing"

	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homePageJSON = `{
  "data": {
    "id": 1,
    "attributes": {
      "title": "北辰青年发展中心",
      "seo": {"metaTitle": "Test"},
      "sections": [
        {"id": 1, "__component": "sections.hero", "title": "让青年活成自己想要的模样", "overlay": true,
         "ctaButtons": [{"id": 1, "label": "查看活动", "url": "/activities"}]},
        {"id": 2, "__component": "sections.rich-text", "content": "<h2>影响力</h2>", "layout": "wide"},
        {"id": 3, "__component": "sections.feature-grid", "title": "我们的愿景", "features": [{"title": "探索成长", "icon": "target"}]},
        {"id": 4, "__component": "sections.activity-list", "showFilters": false, "defaultCategory": "workshop"},
        {"id": 5, "__component": "sections.image-gallery", "images": {"data": [{"id": 9, "attributes": {"name": "a.jpg", "url": "/uploads/a.jpg"}}]}},
        {"id": 6, "__component": "sections.unknown-type", "foo": "bar"},
        null
      ],
      "createdAt": "2025-01-01",
      "updatedAt": "2025-01-01"
    }
  },
  "meta": {}
}`

func TestSections_DispatchOnComponent(t *testing.T) {
	var resp strapi.Response[*strapi.Entity[HomePage]]
	require.NoError(t, json.Unmarshal([]byte(homePageJSON), &resp))

	page := strapi.ExtractAttributes(resp.Data)
	require.NotNil(t, page)
	assert.Equal(t, "Test", page.SEO.MetaTitle)
	assert.Equal(t, "2025-01-01", page.CreatedAt)
	require.Len(t, page.Sections, 6)

	hero, ok := page.Sections[0].(*Hero)
	require.True(t, ok)
	assert.Equal(t, "让青年活成自己想要的模样", hero.Title)
	assert.True(t, hero.Overlay)
	assert.Equal(t, "center", hero.Alignment)
	assert.Equal(t, "large", hero.Height)
	assert.Equal(t, 50, hero.OverlayOpacity)
	require.Len(t, hero.CTAButtons, 1)
	assert.Equal(t, "/activities", hero.CTAButtons[0].URL)

	rich, ok := page.Sections[1].(*RichText)
	require.True(t, ok)
	assert.Equal(t, "wide", rich.Layout)

	grid, ok := page.Sections[2].(*FeatureGrid)
	require.True(t, ok)
	assert.Equal(t, 3, grid.Columns)
	assert.Equal(t, "grid", grid.Layout)
	assert.Equal(t, "target", grid.Features[0].Icon)

	list, ok := page.Sections[3].(*ActivityList)
	require.True(t, ok)
	assert.False(t, list.ShowFilters)
	assert.Equal(t, CategoryWorkshop, list.DefaultCategory)
	assert.Equal(t, "最新活动", list.Title)
	assert.Equal(t, 6, list.ItemsPerPage)

	gallery, ok := page.Sections[4].(*ImageGallery)
	require.True(t, ok)
	assert.Equal(t, "original", gallery.AspectRatio)
	require.Len(t, gallery.Images.Attributes(), 1)
	assert.Equal(t, "a.jpg", gallery.Images.Attributes()[0].AltText())

	unknown, ok := page.Sections[5].(*Unknown)
	require.True(t, ok)
	assert.Equal(t, "sections.unknown-type", unknown.Component())
	assert.JSONEq(t, `{"id": 6, "__component": "sections.unknown-type", "foo": "bar"}`, string(unknown.Raw))
}

func TestSections_EmptyAndMissing(t *testing.T) {
	var page HomePage
	require.NoError(t, json.Unmarshal([]byte(`{"sections": []}`), &page))
	assert.NotNil(t, page.Sections)
	assert.Empty(t, page.Sections)

	page = HomePage{}
	require.NoError(t, json.Unmarshal([]byte(`{"sections": null}`), &page))
	assert.Nil(t, page.Sections)

	page = HomePage{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &page))
	assert.Nil(t, page.Sections)
}

func TestSections_MalformedEntryKeepsOthers(t *testing.T) {
	var s Sections
	require.NoError(t, json.Unmarshal([]byte(`[
		{"__component":"sections.rich-text","content":"ok"},
		{"__component":"sections.feature-grid","columns":"3"},
		"junk",
		{"__component":5},
		{"__component":"sections.hero","title":"still here"}
	]`), &s))
	require.Len(t, s, 5)

	rich, ok := s[0].(*RichText)
	require.True(t, ok)
	assert.Equal(t, "ok", rich.Content)

	grid, ok := s[1].(*Unknown)
	require.True(t, ok)
	assert.Equal(t, ComponentFeatureGrid, grid.Type)
	require.Error(t, grid.Err)
	assert.Contains(t, grid.Err.Error(), "sections[1]")
	assert.JSONEq(t, `{"__component":"sections.feature-grid","columns":"3"}`, string(grid.Raw))

	junk, ok := s[2].(*Unknown)
	require.True(t, ok)
	assert.Empty(t, junk.Type)
	assert.Error(t, junk.Err)

	badTag, ok := s[3].(*Unknown)
	require.True(t, ok)
	assert.Empty(t, badTag.Type)
	assert.Error(t, badTag.Err)

	hero, ok := s[4].(*Hero)
	require.True(t, ok)
	assert.Equal(t, "still here", hero.Title)
}

func TestSections_NotAnArray(t *testing.T) {
	var s Sections
	assert.Error(t, json.Unmarshal([]byte(`{"__component": "sections.hero"}`), &s))
}

func TestDecodeSection_Malformed(t *testing.T) {
	_, err := DecodeSection(json.RawMessage(`{"__component": "sections.hero", "title": 5}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sections.hero")
}

func TestSections_MarshalRoundTrip(t *testing.T) {
	in := Sections{
		&Hero{Title: "关于北辰", Alignment: "center", Height: "medium"},
		&RichText{Content: "<p>x</p>"},
		&Unknown{Type: "sections.custom", Raw: json.RawMessage(`{"__component":"sections.custom","a":1}`)},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out Sections
	require.NoError(t, json.Unmarshal(b, &out))
	require.Len(t, out, 3)
	assert.Equal(t, "关于北辰", out[0].(*Hero).Title)
	assert.Equal(t, "medium", out[0].(*Hero).Height)
	assert.Equal(t, "<p>x</p>", out[1].(*RichText).Content)
	assert.Equal(t, "sections.custom", out[2].Component())

	var generic []map[string]any
	require.NoError(t, json.Unmarshal(b, &generic))
	assert.Equal(t, "sections.hero", generic[0]["__component"])
	assert.Equal(t, "sections.rich-text", generic[1]["__component"])
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "工作坊", CategoryWorkshop.Label())
	assert.Equal(t, "讲座", CategorySeminar.Label())
	assert.Equal(t, "社区活动", CategoryCommunity.Label())
	assert.Equal(t, "全部", CategoryAll.Label())
	assert.Equal(t, "hackathon", Category("hackathon").Label())
	assert.True(t, CategoryOther.Valid())
	assert.False(t, Category("").Valid())
}

func TestSiteSettings_NavLinks(t *testing.T) {
	var legacy SiteSettings
	require.NoError(t, json.Unmarshal([]byte(`{"siteName":"北辰","navigation":{"links":[{"label":"首页","url":"/"}]}}`), &legacy))
	assert.Equal(t, []NavLink{{Label: "首页", URL: "/"}}, legacy.NavLinks())

	var list SiteSettings
	require.NoError(t, json.Unmarshal([]byte(`{"navigation":[{"links":[{"label":"活动","url":"/activities"}]}]}`), &list))
	assert.Equal(t, "活动", list.NavLinks()[0].Label)

	var main SiteSettings
	require.NoError(t, json.Unmarshal([]byte(`{"mainNavigation":[],"navigation":{"links":[{"label":"x","url":"/"}]}}`), &main))
	assert.Empty(t, main.NavLinks())

	var none *SiteSettings
	assert.Nil(t, none.NavLinks())
	assert.Nil(t, none.LogoImage())
}

func TestSiteSettings_LogoFallback(t *testing.T) {
	var s SiteSettings
	require.NoError(t, json.Unmarshal([]byte(`{"logo":{"data":null},"siteLogo":{"data":{"id":1,"attributes":{"url":"/uploads/logo.png"}}}}`), &s))
	require.NotNil(t, s.LogoImage())
	assert.Equal(t, "/uploads/logo.png", s.LogoImage().URL)
}

func TestActivity_Decode(t *testing.T) {
	var a Activity
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "青年领导力工作坊", "slug": "youth-leadership-workshop", "category": "workshop",
		"startDate": "2025-01-15T06:00:00.000Z", "capacity": 30, "tags": ["领导力", "团队协作"],
		"featuredImage": {"data": null}, "featured": true
	}`), &a))
	require.NotNil(t, a.StartDate)
	assert.Equal(t, 6, a.StartDate.Hour())
	assert.Nil(t, a.EndDate)
	assert.Equal(t, 30, *a.Capacity)
	assert.Equal(t, []string{"领导力", "团队协作"}, a.Tags)
	assert.Nil(t, a.Image())
	assert.Equal(t, "工作坊", a.Category.Label())
}
