package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Keenwby/polaris-youth-platform/pkg/logger"
	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
	"github.com/Keenwby/polaris-youth-platform/site/internal/content"
)

const (
	// DefaultActivitySort lists the most recent activities first.
	DefaultActivitySort = "startDate:desc"
	// ActivitiesPageSize is the page size of the activities index.
	ActivitiesPageSize = 50
	// DefaultItemsPerPage applies to activity lists that leave it unset.
	DefaultItemsPerPage = 6
)

// Populate specs per content type. Dynamic-zone media and repeatable
// components are not returned unless named.
var (
	PagePopulate = strapi.Nest(
		strapi.Deep("sections",
			strapi.N("backgroundImage", strapi.All),
			strapi.N("ctaButtons", strapi.All),
			strapi.Deep("features", strapi.N("image", strapi.All)),
			strapi.N("images", strapi.All),
		),
		strapi.Deep("seo", strapi.N("metaImage", strapi.All)),
	)

	SiteSettingsPopulate = strapi.Nest(
		strapi.N("siteLogo", strapi.All),
		strapi.N("favicon", strapi.All),
		strapi.Deep("footer",
			strapi.N("links", strapi.All),
			strapi.N("socialLinks", strapi.All),
		),
		strapi.N("mainNavigation", strapi.All),
		strapi.N("socialLinks", strapi.All),
		strapi.Deep("defaultSeo", strapi.N("metaImage", strapi.All)),
	)

	ActivityCardPopulate = strapi.Fields("featuredImage")

	ActivityPopulate = strapi.Nest(
		strapi.N("featuredImage", strapi.All),
		strapi.Deep("seo", strapi.N("metaImage", strapi.All)),
	)
)

// ActivityQuery selects activities.
type ActivityQuery struct {
	Category     content.Category // "" or "all" means every category
	FeaturedOnly bool
	Page         int // 0 leaves the CMS default
	PageSize     int // 0 leaves the CMS default
	Sort         []string
}

// Options builds the fetch options for q.
func (q ActivityQuery) Options() strapi.FetchOptions {
	opts := strapi.FetchOptions{
		Sort:     q.Sort,
		Populate: ActivityCardPopulate,
	}
	if len(opts.Sort) == 0 {
		opts.Sort = []string{DefaultActivitySort}
	}
	if q.Category != "" && q.Category != content.CategoryAll {
		opts.Filters = append(opts.Filters, strapi.Eq("category", string(q.Category)))
	}
	if q.FeaturedOnly {
		opts.Filters = append(opts.Filters, strapi.Eq("featured", true))
	}
	if q.Page > 0 || q.PageSize > 0 {
		opts.Pagination = &strapi.Pagination{}
		if q.Page > 0 {
			opts.Pagination.Page = strapi.Int(q.Page)
		}
		if q.PageSize > 0 {
			opts.Pagination.PageSize = strapi.Int(q.PageSize)
		}
	}
	return opts
}

// ContentService reads site content from the CMS.
type ContentService struct {
	cms    strapi.Getter
	logger *slog.Logger
}

// NewContentService creates a ContentService. A nil logger uses the global one.
func NewContentService(cms strapi.Getter, l *slog.Logger) *ContentService {
	if l == nil {
		l = logger.Get()
	}
	return &ContentService{cms: cms, logger: l}
}

// HomePage returns the home page, or nil when it has not been created yet.
func (s *ContentService) HomePage(ctx context.Context) (*content.HomePage, error) {
	resp, err := strapi.FetchSingleType[content.HomePage](ctx, s.cms, content.HomePagePath, strapi.FetchOptions{Populate: PagePopulate})
	if err != nil {
		return nil, fmt.Errorf("fetch home page: %w", err)
	}
	return strapi.ExtractAttributes(resp.Data), nil
}

// AboutPage returns the about page, or nil when it has not been created yet.
func (s *ContentService) AboutPage(ctx context.Context) (*content.AboutPage, error) {
	resp, err := strapi.FetchSingleType[content.AboutPage](ctx, s.cms, content.AboutPagePath, strapi.FetchOptions{Populate: PagePopulate})
	if err != nil {
		return nil, fmt.Errorf("fetch about page: %w", err)
	}
	return strapi.ExtractAttributes(resp.Data), nil
}

// SiteSettings returns the global site settings, or nil when unset.
func (s *ContentService) SiteSettings(ctx context.Context) (*content.SiteSettings, error) {
	resp, err := strapi.FetchSingleType[content.SiteSettings](ctx, s.cms, content.SiteSettingsPath, strapi.FetchOptions{Populate: SiteSettingsPopulate})
	if err != nil {
		return nil, fmt.Errorf("fetch site settings: %w", err)
	}
	return strapi.ExtractAttributes(resp.Data), nil
}

// Activities lists activities matching q. The slice is never nil.
func (s *ContentService) Activities(ctx context.Context, q ActivityQuery) ([]content.Activity, *strapi.PaginationMeta, error) {
	resp, err := strapi.FetchCollection[content.Activity](ctx, s.cms, content.ActivitiesPath, q.Options())
	if err != nil {
		return nil, nil, fmt.Errorf("fetch activities: %w", err)
	}
	return strapi.ExtractAttributesArray(resp.Data), resp.Meta.Pagination, nil
}

// ActivityBySlug returns the activity with the given slug, or nil when none
// matches.
func (s *ContentService) ActivityBySlug(ctx context.Context, slug string) (*content.Activity, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	resp, err := strapi.FetchCollection[content.Activity](ctx, s.cms, content.ActivitiesPath, strapi.FetchOptions{
		Filters:    []strapi.Filter{strapi.Eq("slug", slug)},
		Pagination: &strapi.Pagination{PageSize: strapi.Int(1)},
		Populate:   ActivityPopulate,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch activity %q: %w", slug, err)
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return strapi.ExtractAttributes(&resp.Data[0]), nil
}

// ListQuery is the activity query an ActivityList section runs. category
// overrides the section default when filters are shown and it is valid.
func ListQuery(list *content.ActivityList, category content.Category) ActivityQuery {
	selected := list.DefaultCategory
	if list.ShowFilters && category.Valid() {
		selected = category
	}
	if selected == "" {
		selected = content.CategoryAll
	}
	pageSize := list.ItemsPerPage
	if pageSize <= 0 {
		pageSize = DefaultItemsPerPage
	}
	return ActivityQuery{
		Category:     selected,
		FeaturedOnly: list.ShowFeaturedOnly,
		PageSize:     pageSize,
	}
}

// ResolveActivityList fills list.Feed. A failed query is logged and recorded
// on the feed instead of failing the page.
func (s *ContentService) ResolveActivityList(ctx context.Context, list *content.ActivityList, category content.Category) {
	q := ListQuery(list, category)
	feed := &content.ActivityFeed{Category: q.Category}
	activities, _, err := s.Activities(ctx, q)
	if err != nil {
		logger.WithTraceID(ctx, s.logger).Error("activity list failed", "category", q.Category, "error", err)
		feed.Failed = true
	} else {
		feed.Activities = activities
	}
	list.Feed = feed
}
