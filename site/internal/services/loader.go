package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Keenwby/polaris-youth-platform/pkg/logger"
	"github.com/Keenwby/polaris-youth-platform/site/internal/content"
)

// maxListQueries bounds concurrent activity-list queries per page.
const maxListQueries = 4

// Loaded is a page together with the site settings for its layout.
// Settings is nil when they could not be loaded.
type Loaded[T any] struct {
	Settings *content.SiteSettings
	Page     *T
}

// PageLoader fetches a page and the site settings concurrently.
type PageLoader struct {
	content *ContentService
	logger  *slog.Logger
}

// NewPageLoader creates a PageLoader.
func NewPageLoader(cs *ContentService) *PageLoader {
	return &PageLoader{content: cs, logger: cs.logger}
}

// Content returns the underlying content service.
func (l *PageLoader) Content() *ContentService {
	return l.content
}

// Home loads the home page; category selects the activity-list filter.
func (l *PageLoader) Home(ctx context.Context, category content.Category) (*Loaded[content.HomePage], error) {
	loaded, err := load(ctx, l, l.content.HomePage)
	if err != nil {
		return loaded, err
	}
	if loaded.Page != nil {
		l.resolveLists(ctx, loaded.Page.Sections, category)
	}
	return loaded, nil
}

// About loads the about page; category selects the activity-list filter.
func (l *PageLoader) About(ctx context.Context, category content.Category) (*Loaded[content.AboutPage], error) {
	loaded, err := load(ctx, l, l.content.AboutPage)
	if err != nil {
		return loaded, err
	}
	if loaded.Page != nil {
		l.resolveLists(ctx, loaded.Page.Sections, category)
	}
	return loaded, nil
}

// Activities loads the activities index.
func (l *PageLoader) Activities(ctx context.Context, category content.Category) (*Loaded[[]content.Activity], error) {
	return load(ctx, l, func(ctx context.Context) (*[]content.Activity, error) {
		activities, _, err := l.content.Activities(ctx, ActivityQuery{Category: category, PageSize: ActivitiesPageSize})
		if err != nil {
			return nil, err
		}
		return &activities, nil
	})
}

// Activity loads one activity by slug. Page is nil when none matches.
func (l *PageLoader) Activity(ctx context.Context, slug string) (*Loaded[content.Activity], error) {
	return load(ctx, l, func(ctx context.Context) (*content.Activity, error) {
		return l.content.ActivityBySlug(ctx, slug)
	})
}

// Settings loads only the site settings, tolerating failure.
func (l *PageLoader) Settings(ctx context.Context) *content.SiteSettings {
	settings, err := l.content.SiteSettings(ctx)
	if err != nil {
		logger.WithTraceID(ctx, l.logger).Warn("site settings unavailable", "error", err)
		return nil
	}
	return settings
}

// load runs fetch and the site settings request in parallel. A settings
// failure is logged and leaves Settings nil; a page failure is returned
// together with whatever settings were loaded.
func load[T any](ctx context.Context, l *PageLoader, fetch func(context.Context) (*T, error)) (*Loaded[T], error) {
	var (
		loaded   Loaded[T]
		settings *content.SiteSettings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Independent of the page fetch so a page failure does not cancel it.
		settings = l.Settings(ctx)
		return nil
	})
	g.Go(func() error {
		page, err := fetch(gctx)
		if err != nil {
			return err
		}
		loaded.Page = page
		return nil
	})
	err := g.Wait()
	loaded.Settings = settings
	return &loaded, err
}

func (l *PageLoader) resolveLists(ctx context.Context, sections content.Sections, category content.Category) {
	var g errgroup.Group
	g.SetLimit(maxListQueries)
	for _, section := range sections {
		list, ok := section.(*content.ActivityList)
		if !ok || list == nil {
			continue
		}
		g.Go(func() error {
			l.content.ResolveActivityList(ctx, list, category)
			return nil
		})
	}
	_ = g.Wait()
}
