package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/Keenwby/polaris-youth-platform/pkg/logger"
	"github.com/Keenwby/polaris-youth-platform/site/internal/content"
	"github.com/Keenwby/polaris-youth-platform/site/internal/metrics"
)

// Writer is the part of the content API client a seed run uses.
type Writer interface {
	Create(ctx context.Context, collection string, data, out any) error
	Update(ctx context.Context, path string, data, out any) error
}

// Options tunes a Seeder.
type Options struct {
	Workers int        // concurrent activity creations; default 4
	Rate    rate.Limit // requests per second across all workers; default 10
	Logger  *slog.Logger
}

// Seeder writes fixtures into the CMS.
type Seeder struct {
	cms       Writer
	validator *Validator
	workers   int
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// New creates a Seeder.
func New(cms Writer, opts Options) (*Seeder, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Rate <= 0 {
		opts.Rate = 10
	}
	if opts.Logger == nil {
		opts.Logger = logger.Get()
	}
	return &Seeder{
		cms:       cms,
		validator: validator,
		workers:   opts.Workers,
		limiter:   rate.NewLimiter(opts.Rate, opts.Workers),
		logger:    opts.Logger,
	}, nil
}

// Report lists what a run created, updated and failed to write.
type Report struct {
	Created []string         // activity slugs
	Updated []string         // single type names
	Failed  map[string]error // activity slug or single type name
}

// Err joins every failure, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, key := range sortedKeys(r.Failed) {
		errs = append(errs, fmt.Errorf("%s: %w", key, r.Failed[key]))
	}
	return errors.Join(errs...)
}

// Run validates f, creates the activities concurrently and then updates the
// single types in order. Invalid fixtures abort the run before any write;
// individual write failures are recorded in the report.
func (s *Seeder) Run(ctx context.Context, f *Fixtures) (*Report, error) {
	if err := s.validator.ValidateFixtures(f); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	report := &Report{Failed: map[string]error{}}
	if err := s.createActivities(ctx, f, report); err != nil {
		return report, err
	}

	for _, single := range []struct {
		path string
		doc  Document
	}{
		{content.HomePagePath, f.HomePage},
		{content.AboutPagePath, f.AboutPage},
		{content.SiteSettingsPath, f.SiteSetting},
	} {
		if single.doc == nil {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}
		err := s.cms.Update(ctx, single.path, single.doc, nil)
		metrics.Observe("seed_update", err)
		if err != nil {
			s.logger.Error("seed update failed", "type", single.path, "error", err)
			report.Failed[single.path] = err
			continue
		}
		s.logger.Info("seed updated", "type", single.path)
		report.Updated = append(report.Updated, single.path)
	}
	return report, nil
}

func (s *Seeder) createActivities(ctx context.Context, f *Fixtures, report *Report) error {
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	pool, err := ants.NewPool(s.workers, ants.WithPanicHandler(func(v any) {
		s.logger.Error("seed worker panic", "panic", v)
	}))
	if err != nil {
		return fmt.Errorf("seed pool: %w", err)
	}
	defer pool.Release()

	created := make([]bool, len(f.Activities))
	slugs := f.Slugs()
	for i, activity := range f.Activities {
		slug := slugs[i]
		wg.Add(1)
		task := func() {
			defer wg.Done()
			err := s.limiter.Wait(ctx)
			if err == nil {
				err = s.cms.Create(ctx, content.ActivitiesPath, activity, nil)
				metrics.Observe("seed_activity", err)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Error("seed activity failed", "slug", slug, "error", err)
				report.Failed[slug] = err
				return
			}
			s.logger.Info("seed activity created", "slug", slug)
			created[i] = true
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			report.Failed[slug] = err
			mu.Unlock()
		}
	}
	wg.Wait()

	for i, ok := range created {
		if ok {
			report.Created = append(report.Created, slugs[i])
		}
	}
	return ctx.Err()
}
