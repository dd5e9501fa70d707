package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Keenwby/polaris-youth-platform/pkg/logger"
	"github.com/Keenwby/polaris-youth-platform/pkg/strapi"
	"github.com/Keenwby/polaris-youth-platform/site/internal/content"
)

// ObjectStore is the subset of Client the mirror needs.
type ObjectStore interface {
	EnsureBucket(ctx context.Context) error
	Stat(ctx context.Context, key string) (size int64, ok bool, err error)
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// Mirror copies media files from the CMS into an ObjectStore.
type Mirror struct {
	store    ObjectStore
	mediaURL string
	http     *http.Client
	workers  int
	logger   *slog.Logger
}

// NewMirror creates a Mirror resolving relative media paths against mediaURL.
func NewMirror(store ObjectStore, mediaURL string, hc *http.Client, workers int, l *slog.Logger) *Mirror {
	if hc == nil {
		hc = http.DefaultClient
	}
	if workers <= 0 {
		workers = 4
	}
	if l == nil {
		l = logger.Get()
	}
	return &Mirror{store: store, mediaURL: strings.TrimRight(mediaURL, "/"), http: hc, workers: workers, logger: l}
}

// SyncResult counts what a sync did.
type SyncResult struct {
	Uploaded []string
	Skipped  []string
	Failed   map[string]error
}

// Sync mirrors every url. Objects already present with the same size are
// skipped. Individual failures are collected; the returned error reports
// only problems that stop the whole run.
func (m *Mirror) Sync(ctx context.Context, urls []string) (*SyncResult, error) {
	if err := m.store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	var (
		mu  sync.Mutex
		res = &SyncResult{Failed: map[string]error{}}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for _, u := range urls {
		g.Go(func() error {
			uploaded, err := m.copy(gctx, u)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				res.Failed[u] = err
				m.logger.Warn("media copy failed", "url", u, "error", err)
			case uploaded:
				res.Uploaded = append(res.Uploaded, u)
			default:
				res.Skipped = append(res.Skipped, u)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	sort.Strings(res.Uploaded)
	sort.Strings(res.Skipped)
	return res, ctx.Err()
}

func (m *Mirror) copy(ctx context.Context, rawURL string) (bool, error) {
	key, err := ObjectKey(rawURL)
	if err != nil {
		return false, err
	}
	src := strapi.MediaURL(m.mediaURL, rawURL)

	size, exists, err := m.store.Stat(ctx, key)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	if exists {
		remote, err := m.remoteSize(ctx, src)
		if err != nil {
			return false, err
		}
		if remote >= 0 && remote == size {
			return false, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return false, err
	}
	resp, err := m.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("download %s: %s", rawURL, resp.Status)
	}
	if err := m.store.Put(ctx, key, resp.Body, resp.ContentLength, resp.Header.Get("Content-Type")); err != nil {
		return false, fmt.Errorf("upload %s: %w", key, err)
	}
	return true, nil
}

// remoteSize returns the Content-Length the CMS reports for src, or -1 when
// it sends none.
func (m *Mirror) remoteSize(ctx context.Context, src string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, src, nil)
	if err != nil {
		return 0, err
	}
	resp, err := m.http.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("head %s: %s", src, resp.Status)
	}
	return resp.ContentLength, nil
}

// ObjectKey maps a media url onto its object key: the url path without the
// leading slash, e.g. /uploads/a.jpg -> uploads/a.jpg.
func ObjectKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse media url %q: %w", rawURL, err)
	}
	key := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if key == "" {
		return "", fmt.Errorf("media url %q has no path", rawURL)
	}
	return key, nil
}

// MediaSet collects distinct media urls referenced by content.
type MediaSet struct {
	seen map[string]struct{}
	urls []string
}

// NewMediaSet creates an empty MediaSet.
func NewMediaSet() *MediaSet {
	return &MediaSet{seen: map[string]struct{}{}}
}

// URLs returns the collected urls sorted.
func (s *MediaSet) URLs() []string {
	out := append([]string(nil), s.urls...)
	sort.Strings(out)
	return out
}

func (s *MediaSet) addImage(img *strapi.Image) {
	if img == nil {
		return
	}
	for _, u := range img.URLs() {
		if u == "" {
			continue
		}
		if _, ok := s.seen[u]; ok {
			continue
		}
		s.seen[u] = struct{}{}
		s.urls = append(s.urls, u)
	}
}

func (s *MediaSet) addSEO(seo *content.SEO) {
	if seo != nil {
		s.addImage(seo.MetaImage.Attributes())
	}
}

// AddActivities adds featured and SEO images.
func (s *MediaSet) AddActivities(activities ...content.Activity) {
	for _, a := range activities {
		s.addImage(a.Image())
		s.addSEO(a.SEO)
	}
}

// AddSections adds images used by dynamic-zone sections.
func (s *MediaSet) AddSections(sections content.Sections) {
	for _, section := range sections {
		switch v := section.(type) {
		case *content.Hero:
			if v != nil {
				s.addImage(v.BackgroundImage.Attributes())
			}
		case *content.FeatureGrid:
			if v != nil {
				for _, f := range v.Features {
					s.addImage(f.Image.Attributes())
				}
			}
		case *content.ImageGallery:
			if v != nil {
				for _, img := range v.Images.Attributes() {
					s.addImage(&img)
				}
			}
		}
	}
}

// AddHomePage adds the images of the home page.
func (s *MediaSet) AddHomePage(p *content.HomePage) {
	if p != nil {
		s.addSEO(p.SEO)
		s.AddSections(p.Sections)
	}
}

// AddAboutPage adds the images of the about page.
func (s *MediaSet) AddAboutPage(p *content.AboutPage) {
	if p != nil {
		s.addSEO(p.SEO)
		s.AddSections(p.Sections)
	}
}

// AddSiteSettings adds the logos, favicon and default SEO image.
func (s *MediaSet) AddSiteSettings(settings *content.SiteSettings) {
	if settings == nil {
		return
	}
	s.addImage(settings.Logo.Attributes())
	s.addImage(settings.SiteLogo.Attributes())
	s.addImage(settings.Favicon.Attributes())
	s.addSEO(settings.DefaultSEO)
}
