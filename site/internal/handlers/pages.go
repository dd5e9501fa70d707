// Package handlers serves the website pages.
package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Keenwby/polaris-youth-platform/pkg/errors"
	"github.com/Keenwby/polaris-youth-platform/pkg/logger"
	"github.com/Keenwby/polaris-youth-platform/site/internal/content"
	"github.com/Keenwby/polaris-youth-platform/site/internal/render"
	"github.com/Keenwby/polaris-youth-platform/site/internal/services"
)

const (
	msgLoadFailed = "无法加载页面内容"
	hintCMSDown   = "请确保 Strapi CMS 正在运行：docker-compose up"
)

// SiteInfo names the site when the CMS provides no settings.
type SiteInfo struct {
	Name        string
	Description string
}

// PageHandler renders the website pages from CMS content.
type PageHandler struct {
	loader   *services.PageLoader
	renderer *render.Renderer
	info     SiteInfo
	logger   *slog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(loader *services.PageLoader, renderer *render.Renderer, info SiteInfo, l *slog.Logger) *PageHandler {
	if l == nil {
		l = logger.Get()
	}
	return &PageHandler{loader: loader, renderer: renderer, info: info, logger: l}
}

// failure describes the error page of one route.
type failure struct {
	heading   string
	message   string
	hint      string
	backURL   string
	backLabel string
}

// Home renders the home page dynamic zone.
func (h *PageHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	loaded, err := h.loader.Home(ctx, categoryParam(c))
	site := h.site(loaded.Settings)
	if err != nil {
		h.fail(c, site, err, failure{heading: site.Name, message: msgLoadFailed, hint: hintCMSDown})
		return
	}
	page := loaded.Page
	if page == nil || len(page.Sections) == 0 {
		h.page(c, http.StatusOK, render.PagePlaceholder, &render.PageData{
			Site:    site,
			Heading: site.Name,
			Message: "请在 Strapi CMS 中配置主页内容",
			Hint:    "配置主页内容",
		})
		return
	}
	title, desc := seoText(page.SEO)
	h.page(c, http.StatusOK, render.PageSections, &render.PageData{
		Title:       title,
		Description: desc,
		Site:        site,
		Body:        h.renderer.Sections(ctx, page.Sections),
	})
}

// About renders the about page dynamic zone.
func (h *PageHandler) About(c *gin.Context) {
	ctx := c.Request.Context()
	loaded, err := h.loader.About(ctx, categoryParam(c))
	site := h.site(loaded.Settings)
	if err != nil {
		h.fail(c, site, err, failure{heading: "关于我们", message: msgLoadFailed, hint: hintCMSDown})
		return
	}
	page := loaded.Page
	if page == nil || len(page.Sections) == 0 {
		h.page(c, http.StatusOK, render.PagePlaceholder, &render.PageData{
			Title:   "关于我们",
			Site:    site,
			Heading: "关于我们",
			Message: "请在 Strapi CMS 中配置关于页面内容",
			Hint:    "配置关于页面内容",
		})
		return
	}
	title, desc := seoText(page.SEO)
	if title == "" {
		title = "关于我们"
	}
	h.page(c, http.StatusOK, render.PageSections, &render.PageData{
		Title:       title,
		Description: desc,
		Site:        site,
		Body:        h.renderer.Sections(ctx, page.Sections),
	})
}

// Activities renders the activities index.
func (h *PageHandler) Activities(c *gin.Context) {
	category := categoryParam(c)
	loaded, err := h.loader.Activities(c.Request.Context(), category)
	site := h.site(loaded.Settings)
	if err != nil {
		h.fail(c, site, err, failure{heading: "活动列表", message: "无法加载活动列表", hint: "请确保 Strapi CMS 正在运行"})
		return
	}
	var activities []content.Activity
	if loaded.Page != nil {
		activities = *loaded.Page
	}
	h.page(c, http.StatusOK, render.PageActivities, &render.PageData{
		Title:       "活动列表",
		Description: "探索" + site.Name + "的各类活动",
		Site:        site,
		Activities:  activities,
		Category:    category,
	})
}

// Activity renders one activity by slug.
func (h *PageHandler) Activity(c *gin.Context) {
	loaded, err := h.loader.Activity(c.Request.Context(), c.Param("slug"))
	site := h.site(loaded.Settings)
	if err != nil {
		h.fail(c, site, err, failure{
			heading:   "活动详情",
			message:   "无法加载活动详情",
			hint:      "请确保 Strapi CMS 正在运行",
			backURL:   "/activities",
			backLabel: "返回活动列表",
		})
		return
	}
	activity := loaded.Page
	if activity == nil {
		h.page(c, http.StatusNotFound, render.PageNotFound, &render.PageData{
			Title:   "活动不存在",
			Site:    site,
			Heading: "活动不存在",
			Message: "您访问的活动不存在或已被移除",
		})
		return
	}
	title, desc := seoText(activity.SEO)
	if title == "" {
		title = activity.Title
	}
	if desc == "" {
		desc = activity.Description
	}
	h.page(c, http.StatusOK, render.PageActivity, &render.PageData{
		Title:       title,
		Description: desc,
		Site:        site,
		Activity:    activity,
	})
}

// NotFound renders the 404 page for unknown routes.
func (h *PageHandler) NotFound(c *gin.Context) {
	site := h.site(h.loader.Settings(c.Request.Context()))
	h.page(c, http.StatusNotFound, render.PageNotFound, &render.PageData{Title: "页面不存在", Site: site})
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PageHandler) site(settings *content.SiteSettings) render.SiteView {
	return h.renderer.Site(settings, h.info.Name, h.info.Description)
}

// fail renders the error page for a failed page load. A 404 from the CMS
// renders the not-found page instead.
func (h *PageHandler) fail(c *gin.Context, site render.SiteView, err error, f failure) {
	appErr := fromCMS(err)
	_ = c.Error(err)
	log := logger.WithTraceID(c.Request.Context(), h.logger)
	if appErr.Code == http.StatusNotFound {
		log.Warn("page content not found", "path", c.Request.URL.Path, "error", err)
		h.page(c, http.StatusNotFound, render.PageNotFound, &render.PageData{Title: "页面不存在", Site: site})
		return
	}
	log.Error("page load failed", "path", c.Request.URL.Path, "error", err)
	h.page(c, appErr.Code, render.PageError, &render.PageData{
		Title:     f.heading,
		Site:      site,
		Heading:   f.heading,
		Message:   f.message,
		Hint:      f.hint,
		BackURL:   f.backURL,
		BackLabel: f.backLabel,
	})
}

func (h *PageHandler) page(c *gin.Context, status int, name string, data *render.PageData) {
	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, name, data); err != nil {
		appErr := apperrors.Internal(err)
		_ = c.Error(appErr)
		logger.WithTraceID(c.Request.Context(), h.logger).Error("page render failed", "page", name, "error", err)
		c.String(appErr.Code, appErr.Message)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// categoryParam returns the ?category= filter, or "" when absent or unknown.
func categoryParam(c *gin.Context) content.Category {
	category := content.Category(strings.ToLower(strings.TrimSpace(c.Query("category"))))
	if !category.Valid() {
		return ""
	}
	return category
}

func seoText(seo *content.SEO) (title, description string) {
	if seo == nil {
		return "", ""
	}
	return seo.MetaTitle, seo.MetaDescription
}
