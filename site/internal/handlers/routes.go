package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Keenwby/polaris-youth-platform/site/internal/render"
)

// Register mounts the site routes on r.
func Register(r *gin.Engine, h *PageHandler) {
	r.GET("/health", Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.StaticFS("/static", render.Static())

	r.GET("/", h.Home)
	r.GET("/about", h.About)
	r.GET("/activities", h.Activities)
	r.GET("/activities/:slug", h.Activity)
	r.NoRoute(h.NotFound)
}
