package handler

import (
	"crypto/md5"
	"fmt"
	"net/http"

	"activities-be/internal/container"
	"activities-be/internal/render"
	"activities-be/pkg/redis"
)

// SDKHandler serves the embed script third-party pages load. The script body
// only changes on deploy, so it is cached in Redis and served with an ETag.
type SDKHandler struct {
	container *container.Container
}

// NewSDKHandler creates a new SDK handler
func NewSDKHandler(container *container.Container) *SDKHandler {
	return &SDKHandler{
		container: container,
	}
}

// GetScript handles GET /sdk/activities.js
func (h *SDKHandler) GetScript(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.container.GetLogger()

	var script string
	cache := h.container.GetRedisClient()
	if cache != nil {
		cached, err := cache.Get(ctx, cache.KeyBuilder.KeySDKScript())
		if err == nil && cached != "" {
			script = cached
		} else if err != nil && err != redis.Nil {
			logger.WithError(err).Warn("SDK script cache error, regenerating")
		}
	}

	if script == "" {
		script = render.SDK(h.container.GetConfig().PublicBaseURL)
		if cache != nil {
			if err := cache.Set(ctx, cache.KeyBuilder.KeySDKScript(), script, redis.TTLSDKScript); err != nil {
				logger.WithError(err).Warn("Failed to cache SDK script")
			}
		}
	}

	etag := fmt.Sprintf(`"%x"`, md5.Sum([]byte(script)))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("ETag", etag)
	w.Write([]byte(script))
}
