// Package observability lets the binary attach metrics to the render
// pipeline, the cache and the HTTP server without those packages importing a
// metrics backend.
//
// Hooks are registered once at startup; until then every call goes to a
// no-op implementation.
//
//	prom, _ := observability.NewPrometheus(prometheus.DefaultRegisterer)
//	prom.Install()
//
// Library code emits events through the accessors:
//
//	observability.Render().OnRenderStart(ctx, width, height, cells)
package observability

import (
	"context"
	"sync"
	"time"
)

// Render stages reported through RenderHooks.OnStageComplete.
const (
	StagePalette   = "palette"
	StageSites     = "sites"
	StageRasterize = "rasterize"
	StageSmooth    = "smooth"
	StageEncode    = "encode"
)

// RenderHooks receives events from the render pipeline.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, width, height, numCells int)
	OnStageComplete(ctx context.Context, stage string, duration time.Duration)
	OnRenderComplete(ctx context.Context, duration time.Duration, err error)
}

// CacheHooks receives events from result cache lookups.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events for served HTTP requests. OnRequest fires before
// routing and gets the raw path; OnResponse gets the matched route pattern.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, int, int, int)           {}
func (NoopRenderHooks) OnStageComplete(context.Context, string, time.Duration) {}
func (NoopRenderHooks) OnRenderComplete(context.Context, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers render hooks. nil is ignored.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
