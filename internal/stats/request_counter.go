package stats

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// RequestCounter 接口请求统计
// 记录总请求数、失败数和每个路由的计数，并按时间窗口估算 QPS
type RequestCounter struct {
	total  int64
	failed int64

	mu       sync.RWMutex
	routes   map[string]*RouteStats
	current  window
	previous window
	span     time.Duration
}

type window struct {
	count int64
	start time.Time
}

// RouteStats 单个路由的统计
type RouteStats struct {
	Route  string `json:"route"`
	Total  int64  `json:"total"`
	Failed int64  `json:"failed"`
}

// Snapshot 统计快照
type Snapshot struct {
	Total      int64        `json:"total"`
	Failed     int64        `json:"failed"`
	CurrentQPS float64      `json:"current_qps"`
	Routes     []RouteStats `json:"routes"`
}

// NewRequestCounter 创建请求统计，span 为 0 时使用 60 秒窗口
// ctx 结束后停止滚动窗口
func NewRequestCounter(ctx context.Context, span time.Duration) *RequestCounter {
	if span <= 0 {
		span = 60 * time.Second
	}

	now := time.Now()
	rc := &RequestCounter{
		routes:   make(map[string]*RouteStats),
		current:  window{start: now},
		previous: window{start: now.Add(-span)},
		span:     span,
	}

	go rc.rotate(ctx)
	return rc
}

// Record 记录一次请求，status >= 400 计为失败
func (rc *RequestCounter) Record(route string, status int) {
	atomic.AddInt64(&rc.total, 1)
	failed := status >= 400
	if failed {
		atomic.AddInt64(&rc.failed, 1)
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.current.count++
	rs, ok := rc.routes[route]
	if !ok {
		rs = &RouteStats{Route: route}
		rc.routes[route] = rs
	}
	rs.Total++
	if failed {
		rs.Failed++
	}
}

// Total 总请求数
func (rc *RequestCounter) Total() int64 {
	return atomic.LoadInt64(&rc.total)
}

// QPS 当前每秒请求数，当前窗口未满时与上一窗口加权
func (rc *RequestCounter) QPS() float64 {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.qpsLocked(time.Now())
}

func (rc *RequestCounter) qpsLocked(now time.Time) float64 {
	elapsed := now.Sub(rc.current.start).Seconds()
	if elapsed <= 0 {
		elapsed = 1
	}
	currentQPS := float64(rc.current.count) / elapsed

	spanSeconds := rc.span.Seconds()
	if elapsed >= spanSeconds {
		return currentQPS
	}

	prevWeight := (spanSeconds - elapsed) / spanSeconds
	prevQPS := float64(rc.previous.count) / spanSeconds
	return currentQPS*(1-prevWeight) + prevQPS*prevWeight
}

// Snapshot 返回当前统计，路由按名称排序
func (rc *RequestCounter) Snapshot() Snapshot {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	routes := make([]RouteStats, 0, len(rc.routes))
	for _, rs := range rc.routes {
		routes = append(routes, *rs)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Route < routes[j].Route })

	return Snapshot{
		Total:      atomic.LoadInt64(&rc.total),
		Failed:     atomic.LoadInt64(&rc.failed),
		CurrentQPS: rc.qpsLocked(time.Now()),
		Routes:     routes,
	}
}

func (rc *RequestCounter) rotate(ctx context.Context) {
	ticker := time.NewTicker(rc.span)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rc.mu.Lock()
			rc.previous = rc.current
			rc.current = window{start: now}
			rc.mu.Unlock()
		}
	}
}
