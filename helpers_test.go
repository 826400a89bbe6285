package winrender

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"testing"
)

// recordHandler keeps every record it is given.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level >= level {
			n++
		}
	}
	return n
}

func (h *recordHandler) attrs(level slog.Level) []map[string]slog.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []map[string]slog.Value
	for _, r := range h.records {
		if r.Level != level {
			continue
		}
		m := make(map[string]slog.Value)
		r.Attrs(func(a slog.Attr) bool {
			m[a.Key] = a.Value
			return true
		})
		out = append(out, m)
	}
	return out
}

type fakeLoop struct {
	attached []Window
	wakes    int
}

func (l *fakeLoop) Attach(w Window) { l.attached = append(l.attached, w) }
func (l *fakeLoop) Wake()           { l.wakes++ }

type fakeRenderer struct {
	backend Backend
	scale   float64
	closed  bool
}

func (r *fakeRenderer) Backend() Backend          { return r.backend }
func (r *fakeRenderer) Paint(PaintFunc) error     { return nil }
func (r *fakeRenderer) Resize(PhysicalSize) error { return nil }
func (r *fakeRenderer) RequestRepaint()           {}
func (r *fakeRenderer) ScaleFactor() float64      { return r.scale }
func (r *fakeRenderer) Close() error              { r.closed = true; return nil }

// isolateRegistry empties the registry for the duration of a test.
func isolateRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := maps.Clone(builders)
	clear(builders)
	registryMu.Unlock()

	t.Cleanup(func() {
		registryMu.Lock()
		defer registryMu.Unlock()
		clear(builders)
		maps.Copy(builders, saved)
	})
}
