package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/sirupsen/logrus"

	"github.com/rollcall/rollcall/engine/roster"
)

// WeightFunc maps a candidate and its base weight to an adjusted weight.
type WeightFunc func(c roster.Candidate, baseWeight float64) float64

// Descriptor is a named weighting strategy.
type Descriptor struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Builtin     bool       `json:"builtin"`
	Adjust      WeightFunc `json:"-"`
}

// Metrics receives plugin load outcomes. Implementations must be safe for concurrent use.
type Metrics interface {
	RecordPluginLoad(status string)
}

type nopMetrics struct{}

func (nopMetrics) RecordPluginLoad(string) {}

// Plugin load statuses reported in LoadDetail.Status.
const (
	StatusLoaded            = "loaded"
	StatusDisabled          = "disabled"
	StatusVersionGated      = "version_gated"
	StatusUnsigned          = "unsigned"
	StatusInvalid           = "invalid"
	StatusSignatureMismatch = "signature_mismatch"
	StatusBuiltinConflict   = "builtin_conflict"
)

// LoadDetail is the outcome for one plugin config.
type LoadDetail struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Err     error  `json:"-"`
}

// LoadResult summarizes one LoadPlugins batch.
type LoadResult struct {
	Loaded  int          `json:"loaded"`
	Skipped int          `json:"skipped"`
	Errors  []string     `json:"errors"`
	Details []LoadDetail `json:"details"`
}

// Registry holds built-in and plugin strategies.
//
// Resolution is lock-free and safe during concurrent loads; LoadPlugins and Reset
// are serialized against each other.
type Registry struct {
	mu      sync.Mutex
	plugins *xsync.Map[string, Descriptor]
	metrics Metrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithMetrics sets the collector notified of plugin load outcomes.
func WithMetrics(m Metrics) Option {
	return func(r *Registry) {
		if m != nil {
			r.metrics = m
		}
	}
}

// NewRegistry creates a registry containing exactly the built-in strategies.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		plugins: xsync.NewMap[string, Descriptor](),
		metrics: nopMetrics{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve returns the strategy registered under id.
func (r *Registry) Resolve(id string) (Descriptor, bool) {
	if d, ok := builtins[id]; ok {
		return d, true
	}
	return r.plugins.Load(id)
}

// ResolveOrClassic returns the strategy registered under id, or classic if unknown.
func (r *Registry) ResolveOrClassic(id string) Descriptor {
	if d, ok := r.Resolve(id); ok {
		return d
	}
	return builtins[Classic]
}

// List returns built-ins in fixed order followed by plugins sorted by id.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(builtinOrder)+r.plugins.Size())
	for _, id := range builtinOrder {
		out = append(out, builtins[id])
	}
	var plugins []Descriptor
	r.plugins.Range(func(_ string, d Descriptor) bool {
		plugins = append(plugins, d)
		return true
	})
	sort.Slice(plugins, func(i, j int) bool { return plugins[i].ID < plugins[j].ID })
	return append(out, plugins...)
}

// Reset discards every plugin, leaving exactly the built-in set.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins.Clear()
	logrus.Debug("strategy registry reset to built-ins")
}

// LoadPlugins gates and registers a batch of plugin configs against appVersion.
// Each config is evaluated independently; a bad config never stops the batch.
func (r *Registry) LoadPlugins(configs []PluginConfig, appVersion string) LoadResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := LoadResult{
		Errors:  make([]string, 0),
		Details: make([]LoadDetail, 0, len(configs)),
	}
	for _, cfg := range configs {
		detail := r.loadOne(cfg, appVersion)
		switch {
		case detail.Status == StatusLoaded:
			res.Loaded++
		case detail.Err != nil:
			res.Errors = append(res.Errors, detail.Message)
			logrus.Warnf("strategy plugin rejected: %s", detail.Message)
		default:
			res.Skipped++
			logrus.Debugf("strategy plugin %q skipped: %s", cfg.ID, detail.Message)
		}
		r.metrics.RecordPluginLoad(detail.Status)
		res.Details = append(res.Details, detail)
	}
	logrus.Infof("strategy plugins: %d loaded, %d skipped, %d errors", res.Loaded, res.Skipped, len(res.Errors))
	return res
}

func (r *Registry) loadOne(cfg PluginConfig, appVersion string) LoadDetail {
	detail := LoadDetail{ID: cfg.ID}
	fail := func(status string, err error) LoadDetail {
		detail.Status = status
		detail.Err = err
		detail.Message = err.Error()
		return detail
	}

	if !cfg.IsEnabled() {
		detail.Status = StatusDisabled
		detail.Message = "plugin disabled"
		return detail
	}
	if cfg.MinAppVersion != "" && CompareVersions(appVersion, cfg.MinAppVersion) < 0 {
		detail.Status = StatusVersionGated
		detail.Message = fmt.Sprintf("requires app version %s, running %s", cfg.MinAppVersion, appVersion)
		return detail
	}
	if cfg.Signature == "" {
		detail.Status = StatusUnsigned
		detail.Message = "plugin is unsigned"
		return detail
	}
	if want := Checksum(cfg); want != cfg.Signature {
		return fail(StatusSignatureMismatch, fmt.Errorf("plugin %q: %w (got %s)", cfg.ID, ErrSignatureMismatch, cfg.Signature))
	}
	if IsBuiltin(cfg.ID) {
		return fail(StatusBuiltinConflict, fmt.Errorf("plugin %q: %w", cfg.ID, ErrBuiltinConflict))
	}
	// Only an authentic config gets its values judged.
	if err := cfg.Validate(); err != nil {
		return fail(StatusInvalid, fmt.Errorf("plugin %q: %w", cfg.ID, err))
	}

	r.plugins.Store(cfg.ID, cfg.descriptor())
	detail.Status = StatusLoaded
	return detail
}
