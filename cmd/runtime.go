package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rollcall/rollcall/engine"
	"github.com/rollcall/rollcall/engine/metrics"
	"github.com/rollcall/rollcall/engine/strategy"
)

// runContext holds the per-invocation metrics registry and engine.
type runContext struct {
	gatherer *prometheus.Registry
	engine   *engine.Engine
}

// newRunContext builds an engine whose registry has the plugins in pluginsPath
// loaded against appVersion. Rejected plugins are logged by the registry, not fatal.
func newRunContext(pluginsPath, appVersion string) (*runContext, error) {
	gatherer := prometheus.NewRegistry()
	collector := metrics.NewPrometheus(gatherer, "")
	registry := strategy.NewRegistry(strategy.WithMetrics(collector))

	if pluginsPath != "" {
		configs, err := loadPluginFile(pluginsPath)
		if err != nil {
			return nil, err
		}
		registry.LoadPlugins(configs, appVersion)
	}

	return &runContext{
		gatherer: gatherer,
		engine:   engine.New(registry, engine.WithMetrics(collector)),
	}, nil
}

// finish writes the run's metrics to the --metrics-textfile path, if set.
func (rc *runContext) finish() error {
	if metricsTextfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(metricsTextfile, rc.gatherer); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	logrus.Infof("metrics written to %s", metricsTextfile)
	return nil
}

// seededSource returns a reproducible source for one request kind and class.
func seededSource(seed int64, kind, classID string) engine.RandomSource {
	return engine.NewPartitionedSource(engine.NewSeedKey(seed)).ForStream(engine.StreamFor(kind, classID))
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("JSON marshal failed: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// writeYAML writes v as a YAML document.
func writeYAML(out io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("YAML marshal failed: %w", err)
	}
	_, err = fmt.Fprint(out, string(data))
	return err
}
