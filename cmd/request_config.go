package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rollcall/rollcall/engine"
	"github.com/rollcall/rollcall/engine/roster"
	"github.com/rollcall/rollcall/engine/strategy"
)

// RequestFile is the YAML form of a pick or group request.
// All top-level keys must be listed to satisfy KnownFields(true) strict parsing.
// Count and GroupCount are nil when the key is absent, so an explicit 0 is kept.
type RequestFile struct {
	ClassID     string                 `yaml:"classId"`
	ClassName   string                 `yaml:"className"`
	Mode        engine.Mode            `yaml:"mode"`
	Count       *int                   `yaml:"count"`
	GroupCount  *int                   `yaml:"groupCount"`
	GeneratedAt *time.Time             `yaml:"generatedAt"`
	Policy      engine.SelectionPolicy `yaml:"policy"`
	Candidates  []roster.Candidate     `yaml:"candidates"`
	History     []roster.PickRecord    `yaml:"history"`
}

// PluginFile is the YAML form of a batch of strategy plugins.
type PluginFile struct {
	Plugins []strategy.PluginConfig `yaml:"plugins"`
}

// decodeStrict decodes one YAML document into out, rejecting unknown keys.
// An empty document leaves out unchanged.
func decodeStrict(data []byte, out any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// parseRequestFile parses a request document. Policy keys absent from the document
// keep their engine.DefaultPolicy values.
func parseRequestFile(data []byte) (*RequestFile, error) {
	req := RequestFile{Policy: engine.DefaultPolicy()}
	if err := decodeStrict(data, &req); err != nil {
		return nil, fmt.Errorf("parsing request: %w", err)
	}
	if err := req.Policy.Validate(); err != nil {
		return nil, err
	}
	switch req.Mode {
	case "", engine.ModeSingle, engine.ModeMultiple, engine.ModeGroup:
	default:
		return nil, fmt.Errorf("unknown mode %q", req.Mode)
	}
	seen := make(map[string]bool, len(req.Candidates))
	for i, c := range req.Candidates {
		if c.ID == "" {
			return nil, fmt.Errorf("candidate %d: missing id", i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("candidate %q: duplicate id", c.ID)
		}
		seen[c.ID] = true
		if !roster.IsValidStatus(string(c.Status)) {
			return nil, fmt.Errorf("candidate %q: unknown status %q", c.ID, c.Status)
		}
	}
	return &req, nil
}

// loadRequestFile reads and parses a request file.
func loadRequestFile(path string) (*RequestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	return parseRequestFile(data)
}

// loadPluginFile reads a plugin batch. Structural checks are left to the registry
// so one bad plugin does not hide the others.
func loadPluginFile(path string) ([]strategy.PluginConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plugin file: %w", err)
	}
	var f PluginFile
	if err := decodeStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parsing plugin file %s: %w", path, err)
	}
	return f.Plugins, nil
}

func (f *RequestFile) pickRequest() engine.PickRequest {
	return engine.PickRequest{
		Mode:        f.Mode,
		ClassID:     f.ClassID,
		ClassName:   f.ClassName,
		Candidates:  f.Candidates,
		History:     f.History,
		Count:       intOr(f.Count, 0),
		Policy:      f.Policy,
		GeneratedAt: f.GeneratedAt,
	}
}

func (f *RequestFile) groupRequest() engine.GroupRequest {
	return engine.GroupRequest{
		ClassID:     f.ClassID,
		ClassName:   f.ClassName,
		Candidates:  f.Candidates,
		History:     f.History,
		GroupCount:  intOr(f.GroupCount, 0),
		Policy:      f.Policy,
		GeneratedAt: f.GeneratedAt,
	}
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}
