package history

import (
	"fmt"

	"github.com/kilianp07/rotation/core/factory"
)

var storeRegistry = factory.NewRegistry[Store]()

// RegisterStore adds a store factory identified by name.
func RegisterStore(name string, f factory.Factory[Store]) error {
	return storeRegistry.Register(name, f)
}

// NewStore builds the store described by cfg. An empty type disables
// history.
func NewStore(cfg factory.ModuleConfig) (Store, error) {
	if cfg.Type == "" {
		return NopStore{}, nil
	}
	return storeRegistry.Create(cfg)
}

type fileConf struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

func decodeFileConf(conf map[string]any, fallback string) (fileConf, error) {
	c := fileConf{Path: fallback, MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 30}
	if err := factory.Decode(conf, &c); err != nil {
		return c, err
	}
	if c.Path == "" {
		return c, fmt.Errorf("history: path is required")
	}
	return c, nil
}

func init() {
	_ = RegisterStore("nop", func(map[string]any) (Store, error) { return NopStore{}, nil })
	_ = RegisterStore("jsonl", func(conf map[string]any) (Store, error) {
		c, err := decodeFileConf(conf, "rotations.jsonl")
		if err != nil {
			return nil, err
		}
		s, err := NewJSONLStore(c.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	_ = RegisterStore("rotating", func(conf map[string]any) (Store, error) {
		c, err := decodeFileConf(conf, "rotations.jsonl")
		if err != nil {
			return nil, err
		}
		s, err := NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	_ = RegisterStore("sqlite", func(conf map[string]any) (Store, error) {
		c, err := decodeFileConf(conf, "rotations.db")
		if err != nil {
			return nil, err
		}
		s, err := NewSQLiteStore(c.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
