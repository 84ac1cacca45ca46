package preset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// Preset describes one simulation run: how many bodies and types to create,
// how the step kernel is partitioned and tuned, and the RNG seed. Presets are
// YAML files; any field left out (or zero) keeps its default, so a preset can
// override just the fields it cares about.
type Preset struct {
	Name        string  `yaml:"name,omitempty"`
	Bodies      int     `yaml:"bodies"`
	Types       int     `yaml:"types"`
	Batch       int     `yaml:"batch"`
	Dt          float32 `yaml:"dt"`
	Damping     float32 `yaml:"damping"`
	MinDistance float32 `yaml:"min_distance"`
	Seed        uint64  `yaml:"seed"` // 0 = time-based seed
}

// Default returns the built-in run configuration: 1024 bodies of 10 types,
// batch size 64. Dt is small because matrix coefficients span ±100 and the
// 0.01 distance floor allows large force magnitudes.
func Default() Preset {
	return Preset{
		Name:        "default",
		Bodies:      1024,
		Types:       10,
		Batch:       64,
		Dt:          5e-5,
		Damping:     0.98,
		MinDistance: 0.01,
		Seed:        0,
	}
}

// Load reads a preset file and lays its non-zero fields over Default(). A
// missing file is not an error and yields the defaults, so running without a
// preset just works; a file that fails to parse or validates badly is an
// error, since a half-applied preset is worse than none.
func Load(path string) (Preset, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	var loaded Preset
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := copier.CopyWithOption(&cfg, &loaded, copier.Option{IgnoreEmpty: true}); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the preset as YAML, creating parent directories if needed.
// Handy for dumping Default() as a template to edit.
func Save(p Preset, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every field is in its legal range. Merging over
// Default() means zero values have already been replaced, so anything out of
// range here was set explicitly.
func (p Preset) Validate() error {
	switch {
	case p.Bodies <= 0:
		return fmt.Errorf("bodies must be positive, got %d", p.Bodies)
	case p.Types <= 0:
		return fmt.Errorf("types must be positive, got %d", p.Types)
	case p.Batch <= 0:
		return fmt.Errorf("batch must be positive, got %d", p.Batch)
	case p.Dt <= 0:
		return fmt.Errorf("dt must be positive, got %g", p.Dt)
	case p.Damping <= 0 || p.Damping > 1:
		return fmt.Errorf("damping must be in (0,1], got %g", p.Damping)
	case p.MinDistance <= 0:
		return fmt.Errorf("min_distance must be positive, got %g", p.MinDistance)
	}
	return nil
}
