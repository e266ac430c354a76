package dotfile

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// candidates lists the supported filenames in the order they're tried.
var candidates = []string{".drlc.cue", ".drlc.toml", ".drlc.yaml"}

// Load looks in dir for one of the supported dotfile names and decodes it.
// If none exist, Load returns a zero Config and no error: a project with
// no dotfile just gets CLI defaults.
func Load(dir string) (*Config, error) {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		switch filepath.Ext(name) {
		case ".cue":
			return loadCUE(dir, name)
		case ".toml":
			return loadTOML(path)
		case ".yaml":
			return loadYAML(path)
		}
	}
	return &Config{}, nil
}

// loadCUE decodes a `.drlc.cue` dotfile. Grounded on the teacher's
// cli.LoadSpecs: build a CUE instance scoped to dir, build it into a
// cue.Value, then decode straight into a Go struct rather than walking
// individual field paths (the dotfile's shape is fixed, unlike the
// teacher's open-ended concept/sync specs).
func loadCUE(dir, name string) (*Config, error) {
	ctx := cuecontext.New()
	insts := load.Instances([]string{"./" + name}, &load.Config{Dir: dir})
	if len(insts) == 0 {
		return nil, fmt.Errorf("dotfile: no CUE instance loaded for %s", name)
	}
	inst := insts[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("dotfile: loading %s: %w", name, inst.Err)
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("dotfile: building %s: %w", name, err)
	}
	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("dotfile: decoding %s: %w", name, err)
	}
	return &cfg, nil
}

func loadTOML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dotfile: reading %s: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("dotfile: decoding %s: %w", path, err)
	}
	return &cfg, nil
}

func loadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dotfile: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("dotfile: decoding %s: %w", path, err)
	}
	return &cfg, nil
}
