package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const SourceFileExt = ".spl"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".spl", ".splat"}

// ConfigFileName is looked up in the working directory when no --config flag
// is given.
const ConfigFileName = "splat.yaml"

// Config is the interpreter's project configuration, read from splat.yaml.
type Config struct {
	// Entry is the script to run when none is given on the command line.
	Entry string `yaml:"entry"`

	Forward ForwardConfig `yaml:"forward"`
}

// ForwardConfig tunes the keyword-forwarding transform.
type ForwardConfig struct {
	// Trace enables debug logging of transform and forwarding activity.
	Trace bool `yaml:"trace"`

	// MaxDepth bounds transitive resolution chains. Zero means the default.
	MaxDepth int `yaml:"max_depth"`
}

const DefaultMaxForwardDepth = 64

func Default() *Config {
	return &Config{Forward: ForwardConfig{MaxDepth: DefaultMaxForwardDepth}}
}

// Load reads the configuration file at path. A missing file is not an error:
// the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Forward.MaxDepth <= 0 {
		cfg.Forward.MaxDepth = DefaultMaxForwardDepth
	}
	return cfg, nil
}
