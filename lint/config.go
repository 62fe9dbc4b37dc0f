package lint

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/ifnest/internal"
	"github.com/gnolang/ifnest/internal/lints"
	tt "github.com/gnolang/ifnest/internal/types"
)

const DefaultConfigFile = ".ifnest.yaml"

// Config represents the overall configuration: a name, the detection
// mode, per-rule severities and the rewrite settings.
type Config struct {
	Name    string                   `yaml:"name"`
	Mode    string                   `yaml:"mode"`
	Rules   map[string]tt.ConfigRule `yaml:"rules"`
	Rewrite tt.RewriteConfig         `yaml:"rewrite"`
}

// DefaultConfig is the configuration used when no file is present and
// the one written by "ifnest init".
func DefaultConfig() Config {
	return Config{
		Name: "ifnest",
		Mode: internal.ModeTree,
		Rules: map[string]tt.ConfigRule{
			lints.NestedIfChainRule: {Severity: tt.SeverityWarning},
			lints.NestedIfRowsRule:  {Severity: tt.SeverityOff},
		},
		Rewrite: tt.DefaultRewriteConfig(),
	}
}

// LoadConfig reads a yaml configuration. Keys missing from the file keep
// their default values.
func LoadConfig(configurationPath string) (Config, error) {
	config := DefaultConfig()
	if configurationPath == "" {
		return config, nil
	}

	// Read the configuration file
	f, err := os.Open(configurationPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	// Parse the configuration file on top of the defaults
	parsed := DefaultConfig()
	parsed.Rules = nil
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&parsed); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error parsing %s: %w", configurationPath, err)
	}

	for name, rule := range parsed.Rules {
		config.Rules[name] = rule
	}
	parsed.Rules = config.Rules
	return parsed, nil
}
