package lint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/ifnest/internal/lints"
	tt "github.com/gnolang/ifnest/internal/types"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, c Config)
	}{
		{
			name:    "empty file keeps defaults",
			content: "",
			check: func(t *testing.T, c Config) {
				assert.Equal(t, DefaultConfig(), c)
			},
		},
		{
			name: "mode and severity",
			content: `name: project
mode: tokens
rules:
  nested-if-rows:
    severity: ERROR
`,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "project", c.Name)
				assert.Equal(t, "tokens", c.Mode)
				assert.Equal(t, tt.SeverityError, c.Rules[lints.NestedIfRowsRule].Severity)
				assert.Equal(t, tt.SeverityWarning, c.Rules[lints.NestedIfChainRule].Severity)
			},
		},
		{
			name: "partial rewrite section",
			content: `rewrite:
  max_depth: 3
`,
			check: func(t *testing.T, c Config) {
				assert.True(t, c.Rewrite.Enabled)
				assert.Equal(t, 3, c.Rewrite.MaxDepth)
				assert.Equal(t, 256, c.Rewrite.VerifyTrials)
			},
		},
		{
			name: "rewrites disabled",
			content: `rewrite:
  enabled: false
`,
			check: func(t *testing.T, c Config) {
				assert.False(t, c.Rewrite.Enabled)
				assert.Equal(t, 1, c.Rewrite.MaxDepth)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writePython(t, createTempDir(t, "config"), DefaultConfigFile, tc.content)

			config, err := LoadConfig(path)
			require.NoError(t, err)
			tc.check(t, config)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	config, err := LoadConfig(filepath.Join(createTempDir(t, "config"), DefaultConfigFile))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Parallel()

	path := writePython(t, createTempDir(t, "config"), DefaultConfigFile, "rules:\n  nested-if-chain:\n    severity: LOUD\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestDefaultConfigRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, string(data), "severity: WARNING")

	path := writePython(t, createTempDir(t, "config"), DefaultConfigFile, string(data))
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestNewWithConfigTokenMode(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	config.Mode = "tokens"
	engine, err := NewWithConfig(config)
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte(nestedChains(1)))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, lints.NestedIfRowsRule, issues[0].Rule)
}
