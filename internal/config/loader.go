// Package config provides the project configuration shared by the CLI and
// any other tool that needs to read leaplint.yaml.
//
// This package is decoupled from CLI concerns: it knows where the file lives,
// how to decode it and which defaults apply, but nothing about flags or env.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/leaplint/pkg/core"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "leaplint.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "leaplint.yml"

// MaxUpwardSearchLevels limits how far up the directory tree FindProjectRoot looks.
const MaxUpwardSearchLevels = 10

// ProjectConfig is the file-level part of the configuration.
type ProjectConfig struct {
	Include []string        `koanf:"include"`
	Exclude []string        `koanf:"exclude"`
	Lint    core.LintConfig `koanf:"lint"`
}

// LoadFromDir loads a ProjectConfig from the given directory.
// Returns nil, nil if no config file is found (not an error condition).
func LoadFromDir(dir string) (*ProjectConfig, error) {
	configPath := FindConfigFile(dir)
	if configPath == "" {
		return nil, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
	}

	var cfg ProjectConfig
	if err := Unmarshal(k, &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", configPath, err)
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Unmarshal decodes the whole koanf tree into out using the shared decode hooks.
func Unmarshal(k *koanf.Koanf, out any) error {
	return k.UnmarshalWithConf("", out, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       DecodeHook(),
			Result:           out,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	})
}

// DecodeHook converts config strings into their typed form: rule levels via
// encoding.TextUnmarshaler and comma-separated strings (env, flags) into slices.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		levelHook,
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	)
}

// levelHook rejects non-string rule levels with a readable error instead of
// letting weak typing turn 1 into LevelWarn.
func levelHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeFor[core.Level]() || from.Kind() == reflect.String {
		return data, nil
	}
	return nil, fmt.Errorf("invalid level %v (must be ignore, warn or error)", data)
}

// FindConfigFile returns the config file in dir, or "" when there is none.
// leaplint.yaml wins over leaplint.yml.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// IsConfigFile reports whether path names a leaplint config file.
func IsConfigFile(path string) bool {
	base := filepath.Base(path)
	return base == ConfigFileName || base == ConfigFileNameAlt
}

// FindProjectRoot walks up from startDir to the nearest directory containing
// a config file. Returns "" when none is found within MaxUpwardSearchLevels.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for range MaxUpwardSearchLevels {
		if FindConfigFile(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
	return ""
}
