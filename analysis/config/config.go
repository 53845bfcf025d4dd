// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config describes one run of the shim analysis: where the method registry
// and the shim model files live, and how the tool should behave.
// If some field is not defined in the config file, it will be empty/zero in
// the struct. Private fields are not populated from a yaml file, but computed
// after initialization.
type Config struct {
	Options

	sourceFile string

	// MethodRegistry is the path to a json file declaring the methods of the
	// analyzed program, relative to the config file.
	MethodRegistry string `yaml:"method-registry"`

	// ShimModels lists the paths of the json shim model files, relative to
	// the config file.
	ShimModels []string `yaml:"shim-models"`
}

// Options holds the options that modify the behavior of the tool.
type Options struct {
	// ReportsDir is the directory where reports will be stored. If the config
	// does not specify a ReportsDir but sets ReportShims to true, then
	// ReportsDir will be created next to the config file.
	ReportsDir string `yaml:"reports-dir"`

	// ReportShims specifies whether the instantiated shims should be written
	// to a shims-*.out file in the reports directory.
	ReportShims bool `yaml:"report-shims"`

	// WarnOnCycles specifies whether the tool should search the synthetic
	// call edges for cycles and report them.
	WarnOnCycles bool `yaml:"warn-on-cycles"`

	// LogLevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:     "",
		MethodRegistry: "",
		ShimModels:     nil,
		Options: Options{
			ReportsDir:   "",
			ReportShims:  false,
			WarnOnCycles: false,
			LogLevel:     int(InfoLevel),
			SilenceWarn:  false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	cfg := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}

	cfg.sourceFile = filename

	if cfg.ReportShims {
		if err := setReportsDir(cfg, filename); err != nil {
			return nil, err
		}
	}

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	return cfg, nil
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports")
		}
		c.ReportsDir = tmpdir
		return nil
	}
	err := os.Mkdir(c.ReportsDir, 0750)
	if err != nil && !os.IsExist(err) {
		return fmt.Errorf("could not create directory %s", c.ReportsDir)
	}
	return nil
}

// RelPath returns filename interpreted relative to the directory holding the
// config file. Paths in the config are relative to the config itself so that
// a config and its model files can be moved together.
func (c Config) RelPath(filename string) string {
	if path.IsAbs(filename) || c.sourceFile == "" {
		return filename
	}
	return path.Join(path.Dir(c.sourceFile), filename)
}
