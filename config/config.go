// Copyright (c) 2024 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultCallSiteToken is the classifier of call site tokens.
	DefaultCallSiteToken = "inject.SourceKey"
	// DefaultTypeToken is the classifier of type tokens.
	DefaultTypeToken = "inject.TypeKey"
)

// Formats of the log output.
const (
	JSONFormat    = "json"
	ConsoleFormat = "console"
)

// Config configures how requests are resolved and how the resolution is
// logged.
type Config struct {
	// ListTypes are the collection classifiers whose requests aggregate
	// every candidate for their element type.
	ListTypes []string `yaml:"listTypes"`

	// CallSiteToken is the classifier whose requests resolve to a token
	// unique to the requesting source location.
	CallSiteToken string `yaml:"callSiteToken"`

	// TypeToken is the classifier whose requests resolve to a runtime
	// descriptor of their type argument.
	TypeToken string `yaml:"typeToken"`

	Logging Logging `yaml:"logging"`
}

// Logging configures the logger of the command line tools.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		ListTypes:     []string{"List", "Set"},
		CallSiteToken: DefaultCallSiteToken,
		TypeToken:     DefaultTypeToken,
		Logging: Logging{
			Level:  "info",
			Format: ConsoleFormat,
		},
	}
}

// FromBytes parses a YAML configuration. Keys that are not set keep their
// default value.
func FromBytes(b []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse configuration")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the YAML configuration at path.
func Load(path string) (Config, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read configuration %q", path)
	}
	cfg, err := FromBytes(b)
	return cfg, errors.Wrapf(err, "invalid configuration %q", path)
}

// Validate reports the first invalid value of c.
func (c Config) Validate() error {
	if len(c.ListTypes) == 0 {
		return errors.New("listTypes must name at least one classifier")
	}
	if c.CallSiteToken == "" {
		return errors.New("callSiteToken must not be empty")
	}
	if c.TypeToken == "" {
		return errors.New("typeToken must not be empty")
	}
	if _, err := c.Logging.ZapLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case JSONFormat, ConsoleFormat:
	default:
		return errors.Errorf("unknown logging format %q: must be %q or %q",
			c.Logging.Format, JSONFormat, ConsoleFormat)
	}
	return nil
}

// IsListType reports whether name is one of the configured collection
// classifiers.
func (c Config) IsListType(name string) bool {
	for _, l := range c.ListTypes {
		if l == name {
			return true
		}
	}
	return false
}

// ZapLevel parses the configured level.
func (l Logging) ZapLevel() (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return lvl, errors.Wrapf(err, "invalid logging level %q", l.Level)
	}
	return lvl, nil
}

// NewLogger builds a zap logger for the configured level and format.
func (l Logging) NewLogger() (*zap.Logger, error) {
	lvl, err := l.ZapLevel()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if l.Format == ConsoleFormat {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
