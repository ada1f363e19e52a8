// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"dario.cat/mergo"
)

// configBuilder accumulates configuration from multiple sources. Sources are
// merged with mergo: an earlier source wins over a later one, so the chain
// order defines priority.
type configBuilder struct {
	config *Config
	err    error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{config: &Config{}}
}

// withEnv merges environment variables into the accumulated config.
func (b *configBuilder) withEnv() *configBuilder {
	if b.err != nil {
		return b
	}

	envCfg := &Config{}
	if err := parseEnv(envCfg); err != nil {
		b.err = err
		return b
	}

	b.err = b.merge(envCfg)

	return b
}

// withFlags merges command-line flags into the accumulated config. Flags do
// not override values already set from the environment.
func (b *configBuilder) withFlags() *configBuilder {
	if b.err != nil {
		return b
	}

	b.err = b.merge(ParseFlags())

	return b
}

// withJSON merges the optional JSON config file. The file path is resolved
// from the already-merged sources; no path means no JSON source.
func (b *configBuilder) withJSON() *configBuilder {
	if b.err != nil {
		return b
	}

	if b.config.JSONFilePath == "" {
		return b
	}

	jsonCfg, err := parseJSONFile(b.config.JSONFilePath)
	if err != nil {
		b.err = err
		return b
	}

	b.err = b.merge(jsonCfg)

	return b
}

// build finalizes the accumulated config: applies defaults and validates.
func (b *configBuilder) build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	b.config.applyDefaults()

	if err := b.config.validate(); err != nil {
		return nil, err
	}

	return b.config, nil
}

func (b *configBuilder) merge(src *Config) error {
	if err := mergo.Merge(b.config, src); err != nil {
		return fmt.Errorf("error merging configs: %w", err)
	}

	return nil
}
