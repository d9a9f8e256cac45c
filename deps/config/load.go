package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"
	"github.com/samber/lo"
	"golang.org/x/xerrors"
)

// DefaultPath is where the configuration is looked up when none is given.
const DefaultPath = "~/.config/tsmerge/config.toml"

// EnvPrefix prefixes environment overrides, e.g. TSMERGE_MERGE_OVERWRITE.
const EnvPrefix = "TSMERGE"

// FromFile loads config from a specified file overriding defaults. If the
// file does not exist defaults are assumed.
func FromFile(path string, opts ...LoadCfgOpt) (*TsMergeConfig, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, xerrors.Errorf("expanding config path: %w", err)
	}

	def := DefaultTsMergeConfig()

	file, err := os.Open(p)
	switch {
	case os.IsNotExist(err):
		return fromEnv(def)
	case err != nil:
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	return FromReader(file, def, opts...)
}

// FromReader loads config from a reader instance.
func FromReader(reader io.Reader, def *TsMergeConfig, opts ...LoadCfgOpt) (*TsMergeConfig, error) {
	loadOpts, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}

	cfg := def
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}

	md, err := toml.Decode(buf.String(), cfg)
	if err != nil {
		return nil, xerrors.Errorf("decoding config: %w", err)
	}

	var warningOut io.Writer = os.Stderr
	if loadOpts.warningWriter != nil {
		warningOut = loadOpts.warningWriter
	}
	for _, key := range md.Undecoded() {
		_, _ = fmt.Fprintf(warningOut, "WARNING: unknown configuration option '%s'\n", key.String())
	}

	return fromEnv(cfg)
}

func fromEnv(cfg *TsMergeConfig) (*TsMergeConfig, error) {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("processing env vars overrides: %s", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, xerrors.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks values the rest of the program relies on.
func (c *TsMergeConfig) Validate() error {
	if c.Interactive.PageSize <= 0 {
		return xerrors.Errorf("Interactive.PageSize must be positive, got %d", c.Interactive.PageSize)
	}
	if _, err := filepath.Match(c.Catalogue.Pattern, ""); err != nil || c.Catalogue.Pattern == "" {
		return xerrors.Errorf("Catalogue.Pattern %q is not a valid glob", c.Catalogue.Pattern)
	}
	for _, pair := range c.Merge.EquivalentContexts {
		if len(pair) != 2 || lo.Contains(pair, "") {
			return xerrors.Errorf("Merge.EquivalentContexts entry %q must name two contexts", strings.Join(pair, ", "))
		}
	}
	return nil
}

// Default renders the default configuration as TOML.
func Default() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(DefaultTsMergeConfig()); err != nil {
		return nil, xerrors.Errorf("encoding default config: %w", err)
	}
	return buf.Bytes(), nil
}

type cfgLoadOpts struct {
	warningWriter io.Writer
}

type LoadCfgOpt func(opts *cfgLoadOpts) error

func applyOpts(opts ...LoadCfgOpt) (cfgLoadOpts, error) {
	var loadOpts cfgLoadOpts
	var err error
	for _, opt := range opts {
		if err = opt(&loadOpts); err != nil {
			return loadOpts, fmt.Errorf("failed to apply load cfg option: %w", err)
		}
	}
	return loadOpts, nil
}

func SetWarningWriter(w io.Writer) LoadCfgOpt {
	return func(opts *cfgLoadOpts) error {
		opts.warningWriter = w
		return nil
	}
}
