// Package config reads target settings from INI files.
//
// A configuration file holds a [target] section with layer-wide settings and
// one section per filesystem backend:
//
//	[target]
//	default_local_fs   = local_fs
//	tmp_dir            = $HOME/.cache/target
//	tmp_dir_permission = 0o750
//
//	[local_fs]
//	default_file_perm      = 0o640
//	default_directory_perm = 0o750
//
//	[s3_fs]
//	endpoint   = localhost:9000
//	bucket     = data
//	access_key = minioadmin
//	secret_key = minioadmin
//	use_ssl    = false
//
// Values may reference environment variables and "~". Permissions are parsed
// with Go integer literal rules, so "0o640", "0640" and "416" are the same.
package config

import (
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/jmgilman/go/target/errors"
	"github.com/jmgilman/go/target/internal/pathutil"
)

// EnvConfigFile names the environment variable FromEnv reads the config path from.
const EnvConfigFile = "TARGET_CONFIG_FILE"

// Section and key names understood by the target layer.
const (
	SectionTarget = "target"

	KeyDefaultLocalFS = "default_local_fs"
	KeyTmpDir         = "tmp_dir"
	KeyTmpDirPerm     = "tmp_dir_permission"

	KeyDefaultFilePerm = "default_file_perm"
	KeyDefaultDirPerm  = "default_directory_perm"
)

// Config is a parsed configuration. It is safe for concurrent reads.
type Config struct {
	file *ini.File
}

// Default returns a configuration holding only the defaults.
func Default() *Config {
	c := &Config{file: ini.Empty()}
	c.applyDefaults()
	return c
}

// Load parses one or more sources (file paths, []byte or io.Reader) in order;
// later sources override earlier ones. Missing defaults are filled in.
func Load(source any, others ...any) (*Config, error) {
	file, err := ini.Load(source, others...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to load configuration")
	}
	c := &Config{file: file}
	c.applyDefaults()
	return c, nil
}

// FromEnv loads the file named by TARGET_CONFIG_FILE, or returns Default if
// the variable is unset.
func FromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		return Default(), nil
	}
	return Load(pathutil.Expand(path))
}

func (c *Config) applyDefaults() {
	sec := c.file.Section(SectionTarget)
	if !sec.HasKey(KeyDefaultLocalFS) {
		sec.Key(KeyDefaultLocalFS).SetValue("local_fs")
	}
	if !sec.HasKey(KeyTmpDir) {
		sec.Key(KeyTmpDir).SetValue(os.TempDir())
	}
}

// HasSection reports whether the section exists.
func (c *Config) HasSection(name string) bool {
	return c.file.HasSection(name)
}

// String returns the raw value of key in section, or def if absent or empty.
func (c *Config) String(section, key, def string) string {
	if !c.file.HasSection(section) {
		return def
	}
	sec := c.file.Section(section)
	if !sec.HasKey(key) {
		return def
	}
	v := strings.TrimSpace(sec.Key(key).String())
	if v == "" {
		return def
	}
	return v
}

// Expanded is String with environment variables and "~" expanded.
func (c *Config) Expanded(section, key, def string) string {
	return pathutil.Expand(c.String(section, key, def))
}

// Perm parses key in section as a file mode. An absent or empty value
// yields nil.
func (c *Config) Perm(section, key string) (*fs.FileMode, error) {
	v := c.Expanded(section, key, "")
	if v == "" {
		return nil, nil
	}

	n, err := strconv.ParseUint(strings.Replace(v, "0O", "0o", 1), 0, 32)
	if err != nil || n > uint64(fs.ModePerm) {
		return nil, invalid(section, key, v, "is not a valid permission")
	}
	m := fs.FileMode(n)
	return &m, nil
}

// Bool parses key in section as a boolean ("true", "yes", "on", "1" and
// their negations), returning def if absent.
func (c *Config) Bool(section, key string, def bool) (bool, error) {
	v := c.Expanded(section, key, "")
	if v == "" {
		return def, nil
	}
	b, err := c.file.Section(section).Key(key).Bool()
	if err != nil {
		return false, invalid(section, key, v, "is not a boolean")
	}
	return b, nil
}

// Keys returns the key names of section, or nil if it does not exist.
func (c *Config) Keys(section string) []string {
	if !c.file.HasSection(section) {
		return nil
	}
	return c.file.Section(section).KeyStrings()
}

func invalid(section, key, value, msg string) error {
	err := errors.Newf(errors.CodeInvalidConfig, "%s.%s %s: %q", section, key, msg, value)
	err = errors.WithContext(err, "section", section)
	return errors.WithContext(err, "key", key)
}
