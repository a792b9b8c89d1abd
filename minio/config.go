// Package minio provides a MinIO/S3-compatible implementation of the
// core.FileSystem interface.
//
// Paths take the form "s3://bucket/key", "s3:///key" (configured bucket) or a
// bare key path. Directories are virtual: a directory exists while a marker
// object ("key/") or any object below it exists.
package minio

import (
	"strconv"

	"github.com/minio/minio-go/v7"

	"github.com/jmgilman/go/target/config"
	"github.com/jmgilman/go/target/errors"
)

// Config keys read by FromConfig.
const (
	KeyEndpoint           = "endpoint"
	KeyBucket             = "bucket"
	KeyAccessKey          = "access_key"
	KeySecretKey          = "secret_key"
	KeyUseSSL             = "use_ssl"
	KeyPrefix             = "prefix"
	KeyMultipartThreshold = "multipart_threshold"
)

// Config holds MinIO filesystem configuration.
type Config struct {
	// Endpoint is the MinIO server URL (e.g., "localhost:9000")
	Endpoint string

	// Bucket is the S3 bucket name
	Bucket string

	// AccessKey is the access key ID for authentication
	AccessKey string

	// SecretKey is the secret access key for authentication
	SecretKey string

	// UseSSL enables HTTPS connections
	UseSSL bool

	// Prefix is an optional prefix for all object keys (for namespacing)
	Prefix string

	// Client is an optional pre-configured MinIO client
	// If provided, Endpoint/AccessKey/SecretKey are ignored
	Client *minio.Client

	// MultipartThreshold is the buffered size after which writes switch to
	// a streaming upload. Default: 5MB
	MultipartThreshold int64

	// MaxConcurrency limits concurrent copies and deletes during directory
	// moves. Default: 10
	MaxConcurrency int
}

// validate checks if the configuration is valid.
// Either Client OR (Endpoint + Bucket + AccessKey + SecretKey) must be provided.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return errors.New(errors.CodeInvalidConfig, "bucket is required")
	}
	if c.MultipartThreshold < 0 {
		return errors.New(errors.CodeInvalidConfig, "multipart threshold must not be negative")
	}

	if c.Client != nil {
		return nil
	}

	if c.Endpoint == "" {
		return errors.New(errors.CodeInvalidConfig, "endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return errors.New(errors.CodeInvalidConfig, "access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return errors.New(errors.CodeInvalidConfig, "secret key is required when client is not provided")
	}

	return nil
}

// ConfigFromSection reads a Config from section of cfg. use_ssl defaults
// to true.
func ConfigFromSection(cfg *config.Config, section string) (Config, error) {
	useSSL, err := cfg.Bool(section, KeyUseSSL, true)
	if err != nil {
		return Config{}, err
	}

	c := Config{
		Endpoint:  cfg.Expanded(section, KeyEndpoint, ""),
		Bucket:    cfg.Expanded(section, KeyBucket, ""),
		AccessKey: cfg.Expanded(section, KeyAccessKey, ""),
		SecretKey: cfg.Expanded(section, KeySecretKey, ""),
		UseSSL:    useSSL,
		Prefix:    cfg.Expanded(section, KeyPrefix, ""),
	}

	if v := cfg.String(section, KeyMultipartThreshold, ""); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return Config{}, errors.WithContext(
				errors.Newf(errors.CodeInvalidConfig, "%s.%s is not a valid size: %q", section, KeyMultipartThreshold, v),
				"section", section,
			)
		}
		c.MultipartThreshold = n
	}

	return c, nil
}
