package minio

import (
	"context"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jmgilman/go/target/config"
	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
	"github.com/jmgilman/go/target/formatter"
	"github.com/jmgilman/go/target/internal/pathutil"
)

// Scheme is the URL scheme served by this backend.
const Scheme = "s3"

const (
	defaultMultipartThreshold = 5 * 1024 * 1024
	defaultConcurrency        = 10
)

// FileSystem implements core.FileSystem for MinIO/S3-compatible storage.
type FileSystem struct {
	client             *minio.Client
	bucket             string
	prefix             string // Optional prefix for all keys
	multipartThreshold int64  // Threshold for streaming uploads
	concurrency        int    // Max concurrent operations for directory moves
	filePerm           *fs.FileMode
	dirPerm            *fs.FileMode
	registry           *formatter.Registry
}

var _ core.FileSystem = (*FileSystem)(nil)

// Option configures a FileSystem.
type Option func(*FileSystem)

// WithDefaultFilePerm sets the reported default file mode. Object storage
// has no permission model, so the value is advisory.
func WithDefaultFilePerm(perm fs.FileMode) Option {
	return func(f *FileSystem) { f.filePerm = core.Perm(perm) }
}

// WithDefaultDirPerm sets the reported default directory mode.
func WithDefaultDirPerm(perm fs.FileMode) Option {
	return func(f *FileSystem) { f.dirPerm = core.Perm(perm) }
}

// WithRegistry sets the formatter registry used by Load and Dump.
func WithRegistry(reg *formatter.Registry) Option {
	return func(f *FileSystem) { f.registry = reg }
}

// New creates a MinIO-backed filesystem.
// Returns error if configuration is invalid or the client cannot be built.
// No request is made until the first operation.
func New(cfg Config, opts ...Option) (*FileSystem, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create minio client")
		}
	}

	f := &FileSystem{
		client:             client,
		bucket:             cfg.Bucket,
		prefix:             pathutil.NormalizePrefix(cfg.Prefix),
		multipartThreshold: cfg.MultipartThreshold,
		concurrency:        cfg.MaxConcurrency,
	}
	if f.multipartThreshold == 0 {
		f.multipartThreshold = defaultMultipartThreshold
	}
	if f.concurrency <= 0 {
		f.concurrency = defaultConcurrency
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.registry == nil {
		f.registry = formatter.Builtin()
	}
	return f, nil
}

// FromConfig creates a filesystem from the connection keys of section plus
// default_file_perm and default_directory_perm.
func FromConfig(cfg *config.Config, section string, opts ...Option) (*FileSystem, error) {
	c, err := ConfigFromSection(cfg, section)
	if err != nil {
		return nil, err
	}

	var fromCfg []Option
	filePerm, err := cfg.Perm(section, config.KeyDefaultFilePerm)
	if err != nil {
		return nil, err
	}
	if filePerm != nil {
		fromCfg = append(fromCfg, WithDefaultFilePerm(*filePerm))
	}
	dirPerm, err := cfg.Perm(section, config.KeyDefaultDirPerm)
	if err != nil {
		return nil, err
	}
	if dirPerm != nil {
		fromCfg = append(fromCfg, WithDefaultDirPerm(*dirPerm))
	}

	return New(c, append(fromCfg, opts...)...)
}

// Client returns the underlying MinIO client.
func (f *FileSystem) Client() *minio.Client { return f.client }

// Bucket returns the bucket name.
func (f *FileSystem) Bucket() string { return f.bucket }

// Scheme returns "s3".
func (f *FileSystem) Scheme() string { return Scheme }

// Type returns core.FSTypeRemote.
func (f *FileSystem) Type() core.FSType { return core.FSTypeRemote }

// DefaultFilePerm returns the configured default file mode, or nil.
func (f *FileSystem) DefaultFilePerm() *fs.FileMode { return f.filePerm }

// DefaultDirPerm returns the configured default directory mode, or nil.
func (f *FileSystem) DefaultDirPerm() *fs.FileMode { return f.dirPerm }

// Registry returns the formatter registry used by Load and Dump.
func (f *FileSystem) Registry() *formatter.Registry { return f.registry }

// Equal reports whether other addresses the same bucket and prefix on the
// same endpoint.
func (f *FileSystem) Equal(other core.FileSystem) bool {
	o, ok := other.(*FileSystem)
	if !ok {
		return false
	}
	return o.bucket == f.bucket && o.prefix == f.prefix &&
		o.client.EndpointURL().String() == f.client.EndpointURL().String()
}

// Abspath strips the scheme and bucket and returns the rooted clean key
// path. A bucket other than the configured one is rejected.
func (f *FileSystem) Abspath(p string) (string, error) {
	scheme, rest := pathutil.Split(p)
	if scheme != "" {
		if pathutil.Scheme(p) != Scheme {
			return "", errors.WithContext(
				errors.PathErrorf(errors.CodeUnsupportedScheme, "abspath", p, "s3 filesystem cannot handle scheme %q", scheme),
				"scheme", scheme,
			)
		}
		if !strings.HasPrefix(rest, "/") {
			bucket, key, _ := strings.Cut(rest, "/")
			if bucket != f.bucket {
				return "", errors.WithContext(
					errors.PathErrorf(errors.CodeInvalidInput, "abspath", p, "bucket %q is not served by this filesystem", bucket),
					"bucket", bucket,
				)
			}
			rest = "/" + key
		}
	}
	return path.Clean("/" + pathutil.Expand(rest)), nil
}

// key maps an absolute path to its object key.
func (f *FileSystem) key(abs string) string {
	return pathutil.JoinKey(f.prefix, abs)
}

// dirKey maps an absolute path to the key prefix of its children.
func (f *FileSystem) dirKey(abs string) string {
	k := f.key(abs)
	if k == "" {
		return ""
	}
	return k + "/"
}

// Exists reports whether p exists as an object or a virtual directory.
func (f *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := f.Stat(ctx, p)
	if err == nil {
		return true, nil
	}
	if errors.IsCode(err, errors.CodeNotFound) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether p is a virtual directory.
func (f *FileSystem) IsDir(ctx context.Context, p string) (bool, error) {
	info, err := f.Stat(ctx, p)
	if err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// IsFile reports whether p is an object.
func (f *FileSystem) IsFile(ctx context.Context, p string) (bool, error) {
	info, err := f.Stat(ctx, p)
	if err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// Stat returns object metadata, or a synthetic directory entry when p is a
// virtual directory. The bucket root always exists.
func (f *FileSystem) Stat(ctx context.Context, p string) (fs.FileInfo, error) {
	abs, err := f.Abspath(p)
	if err != nil {
		return nil, err
	}
	return f.stat(ctx, abs)
}

func (f *FileSystem) stat(ctx context.Context, abs string) (fs.FileInfo, error) {
	if abs == "/" {
		return newDirInfo("/"), nil
	}

	info, err := f.client.StatObject(ctx, f.bucket, f.key(abs), minio.StatObjectOptions{})
	if err == nil {
		return newFileInfo(path.Base(abs), info.Size, info.LastModified), nil
	}
	if classify(err) != errors.CodeNotFound {
		return nil, translate("stat", abs, err)
	}

	isDir, err := f.hasChildren(ctx, abs, true)
	if err != nil {
		return nil, err
	}
	if isDir {
		return newDirInfo(path.Base(abs)), nil
	}
	return nil, errors.PathErrorf(errors.CodeNotFound, "stat", abs, "no such file or directory")
}

// hasChildren reports whether any object lies below abs. With withMarker
// the directory marker of abs itself counts.
func (f *FileSystem) hasChildren(ctx context.Context, abs string, withMarker bool) (bool, error) {
	prefix := f.dirKey(abs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for object := range f.client.ListObjects(ctx, f.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
		MaxKeys:   2,
	}) {
		if object.Err != nil {
			return false, translate("stat", abs, object.Err)
		}
		if object.Key == prefix && !withMarker {
			continue
		}
		return true, nil
	}
	return false, nil
}

// Load decodes p into dst with the formatter selected by format or by the
// extension of p.
func (f *FileSystem) Load(ctx context.Context, p, format string, dst any) error {
	return core.LoadWith(ctx, f, f.registry, p, format, dst)
}

// Dump encodes v into p with the formatter selected by format or by the
// extension of p.
func (f *FileSystem) Dump(ctx context.Context, p, format string, v any, opts ...core.Option) error {
	return core.DumpWith(ctx, f, f.registry, p, format, v, opts...)
}

// fileInfo implements fs.FileInfo for objects and virtual directories.
type fileInfo struct {
	name    string
	size    int64
	modTime time.Time
	mode    fs.FileMode
}

func newFileInfo(name string, size int64, modTime time.Time) *fileInfo {
	return &fileInfo{name: name, size: size, modTime: modTime, mode: 0o644}
}

func newDirInfo(name string) *fileInfo {
	return &fileInfo{name: name, mode: fs.ModeDir | 0o755}
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return fi.size }
func (fi *fileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *fileInfo) Sys() any           { return nil }
