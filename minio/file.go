package minio

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"io/fs"

	"github.com/minio/minio-go/v7"

	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
)

// Open opens p in the given mode.
//
// Reads stream the object without buffering it in memory. Writes are
// buffered until the multipart threshold and then streamed; the object
// becomes visible on Close. Append downloads the existing content into the
// new upload first. Parent directories are implicit.
func (f *FileSystem) Open(ctx context.Context, p string, mode core.Mode) (core.File, error) {
	if err := core.CheckMode(mode); err != nil {
		return nil, err
	}

	abs, err := f.Abspath(p)
	if err != nil {
		return nil, err
	}

	if mode == core.ModeRead {
		return newStreamingFile(ctx, f, abs)
	}

	info, err := f.stat(ctx, abs)
	switch {
	case err == nil && info.IsDir():
		return nil, errors.PathErrorf(errors.CodeInvalidInput, "open", abs, "path is a directory")
	case err != nil && !errors.IsCode(err, errors.CodeNotFound):
		return nil, err
	}

	w := newFileWrite(f, f.key(abs), abs)
	if mode == core.ModeAppend && err == nil {
		if err := w.prefill(ctx); err != nil {
			_ = w.abort()
			return nil, err
		}
	}
	return w, nil
}

// File is an object opened for writing.
type File struct {
	fs   *FileSystem
	key  string // Full S3 key (including prefix)
	name string // Absolute path the file was opened with

	buffer       *bytes.Buffer  // Accumulates writes for small files
	pipeW        *io.PipeWriter // Streaming writer once threshold exceeded
	putRes       chan error     // Result from background PutObject when streaming
	bytesWritten int64
	closed       bool
}

var _ core.File = (*File)(nil)

// newFileWrite creates a File in write mode with an empty buffer.
func newFileWrite(mfs *FileSystem, key, name string) *File {
	return &File{
		fs:     mfs,
		key:    key,
		name:   name,
		buffer: new(bytes.Buffer),
	}
}

// prefill copies the current content of the object into the upload.
func (f *File) prefill(ctx context.Context) error {
	obj, err := f.fs.client.GetObject(ctx, f.fs.bucket, f.key, minio.GetObjectOptions{})
	if err != nil {
		return translate("open", f.name, err)
	}
	defer func() {
		_ = obj.Close()
	}()

	if _, err := io.Copy(f, obj); err != nil {
		return translate("open", f.name, err)
	}
	return nil
}

// Read is not supported on files opened for writing.
func (f *File) Read(_ []byte) (int, error) {
	return 0, errors.PathErrorf(errors.CodeInvalidMode, "read", f.name, "file is open for writing")
}

// transitionToStreaming transitions from buffered writes to streaming writes.
// It creates a pipe, starts a background upload goroutine, and flushes any existing buffer.
// nolint:contextcheck // Background upload by design; io.Writer.Write cannot accept context
func (f *File) transitionToStreaming(p []byte) (int, error) {
	pr, pw := io.Pipe()
	f.pipeW = pw
	f.putRes = make(chan error, 1)

	go func() {
		_, err := f.fs.client.PutObject(
			context.Background(),
			f.fs.bucket,
			f.key,
			pr,
			-1,
			minio.PutObjectOptions{
				ContentType: "application/octet-stream",
			},
		)
		_ = pr.CloseWithError(err)
		f.putRes <- translate("write", f.name, err)
		close(f.putRes)
	}()

	if f.buffer != nil && f.buffer.Len() > 0 {
		if _, err := f.pipeW.Write(f.buffer.Bytes()); err != nil {
			return 0, errors.PathError(errors.CodeIO, "write", f.name, err)
		}
	}
	f.buffer = nil

	n, err := f.pipeW.Write(p)
	f.bytesWritten += int64(n)
	if err != nil {
		return n, errors.PathError(errors.CodeIO, "write", f.name, err)
	}
	return n, nil
}

// Write appends p to the pending upload.
// nolint:contextcheck // io.Writer.Write signature cannot accept a context parameter
func (f *File) Write(p []byte) (int, error) {
	if f.closed {
		return 0, errors.FromOS("write", f.name, fs.ErrClosed)
	}

	if f.pipeW != nil {
		n, err := f.pipeW.Write(p)
		f.bytesWritten += int64(n)
		if err != nil {
			return n, errors.PathError(errors.CodeIO, "write", f.name, err)
		}
		return n, nil
	}

	// Keep buffering while under threshold, or when no client is configured
	// (unit tests).
	if int64(f.buffer.Len()+len(p)) <= f.fs.multipartThreshold || f.fs.client == nil {
		n, _ := f.buffer.Write(p)
		f.bytesWritten += int64(n)
		return n, nil
	}

	return f.transitionToStreaming(p)
}

// Close uploads the buffered content or waits for the streaming upload to
// finish. Closing twice is a no-op.
// nolint:contextcheck // io.Closer.Close signature cannot accept a context parameter
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	if f.pipeW != nil {
		_ = f.pipeW.Close()
		if err := <-f.putRes; err != nil {
			return err
		}
		return nil
	}

	_, err := f.fs.client.PutObject(
		context.Background(),
		f.fs.bucket,
		f.key,
		bytes.NewReader(f.buffer.Bytes()),
		int64(f.buffer.Len()),
		minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		},
	)
	return translate("write", f.name, err)
}

// abort discards the upload without creating the object.
func (f *File) abort() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.pipeW != nil {
		_ = f.pipeW.CloseWithError(stderrors.New("upload aborted"))
		<-f.putRes
	}
	return nil
}

// Name returns the absolute path the file was opened with.
func (f *File) Name() string {
	return f.name
}

// streamingFile provides streaming reads without buffering entire objects.
type streamingFile struct {
	fs     *FileSystem
	key    string
	name   string
	obj    *minio.Object
	size   int64
	offset int64 // Current read position for Seek implementation
	closed bool
}

var (
	_ core.File   = (*streamingFile)(nil)
	_ io.Seeker   = (*streamingFile)(nil)
	_ io.ReaderAt = (*streamingFile)(nil)
)

// newStreamingFile creates a streaming file handle for reading.
// It opens the object for streaming without downloading the entire content.
func newStreamingFile(ctx context.Context, mfs *FileSystem, abs string) (*streamingFile, error) {
	key := mfs.key(abs)

	info, err := mfs.client.StatObject(ctx, mfs.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if classify(err) == errors.CodeNotFound {
			if isDir, derr := mfs.hasChildren(ctx, abs, true); derr == nil && isDir {
				return nil, errors.PathErrorf(errors.CodeInvalidInput, "open", abs, "path is a directory")
			}
		}
		return nil, translate("open", abs, err)
	}

	obj, err := mfs.client.GetObject(ctx, mfs.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translate("open", abs, err)
	}

	return &streamingFile{
		fs:   mfs,
		key:  key,
		name: abs,
		obj:  obj,
		size: info.Size,
	}, nil
}

// Read reads up to len(p) bytes into p from the streaming object.
func (f *streamingFile) Read(p []byte) (int, error) {
	if f.closed {
		return 0, errors.FromOS("read", f.name, fs.ErrClosed)
	}
	n, err := f.obj.Read(p)
	f.offset += int64(n)

	// Only return EOF when no data is read
	if n > 0 && stderrors.Is(err, io.EOF) {
		return n, nil
	}
	if err != nil && !stderrors.Is(err, io.EOF) {
		return n, translate("read", f.name, err)
	}
	return n, err
}

// Close closes the streaming file and releases resources.
func (f *streamingFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.obj.Close()
}

// Name returns the absolute path the file was opened with.
func (f *streamingFile) Name() string {
	return f.name
}

// Write is not supported for read-only streaming files.
func (f *streamingFile) Write(_ []byte) (int, error) {
	return 0, errors.PathErrorf(errors.CodeInvalidMode, "write", f.name, "file is open for reading")
}

// Seek sets the read position for the next Read operation.
// It reopens the object with a range request starting at the new offset.
// nolint:contextcheck // io.Seeker.Seek cannot accept context; using background context
func (f *streamingFile) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, errors.FromOS("seek", f.name, fs.ErrClosed)
	}

	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = f.offset + offset
	case io.SeekEnd:
		newOffset = f.size + offset
	default:
		return 0, errors.PathErrorf(errors.CodeInvalidInput, "seek", f.name, "invalid whence %d", whence)
	}

	if newOffset < 0 {
		return 0, errors.PathErrorf(errors.CodeInvalidInput, "seek", f.name, "negative position %d", newOffset)
	}
	if newOffset == f.offset {
		return newOffset, nil
	}

	_ = f.obj.Close()

	opts := minio.GetObjectOptions{}
	if newOffset > 0 {
		if err := opts.SetRange(newOffset, 0); err != nil {
			return 0, errors.PathError(errors.CodeInvalidInput, "seek", f.name, err)
		}
	}

	obj, err := f.fs.client.GetObject(context.Background(), f.fs.bucket, f.key, opts)
	if err != nil {
		return 0, translate("seek", f.name, err)
	}

	f.obj = obj
	f.offset = newOffset
	return newOffset, nil
}

// ReadAt reads len(p) bytes from the file starting at byte offset off
// using a dedicated range request.
// nolint:contextcheck // io.ReaderAt.ReadAt cannot accept context; using background context
func (f *streamingFile) ReadAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, errors.FromOS("readat", f.name, fs.ErrClosed)
	}
	if off < 0 {
		return 0, errors.PathErrorf(errors.CodeInvalidInput, "readat", f.name, "negative offset %d", off)
	}
	if len(p) == 0 {
		return 0, nil
	}

	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(off, off+int64(len(p))-1); err != nil {
		return 0, errors.PathError(errors.CodeInvalidInput, "readat", f.name, err)
	}

	obj, err := f.fs.client.GetObject(context.Background(), f.fs.bucket, f.key, opts)
	if err != nil {
		return 0, translate("readat", f.name, err)
	}
	defer func() {
		_ = obj.Close()
	}()

	n, err := io.ReadFull(obj, p)
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return n, io.EOF
	}
	return n, err
}
