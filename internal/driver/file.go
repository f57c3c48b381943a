package driver

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/ingestkit/wayfind/internal/model"
)

// DefaultFileMaxSize caps how many bytes the file driver reads from a
// single file. Large binaries are truncated rather than failed so a run
// over a mixed tree still completes.
const DefaultFileMaxSize = 10 * 1024 * 1024 // 10MB

// FileDriver reads bytes from the local filesystem.
//
// A directory task produces a discovery-only result whose leads are the
// directory's entries, with model.DirLeadSuffix appended to subdirectory
// paths so the navigator can recurse without touching the filesystem.
// A file task produces the file's bytes.
type FileDriver struct {
	// maxSize limits how many bytes are read from one file.
	maxSize int64

	// textOnly rejects files that are not valid UTF-8 with a decode error.
	textOnly bool
}

// FileOption configures a FileDriver.
type FileOption func(*FileDriver)

// WithFileMaxSize sets the per-file read cap in bytes.
func WithFileMaxSize(size int64) FileOption {
	return func(d *FileDriver) {
		d.maxSize = size
	}
}

// WithTextOnly makes the driver fail non-UTF-8 files with a decode error
// instead of passing their bytes through.
func WithTextOnly(textOnly bool) FileOption {
	return func(d *FileDriver) {
		d.textOnly = textOnly
	}
}

// NewFileDriver creates a FileDriver with the given options.
func NewFileDriver(opts ...FileOption) *FileDriver {
	d := &FileDriver{maxSize: DefaultFileMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Supports implements Driver.
func (d *FileDriver) Supports(task model.Task) bool {
	return task.Strategy == model.StrategyPathWalk
}

// Fetch implements Driver.
func (d *FileDriver) Fetch(ctx context.Context, task model.Task) model.Result {
	if err := ctx.Err(); err != nil {
		return model.Failed(task, model.NewFetchError(model.KindTransient, err))
	}

	info, err := os.Stat(task.Target)
	if err != nil {
		return model.Failed(task, classifyFSError(err))
	}

	if info.IsDir() {
		return d.listDir(task)
	}
	return d.readFile(task)
}

// listDir lists a directory's entries as leads of a discovery result.
func (d *FileDriver) listDir(task model.Task) model.Result {
	entries, err := os.ReadDir(task.Target)
	if err != nil {
		return model.Failed(task, classifyFSError(err))
	}

	leads := make([]string, 0, len(entries))
	for _, entry := range entries {
		lead := filepath.Join(task.Target, entry.Name())
		if entry.IsDir() {
			lead += model.DirLeadSuffix
		}
		leads = append(leads, lead)
	}
	return model.Discovered(task, leads)
}

// readFile reads a single file's bytes, capped at maxSize.
func (d *FileDriver) readFile(task model.Task) model.Result {
	f, err := os.Open(task.Target)
	if err != nil {
		return model.Failed(task, classifyFSError(err))
	}
	defer f.Close() //nolint:errcheck // read-only handle

	payload, err := io.ReadAll(io.LimitReader(f, d.maxSize))
	if err != nil {
		return model.Failed(task, model.NewFetchError(model.KindDecode, err))
	}

	if d.textOnly && !utf8.Valid(payload) {
		return model.Failed(task,
			model.Fetchf(model.KindDecode, "file %s is not valid UTF-8", task.Target))
	}

	res := model.Succeeded(task, payload)
	res.ContentType = mime.TypeByExtension(filepath.Ext(task.Target))
	return res
}

// classifyFSError maps a filesystem error onto the fetch error taxonomy.
func classifyFSError(err error) *model.FetchError {
	switch {
	case os.IsNotExist(err):
		return model.NewFetchError(model.KindNotFound, err)
	case os.IsPermission(err):
		return model.NewFetchError(model.KindPermission, err)
	default:
		return model.NewFetchError(model.KindPermanent, err)
	}
}
