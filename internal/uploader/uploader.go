// Package uploader validates and uploads task assets ahead of a submission.
//
// Files are screened before any network transfer begins and uploaded
// strictly one at a time: a single in-flight transfer keeps progress
// reporting unambiguous and bounds bandwidth against the store. The first
// failure aborts the remaining queue; files already uploaded in the same
// submission are not rolled back.
package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/sobran5883/tasks-management-dashboard/internal/client/storage"
)

const (
	MaxFiles    = 3
	MaxFileSize = 5 * 1024 * 1024
)

var (
	ErrFileCountExceeded = errors.New("file count exceeded")
	ErrInvalidType       = errors.New("invalid file type")
	ErrFileTooLarge      = errors.New("file too large")
)

// UploadError reports a transport-level failure for one file. URLs of files
// uploaded earlier in the same submission ride along for visibility; they
// are never forwarded to the mutation endpoint.
type UploadError struct {
	FileName string
	Uploaded []string
	Cause    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed for %s: %v", e.FileName, e.Cause)
}

func (e *UploadError) Unwrap() error { return e.Cause }

// File is a candidate asset: a name, its MIME type, and its content.
type File struct {
	Name string
	Type string
	Data []byte
}

// Progress is emitted as bytes of one file move to the store.
type Progress struct {
	FileName    string
	Transferred int64
	Total       int64
}

// Queue holds files accepted for one submission. Not safe for concurrent
// use; a submission is single-flow by design.
type Queue struct {
	store storage.Uploader
	files []File
}

func NewQueue(store storage.Uploader) *Queue {
	return &Queue{store: store}
}

// Add screens a candidate file before any network transfer. Rejections
// leave the queue unchanged; earlier accepted files stay accepted.
func (q *Queue) Add(f File) error {
	if len(q.files)+1 > MaxFiles {
		return fmt.Errorf("%w: at most %d files per task", ErrFileCountExceeded, MaxFiles)
	}
	if !validType(f.Type) {
		return fmt.Errorf("%w: %s (%s): only images and PDFs are allowed", ErrInvalidType, f.Name, f.Type)
	}
	if int64(len(f.Data)) > MaxFileSize {
		return fmt.Errorf("%w: %s is %s, maximum is %s", ErrFileTooLarge,
			f.Name, humanize.Bytes(uint64(len(f.Data))), humanize.Bytes(MaxFileSize))
	}
	q.files = append(q.files, f)
	return nil
}

// Remove drops a pending file. Free before upload starts: no network
// resource has been allocated for it yet.
func (q *Queue) Remove(i int) {
	if i < 0 || i >= len(q.files) {
		return
	}
	q.files = append(q.files[:i], q.files[i+1:]...)
}

// Len reports the number of pending files.
func (q *Queue) Len() int { return len(q.files) }

// Files returns the pending files in acceptance order.
func (q *Queue) Files() []File {
	return append([]File(nil), q.files...)
}

// UploadAll pushes the pending files to the store sequentially and returns
// their URLs in submission order. The result is scoped to this call; the
// queue never accumulates URLs across submissions. On failure the remaining
// queue is abandoned and a *UploadError is returned.
func (q *Queue) UploadAll(ctx context.Context, onProgress func(Progress)) ([]string, error) {
	urls := make([]string, 0, len(q.files))
	for _, f := range q.files {
		var cb func(sent, total int64)
		if onProgress != nil {
			name := f.Name
			cb = func(sent, total int64) {
				onProgress(Progress{FileName: name, Transferred: sent, Total: total})
			}
		}

		url, err := q.store.Upload(ctx, f.Name, bytes.NewReader(f.Data), int64(len(f.Data)), cb)
		if err != nil {
			return nil, &UploadError{FileName: f.Name, Uploaded: urls, Cause: err}
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func validType(mime string) bool {
	return strings.HasPrefix(mime, "image/") || mime == "application/pdf"
}
