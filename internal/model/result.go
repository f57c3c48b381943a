package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// DirLeadSuffix marks a path-walk lead as a directory. The file driver
// appends it when listing directory entries so the navigator can tell
// directories from files without touching the filesystem itself.
const DirLeadSuffix = "/"

// Result is the outcome of executing a single Task.
//
// Exactly one of Payload/Rows is populated on success depending on the
// driver (file and HTTP drivers produce bytes, the query driver produces
// rows); Err is populated only on failure. Leads carry the raw candidate
// targets discovered during retrieval; interpreting and filtering them is
// the navigator's job, never the driver's.
type Result struct {
	// Task is the task that produced this result.
	Task Task `json:"task"`

	// Success reports whether the fetch completed.
	Success bool `json:"success"`

	// Payload is the retrieved data for byte-oriented drivers.
	// Nil on failure and for row-oriented drivers.
	Payload []byte `json:"-"`

	// Rows is the retrieved page for the query driver. Each row maps
	// column name to value. Nil for byte-oriented drivers.
	Rows []map[string]any `json:"rows,omitempty"`

	// StatusCode is the HTTP response status for HTTP fetches, 0 otherwise.
	StatusCode int `json:"status_code,omitempty"`

	// ContentType is the MIME type reported for the payload, when known.
	ContentType string `json:"content_type,omitempty"`

	// Title is the page title for HTML fetches. Empty otherwise.
	Title string `json:"title,omitempty"`

	// Err is the structured failure cause. Nil on success.
	Err *FetchError `json:"error,omitempty"`

	// Leads is the ordered list of raw candidate targets discovered while
	// executing the task: extracted hyperlinks, child directory entries,
	// or a single next-page cursor. Always empty for terminal tasks.
	Leads []string `json:"leads,omitempty"`

	// Discovery marks a result that exists only to carry leads, such as a
	// directory listing during a path walk. Discovery results are fed back
	// into the navigator but are not yielded to the caller, so the output
	// sequence contains only retrievable content.
	Discovery bool `json:"discovery,omitempty"`
}

// Succeeded creates a successful Result for task with the given payload.
func Succeeded(task Task, payload []byte) Result {
	return Result{Task: task, Success: true, Payload: payload}
}

// Failed creates a failed Result for task carrying the given error.
// A nil error is recorded as a bare permanent failure so a failed result
// never has a nil Err.
func Failed(task Task, err *FetchError) Result {
	if err == nil {
		err = Fetchf(KindPermanent, "fetch failed")
	}
	return Result{Task: task, Success: false, Err: err}
}

// Discovered creates a successful discovery-only Result carrying leads.
// Used by drivers for fetches whose sole purpose is to extend the frontier.
func Discovered(task Task, leads []string) Result {
	return Result{Task: task, Success: true, Leads: leads, Discovery: true}
}

// PayloadHash returns the hex-encoded SHA-256 of the payload, or the empty
// string when there is no payload. Used by the result store for
// deduplication and change detection.
func (r *Result) PayloadHash() string {
	if len(r.Payload) == 0 {
		return ""
	}
	sum := sha256.Sum256(r.Payload)
	return hex.EncodeToString(sum[:])
}

// ErrorKind returns the failure kind, or the empty kind on success.
func (r *Result) ErrorKind() ErrorKind {
	if r.Err == nil {
		return ""
	}
	return r.Err.Kind
}
