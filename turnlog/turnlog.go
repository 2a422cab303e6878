// Package turnlog records every decided turn as zstd-compressed JSON lines so
// matches can be replayed offline.
package turnlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"github.com/cudabot/octobot/model"
)

var ErrClosed = errors.New("turn log closed")

// Entry is one line of the log.
type Entry struct {
	Session     string            `json:"session"`
	Turn        int               `json:"turn"`
	Side        model.Side        `json:"side"`
	Observation model.Observation `json:"observation"`
	Roles       map[int]string    `json:"roles,omitempty"`
	Actions     model.ActionBatch `json:"actions"`
}

func NewSession() string { return uuid.NewString() }

// Path is where a session's log lives under dir.
func Path(dir, session string) string {
	return filepath.Join(dir, fmt.Sprintf("match-%s.jsonl.zst", session))
}

type Recorder struct {
	session string
	path    string

	mu  sync.Mutex
	f   afero.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create opens a new log for session under dir.
func Create(fsys afero.Fs, dir, session string) (*Recorder, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	path := Path(dir, session)
	f, err := fsys.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create turn log: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Recorder{
		session: session,
		path:    path,
		f:       f,
		enc:     enc,
		w:       bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

func (r *Recorder) Session() string { return r.session }
func (r *Recorder) Path() string    { return r.path }

// Write appends e, stamping the session id. Each entry is flushed as its own
// zstd block so a log whose writer never closed still reads back.
func (r *Recorder) Write(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return ErrClosed
	}
	e.Session = r.session
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal turn %d: %w", e.Turn, err)
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := r.w.Flush(); err != nil {
		return err
	}
	return r.enc.Flush()
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}
	_ = r.w.Flush()
	err := r.enc.Close()
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	r.w, r.enc, r.f = nil, nil, nil
	return err
}

// Reader iterates over a recorded log.
type Reader struct {
	f         afero.File
	dec       *zstd.Decoder
	sc        *bufio.Scanner
	truncated bool
}

func Open(fsys afero.Fs, path string) (*Reader, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open turn log: %w", err)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	return &Reader{f: f, dec: dec, sc: sc}, nil
}

// Next returns the next entry, or io.EOF after the last one. A log cut off
// mid-frame ends at its last complete entry and reports Truncated.
func (r *Reader) Next() (Entry, error) {
	if !r.sc.Scan() {
		err := r.sc.Err()
		if errors.Is(err, io.ErrUnexpectedEOF) {
			r.truncated = true
			return Entry{}, io.EOF
		}
		if err != nil {
			return Entry{}, fmt.Errorf("%s: %w", r.f.Name(), err)
		}
		return Entry{}, io.EOF
	}
	var e Entry
	if err := json.Unmarshal(r.sc.Bytes(), &e); err != nil {
		return Entry{}, fmt.Errorf("%s: unmarshal: %w", filepath.Base(r.f.Name()), err)
	}
	return e, nil
}

// Truncated reports whether the log ended without a closing frame, as when
// the recording process stopped before the match ended.
func (r *Reader) Truncated() bool { return r.truncated }

func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}

// ReadAll loads every entry of the log at path.
func ReadAll(fsys afero.Fs, path string) ([]Entry, error) {
	r, err := Open(fsys, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var out []Entry
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
}
