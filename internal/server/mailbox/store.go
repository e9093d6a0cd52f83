// Package mailbox implements the file-backed mail store. It owns the on-disk
// layout: one directory per lower-cased username under the data root, holding
// a credential file plus one JSON file per mail record, and a reserved "lost"
// directory for undeliverable mail.
package mailbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gophmail/internal/common"
)

// LostMailbox is the reserved mailbox receiving mail addressed to unknown
// local recipients. No credential record exists for it and the name can
// never be registered.
const LostMailbox = "lost"

// credentialFile is the per-mailbox credential record. It carries no .json
// suffix, so it can never collide with a mail record name.
const credentialFile = "passwd"

// Record is one stored mail message. The JSON field names are shared with
// the wire protocol, so a record round-trips between disk and the EMAIL
// payloads without translation.
type Record struct {
	Sender      string `json:"sender"`
	Destination string `json:"destination"`
	Subject     string `json:"subject"`
	Date        string `json:"date"`
	Content     string `json:"content"`
}

// Summary is one line of an inbox listing. Seq is the 1-based position in
// the newest-first ordering at the time List was called.
type Summary struct {
	Seq     int
	Sender  string
	Subject string
	Date    string
}

// Stats aggregates a mailbox: number of mail records and their total
// on-disk size in bytes. The credential file is excluded from both.
type Stats struct {
	Count int
	Size  int64
}

// Store persists mailboxes under a single root directory.
//
// Record identifiers combine the wall clock with a process-wide counter, so
// two deliveries landing in the same nanosecond still get distinct,
// correctly ordered names. Files are created with O_EXCL and are never
// overwritten.
type Store struct {
	root string
	seq  atomic.Uint64

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore opens (creating if needed) the data root and the lost mailbox.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("creating data root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(root, LostMailbox), 0o700); err != nil {
		return nil, fmt.Errorf("creating lost mailbox: %w", err)
	}
	return &Store{root: root, locks: make(map[string]*sync.Mutex)}, nil
}

// lock returns the mutex guarding one mailbox, creating it on first use.
// At most one writer per mailbox, even if callers ever leave the single
// dispatcher goroutine.
func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// canonical lowercases a mailbox name and rejects anything that could
// escape the data root.
func canonical(name string) (string, error) {
	name = strings.ToLower(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", common.ErrInvalidUsername
	}
	return name, nil
}

func (s *Store) dir(name string) string {
	return filepath.Join(s.root, name)
}

// Exists reports whether a mailbox with a credential record exists for the
// username, case-insensitively. The lost mailbox has no credential record
// and is therefore never a deliverable recipient.
func (s *Store) Exists(username string) bool {
	name, err := canonical(username)
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(s.dir(name), credentialFile))
	return err == nil
}

// Create atomically creates a mailbox with its credential record. The
// directory is staged under a temporary name and renamed into place, so a
// concurrent request can never observe a mailbox without its credential.
// Returns ErrUsernameTaken when the mailbox already exists.
func (s *Store) Create(username, credentialHash string) error {
	name, err := canonical(username)
	if err != nil {
		return err
	}
	if name == LostMailbox {
		return common.ErrInvalidUsername
	}

	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	if _, err := os.Stat(s.dir(name)); err == nil {
		return common.ErrUsernameTaken
	}

	staging, err := os.MkdirTemp(s.root, "."+name+"-*")
	if err != nil {
		return fmt.Errorf("staging mailbox: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := os.WriteFile(filepath.Join(staging, credentialFile), []byte(credentialHash), 0o600); err != nil {
		return fmt.Errorf("writing credential record: %w", err)
	}
	if err := os.Rename(staging, s.dir(name)); err != nil {
		// A lost race with another registration surfaces as a rename failure
		// onto the now-existing mailbox.
		if _, statErr := os.Stat(s.dir(name)); statErr == nil {
			return common.ErrUsernameTaken
		}
		return fmt.Errorf("publishing mailbox: %w", err)
	}
	return nil
}

// Credential returns the stored credential hash for the username. Returns
// ErrNoSuchUser when no mailbox exists.
func (s *Store) Credential(username string) (string, error) {
	name, err := canonical(username)
	if err != nil {
		return "", common.ErrNoSuchUser
	}
	data, err := os.ReadFile(filepath.Join(s.dir(name), credentialFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", common.ErrNoSuchUser
		}
		return "", fmt.Errorf("reading credential record: %w", err)
	}
	return string(data), nil
}

// Store appends a mail record to the named mailbox (a username or
// LostMailbox). The record file name sorts by creation order and is created
// exclusively, so an existing record is never overwritten.
func (s *Store) Store(mailbox string, r Record) error {
	name, err := canonical(mailbox)
	if err != nil {
		return err
	}

	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding mail record: %w", err)
	}

	id := fmt.Sprintf("%020d-%09d.json", time.Now().UTC().UnixNano(), s.seq.Add(1))
	f, err := os.OpenFile(filepath.Join(s.dir(name), id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("creating mail record: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing mail record: %w", err)
	}
	return f.Close()
}

// recordFiles returns the mailbox's record file names, newest first. Ties on
// the timestamp are broken by the sequence suffix, so a later insertion
// sorts first.
func (s *Store) recordFiles(name string) ([]string, error) {
	entries, err := os.ReadDir(s.dir(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrNoSuchUser
		}
		return nil, fmt.Errorf("reading mailbox: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

func (s *Store) readRecord(name, file string) (Record, error) {
	var r Record
	data, err := os.ReadFile(filepath.Join(s.dir(name), file))
	if err != nil {
		return r, fmt.Errorf("reading mail record: %w", err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("decoding mail record %s: %w", file, err)
	}
	return r, nil
}

// List returns the inbox summaries, newest first, numbered from 1. An empty
// inbox is an empty slice, not an error.
func (s *Store) List(username string) ([]Summary, error) {
	name, err := canonical(username)
	if err != nil {
		return nil, common.ErrNoSuchUser
	}

	files, err := s.recordFiles(name)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(files))
	for i, file := range files {
		r, err := s.readRecord(name, file)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, Summary{
			Seq:     i + 1,
			Sender:  r.Sender,
			Subject: r.Subject,
			Date:    r.Date,
		})
	}
	return summaries, nil
}

// Get returns the n-th record (1-based) in the same newest-first ordering
// List produces at the time of the call. If mail arrives between a List and
// the following Get, the numbering may shift; this matches the protocol's
// documented behavior. Returns ErrInvalidChoice outside [1, count].
func (s *Store) Get(username string, n int) (Record, error) {
	name, err := canonical(username)
	if err != nil {
		return Record{}, common.ErrNoSuchUser
	}

	files, err := s.recordFiles(name)
	if err != nil {
		return Record{}, err
	}
	if n < 1 || n > len(files) {
		return Record{}, common.ErrInvalidChoice
	}
	return s.readRecord(name, files[n-1])
}

// Stats returns the record count and summed record sizes for the mailbox,
// excluding the credential record.
func (s *Store) Stats(username string) (Stats, error) {
	name, err := canonical(username)
	if err != nil {
		return Stats{}, common.ErrNoSuchUser
	}

	entries, err := os.ReadDir(s.dir(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Stats{}, common.ErrNoSuchUser
		}
		return Stats{}, fmt.Errorf("reading mailbox: %w", err)
	}

	var st Stats
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return Stats{}, fmt.Errorf("stat mail record: %w", err)
		}
		st.Count++
		st.Size += info.Size()
	}
	return st, nil
}
