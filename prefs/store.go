package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/byte4ever/extedit/cmdline"
)

// Prefix is prepended to every settings key.
const Prefix = "EditExternally-"

// Keys of the status message templates.
const (
	StatusMsgKey = Prefix + "STATUS_MSG"
	ErrorMsgKey  = Prefix + "ERROR_MSG"
)

// EnvPath overrides the default settings file location.
const EnvPath = "EXTEDIT_PREFS"

var (
	// ErrLockTimeout is returned when the settings lock
	// cannot be acquired in time.
	ErrLockTimeout = errors.New("timeout acquiring settings lock")

	// ErrActionNotFound is returned when no custom action
	// matches.
	ErrActionNotFound = errors.New("action not found")

	// ErrEmptyAction is returned when adding an action
	// without title and command line.
	ErrEmptyAction = errors.New("action is empty")
)

// Action is a user defined command.
type Action struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	CmdLine string `yaml:"cmdline"`
}

// IsEmpty reports whether both title and command line are
// blank.
func (a Action) IsEmpty() bool {
	return strings.TrimSpace(a.Title) == "" &&
		strings.TrimSpace(a.CmdLine) == ""
}

type document struct {
	Settings map[string]string `yaml:"settings,omitempty"`
	Actions  []Action          `yaml:"actions,omitempty"`
}

// Store reads and writes the settings file. It is safe for
// concurrent use by goroutines and processes.
type Store struct {
	path        string
	lockTimeout time.Duration
	mu          sync.Mutex
}

// NewStore returns a Store backed by the file at path. The
// file does not need to exist.
func NewStore(path string) *Store {
	return &Store{
		path:        path,
		lockTimeout: 5 * time.Second,
	}
}

// DefaultPath returns $EXTEDIT_PREFS or prefs.yaml under
// the user configuration directory.
func DefaultPath() (string, error) {
	const errCtx = "resolving settings path"

	if pa := os.Getenv(EnvPath); pa != "" {
		return pa, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return filepath.Join(dir, "extedit", "prefs.yaml"), nil
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the value stored under key, or "" when
// unset. The Prefix is added when missing.
func (s *Store) Load(ctx context.Context, key string) (string, error) {
	return s.LoadDefault(ctx, key, "")
}

// LoadDefault returns the value stored under key, or def
// when unset.
func (s *Store) LoadDefault(
	ctx context.Context,
	key string,
	def string,
) (string, error) {
	const errCtx = "loading setting"

	doc, err := s.read(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	val, ok := doc.Settings[qualify(key)]
	if !ok {
		return def, nil
	}

	return val, nil
}

// Save stores value under key.
func (s *Store) Save(
	ctx context.Context,
	key string,
	value string,
) error {
	const errCtx = "saving setting"

	err := s.update(ctx, func(doc *document) error {
		if doc.Settings == nil {
			doc.Settings = make(map[string]string)
		}

		doc.Settings[qualify(key)] = value

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// LoadCmd returns the command line configured for ct, or
// "" when none is.
func (s *Store) LoadCmd(
	ctx context.Context,
	ct CmdType,
) (string, error) {
	return s.Load(ctx, ct.Key())
}

// SaveCmd validates cmdLine and stores it for ct. A
// malformed command line is rejected with the
// *cmdline.ParseError describing it.
func (s *Store) SaveCmd(
	ctx context.Context,
	ct CmdType,
	cmdLine string,
) error {
	const errCtx = "saving command"

	if err := cmdline.Validate(cmdLine); err != nil {
		return fmt.Errorf("%s %s: %w", errCtx, ct, err)
	}

	if err := s.Save(ctx, ct.Key(), cmdLine); err != nil {
		return fmt.Errorf("%s %s: %w", errCtx, ct, err)
	}

	return nil
}

// Settings returns a copy of every stored setting keyed
// by its full name.
func (s *Store) Settings(
	ctx context.Context,
) (map[string]string, error) {
	const errCtx = "listing settings"

	doc, err := s.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	out := make(map[string]string, len(doc.Settings))
	for key, val := range doc.Settings {
		out[key] = val
	}

	return out, nil
}

// Actions returns the custom actions in insertion order.
func (s *Store) Actions(ctx context.Context) ([]Action, error) {
	const errCtx = "listing actions"

	doc, err := s.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return doc.Actions, nil
}

// AddAction validates and appends a custom action. The
// returned Action carries its new ID.
func (s *Store) AddAction(
	ctx context.Context,
	title string,
	cmdLine string,
) (Action, error) {
	const errCtx = "adding action"

	act := Action{
		ID:      uuid.NewString(),
		Title:   strings.TrimSpace(title),
		CmdLine: cmdLine,
	}

	if act.IsEmpty() {
		return Action{}, fmt.Errorf("%s: %w", errCtx, ErrEmptyAction)
	}

	if err := cmdline.Validate(cmdLine); err != nil {
		return Action{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	err := s.update(ctx, func(doc *document) error {
		doc.Actions = append(doc.Actions, act)

		return nil
	})
	if err != nil {
		return Action{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return act, nil
}

// FindAction returns the action whose ID or title equals
// ref. IDs are matched first.
func (s *Store) FindAction(
	ctx context.Context,
	ref string,
) (Action, error) {
	const errCtx = "finding action"

	acts, err := s.Actions(ctx)
	if err != nil {
		return Action{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	for _, act := range acts {
		if act.ID == ref {
			return act, nil
		}
	}

	for _, act := range acts {
		if act.Title == ref {
			return act, nil
		}
	}

	return Action{}, fmt.Errorf(
		"%s %q: %w", errCtx, ref, ErrActionNotFound,
	)
}

// RemoveAction deletes the action with the given ID.
func (s *Store) RemoveAction(ctx context.Context, id string) error {
	const errCtx = "removing action"

	err := s.update(ctx, func(doc *document) error {
		for idx, act := range doc.Actions {
			if act.ID == id {
				doc.Actions = append(
					doc.Actions[:idx], doc.Actions[idx+1:]...,
				)

				return nil
			}
		}

		return fmt.Errorf("%q: %w", id, ErrActionNotFound)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// read loads the document under a shared lock. A missing
// file reads as an empty document.
func (s *Store) read(ctx context.Context) (*document, error) {
	const errCtx = "reading settings"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return &document{}, nil
	}

	lock := flock.New(s.lockPath())

	if err := s.acquire(ctx, lock.TryRLockContext); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() { _ = lock.Unlock() }() //nolint:errcheck // best-effort unlock

	return s.decode()
}

// update applies fn to the document under an exclusive
// lock and writes the result atomically.
func (s *Store) update(
	ctx context.Context,
	fn func(doc *document) error,
) error {
	const errCtx = "updating settings"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	lock := flock.New(s.lockPath())

	if err := s.acquire(ctx, lock.TryLockContext); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() { _ = lock.Unlock() }() //nolint:errcheck // best-effort unlock

	doc := &document{}

	if _, err := os.Stat(s.path); err == nil {
		doc, err = s.decode()
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	if err := fn(doc); err != nil {
		return err
	}

	if err := s.write(doc); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Debug("settings written", "path", s.path)

	return nil
}

func (s *Store) acquire(
	ctx context.Context,
	try func(context.Context, time.Duration) (bool, error),
) error {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := try(lockCtx, 50*time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) &&
			ctx.Err() == nil {
			return ErrLockTimeout
		}

		return fmt.Errorf("acquiring lock: %w", err)
	}

	if !locked {
		return ErrLockTimeout
	}

	return nil
}

func (s *Store) decode() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	doc := &document{}

	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}

	return doc, nil
}

func (s *Store) write(doc *document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	tmp, err := os.CreateTemp(
		filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp",
	)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()        //nolint:errcheck // already failing
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup

		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup

		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup

		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	return nil
}

func (s *Store) lockPath() string {
	return s.path + ".lock"
}

func qualify(key string) string {
	if strings.HasPrefix(key, Prefix) {
		return key
	}

	return Prefix + key
}
