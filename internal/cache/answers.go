// Package cache keeps review answers on disk so that re-checking an
// unchanged proposal does not repeat model calls.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNotConfigured is returned by Store on a cache without a directory.
var ErrNotConfigured = errors.New("review cache directory not configured")

// Answer is one cached model answer, already stripped of code fences.
type Answer struct {
	Model   string    `json:"model"`
	Text    string    `json:"text"`
	SavedAt time.Time `json:"saved_at"`
}

// ReviewCache stores answers under Dir as one <key>.json file each.
// StrictPerms keeps the directory at 0700 and entries at 0600.
type ReviewCache struct {
	Dir         string
	StrictPerms bool
}

// Key identifies the answer to prompt from model.
func Key(model, prompt string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *ReviewCache) configured() bool {
	return c != nil && strings.TrimSpace(c.Dir) != ""
}

func (c *ReviewCache) path(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

func (c *ReviewCache) modes() (dir, file os.FileMode) {
	if c.StrictPerms {
		return 0o700, 0o600
	}
	return 0o755, 0o644
}

// Lookup returns the answer stored under key. A hit refreshes the entry's
// mtime so EnforceLimits evicts least recently used answers first. Entries
// that no longer decode are removed and reported as misses.
func (c *ReviewCache) Lookup(key string) (Answer, bool) {
	if !c.configured() {
		return Answer{}, false
	}
	p := c.path(key)
	b, err := os.ReadFile(p)
	if err != nil {
		return Answer{}, false
	}
	var a Answer
	if err := json.Unmarshal(b, &a); err != nil || strings.TrimSpace(a.Text) == "" {
		log.Debug().Str("entry", filepath.Base(p)).Msg("dropping unreadable review cache entry")
		_ = os.Remove(p)
		return Answer{}, false
	}
	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return a, true
}

// Store writes a under key. The entry is written to a temporary file and
// renamed into place, so concurrent readers never see a partial answer.
func (c *ReviewCache) Store(key string, a Answer) error {
	if !c.configured() {
		return ErrNotConfigured
	}
	dirMode, fileMode := c.modes()
	if err := os.MkdirAll(c.Dir, dirMode); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if c.StrictPerms {
		if err := os.Chmod(c.Dir, dirMode); err != nil {
			return fmt.Errorf("restrict cache dir: %w", err)
		}
	}
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create cache entry: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path(key))
}
