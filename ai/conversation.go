package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/milk9111/deskpet/common"
)

// TimestampLayout is how history entries record when they were written.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	DefaultMaxHistory = 100
	// RecentTurns is how many history entries accompany each chat.
	RecentTurns = 10
)

type Entry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Conversation is the persisted chat history. It is safe for concurrent
// use.
type Conversation struct {
	mu      sync.Mutex
	path    string
	max     int
	entries []Entry
}

// NewConversation returns an empty history persisted at path. An empty path
// keeps history in memory only.
func NewConversation(path string, limit int) *Conversation {
	if limit <= 0 {
		limit = DefaultMaxHistory
	}
	return &Conversation{path: path, max: limit}
}

// LoadConversation reads history from path. A missing file is an empty
// history; an unreadable or malformed one is an empty history plus an error
// wrapping common.ErrPersistence.
func LoadConversation(path string, limit int) (*Conversation, error) {
	c := NewConversation(path, limit)
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("reading history %s: %w: %w", path, common.ErrPersistence, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return c, fmt.Errorf("parsing history %s: %w: %w", path, common.ErrPersistence, err)
	}
	c.entries = entries
	return c, nil
}

func (c *Conversation) Append(role, content string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{Role: role, Content: content, Timestamp: at.Format(TimestampLayout)})
}

// Recent returns the last n entries without timestamps.
func (c *Conversation) Recent(n int) []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 || len(c.entries) == 0 {
		return nil
	}
	start := max(len(c.entries)-n, 0)
	out := make([]Message, 0, len(c.entries)-start)
	for _, e := range c.entries[start:] {
		out = append(out, Message{Role: e.Role, Content: e.Content})
	}
	return out
}

func (c *Conversation) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Save trims the history to its maximum length and writes it as JSON.
func (c *Conversation) Save() error {
	c.mu.Lock()
	if len(c.entries) > c.max {
		c.entries = append([]Entry(nil), c.entries[len(c.entries)-c.max:]...)
	}
	entries := append([]Entry(nil), c.entries...)
	path := c.path
	c.mu.Unlock()

	if path == "" {
		return nil
	}
	return writeHistory(path, entries)
}

// Reset clears the history and the file behind it.
func (c *Conversation) Reset() error {
	c.mu.Lock()
	c.entries = nil
	path := c.path
	c.mu.Unlock()

	if path == "" {
		return nil
	}
	return writeHistory(path, []Entry{})
}

func writeHistory(path string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w: %w", common.ErrPersistence, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w: %w", dir, common.ErrPersistence, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing history %s: %w: %w", path, common.ErrPersistence, err)
	}
	return nil
}

func speaker(role, petName string) string {
	if role == RoleUser {
		return "You"
	}
	return petName
}

// Summary renders the last four entries, each cut to 50 characters.
func (c *Conversation) Summary(petName string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 {
		return "No conversation yet."
	}
	start := max(len(c.entries)-4, 0)
	lines := make([]string, 0, 4)
	for _, e := range c.entries[start:] {
		content := e.Content
		if r := []rune(content); len(r) > 50 {
			content = string(r[:50]) + "..."
		}
		lines = append(lines, speaker(e.Role, petName)+": "+content)
	}
	return strings.Join(lines, "\n")
}

// Export writes a plain-text transcript to path.
func (c *Conversation) Export(path, petName string, now time.Time) error {
	entries := c.Entries()

	var sb strings.Builder
	sb.WriteString("=== Chat export ===\n")
	fmt.Fprintf(&sb, "Exported: %s\n", now.Format(TimestampLayout))
	sb.WriteString(strings.Repeat("=", 30) + "\n\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "[%s] %s:\n%s\n", e.Timestamp, speaker(e.Role, petName), e.Content)
		sb.WriteString(strings.Repeat("-", 20) + "\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("exporting history %s: %w: %w", path, common.ErrPersistence, err)
	}
	return nil
}
