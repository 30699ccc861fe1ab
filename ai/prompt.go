package ai

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/milk9111/deskpet/common"
)

//go:embed prompt.txt
var defaultPrompt string

func DefaultPrompt() string {
	return strings.TrimSpace(defaultPrompt)
}

// LoadPrompt reads the system prompt from path. A missing or blank file
// yields the built-in prompt without error.
func LoadPrompt(path string) (string, error) {
	if path == "" {
		return DefaultPrompt(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultPrompt(), nil
		}
		return DefaultPrompt(), fmt.Errorf("reading prompt %s: %w: %w", path, common.ErrPersistence, err)
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s, nil
	}
	return DefaultPrompt(), nil
}

func SavePrompt(path, prompt string) error {
	if err := os.WriteFile(path, []byte(prompt), 0o644); err != nil {
		return fmt.Errorf("writing prompt %s: %w: %w", path, common.ErrPersistence, err)
	}
	return nil
}
