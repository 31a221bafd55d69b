package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "folio", "token")
}

// loadToken returns the saved token, or "" when none has been saved.
func loadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// saveToken writes the token readable only by the current user.
func saveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", path, err)
	}
	return nil
}

func removeToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file %s: %w", path, err)
	}
	return nil
}
