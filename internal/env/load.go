package env

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Parse reads KEY=VALUE lines. Comments, an optional leading "export " and single or
// double quotes are handled by godotenv.
func Parse(r io.Reader) (map[string]string, error) {
	vars, err := godotenv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}
	return vars, nil
}

// Load reads the given file (e.g. ".env") and sets each variable that is not already
// present in the process environment. The file may be missing; that is not an error.
func Load(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("env: %s: %w", path, err)
	}
	return nil
}
