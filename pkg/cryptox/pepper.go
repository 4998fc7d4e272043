package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	// pepper is loaded from a file or generated on first use.
	pepper     string
	pepperFile string
)

// SetPepperPath configures where the pepper file lives. Call once at
// startup before any hashing happens.
func SetPepperPath(file string) {
	pepperFile = file
}

// GetPepper returns the process-wide pepper, generating and persisting one
// on first use if the file does not exist yet. Losing the pepper file makes
// every stored hash unverifiable, hence the persist-on-generate.
func GetPepper() string {
	if pepper != "" {
		return pepper
	}

	var err error
	pepper, err = loadOrGeneratePepper()
	if err != nil {
		slog.Error("failed to load or generate pepper", slog.Any("err", err))
		os.Exit(1)
	}

	return pepper
}

func loadOrGeneratePepper() (string, error) {
	pepperFile = filepath.Clean(pepperFile)
	if err := os.MkdirAll(filepath.Dir(pepperFile), 0750); err != nil {
		return "", err
	}

	if _, err := os.Stat(pepperFile); os.IsNotExist(err) {
		raw := make([]byte, keyLength)
		if _, err := rand.Read(raw); err != nil {
			return "", err
		}
		generated := base64.RawURLEncoding.EncodeToString(raw)

		if err := os.WriteFile(pepperFile, []byte(generated), 0600); err != nil {
			return "", err
		}
		return generated, nil
	}

	loaded, err := os.ReadFile(pepperFile)
	if err != nil {
		return "", err
	}
	return string(loaded), nil
}
