package credential

import (
	"fmt"
	"os"

	"github.com/99designs/keyring"

	"github.com/nhle/modelswitch/internal/model"
)

const serviceName = "modelswitch"

// APIKeyName is the keyring entry holding the catalog API key.
const APIKeyName = "catalog-api-key"

// APIKeyEnv overrides the keyring entry when set.
const APIKeyEnv = "OPENAI_API_KEY"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  model.ConfigDir() + "/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("modelswitch-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "modelswitch " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// APIKey returns the catalog API key from the environment or the keyring.
// An empty string means none is configured.
func APIKey() string {
	if v := os.Getenv(APIKeyEnv); v != "" {
		return v
	}
	v, err := Get(APIKeyName)
	if err != nil {
		return ""
	}
	return v
}
