package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/zalando/go-keyring"
)

const (
	defaultService = "bookshelf-cli"
	// go-keyring cannot enumerate entries, so the keys we wrote are tracked here
	// to make Clear possible.
	indexKey = "__keys"
)

// keychain is the slice of go-keyring the backend uses
type keychain interface {
	Get(service, user string) (string, error)
	Set(service, user, password string) error
	Delete(service, user string) error
}

// osKeychain is the OS keychain/credential manager
type osKeychain struct{}

func (osKeychain) Get(service, user string) (string, error) { return keyring.Get(service, user) }
func (osKeychain) Set(service, user, password string) error { return keyring.Set(service, user, password) }
func (osKeychain) Delete(service, user string) error { return keyring.Delete(service, user) }

// Keyring stores items in the OS keychain/credential manager
type Keyring struct {
	service string
	kc      keychain
}

// NewKeyring returns a keyring-backed Storage under the given service name
func NewKeyring(service string) *Keyring {
	if service == "" {
		service = defaultService
	}
	return &Keyring{service: service, kc: osKeychain{}}
}

func (k *Keyring) GetItem(_ context.Context, key string) (string, error) {
	value, err := k.kc.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

// SetItem records key in the index before writing the value, so a failed
// write never leaves a value behind that Clear cannot find.
func (k *Keyring) SetItem(_ context.Context, key, value string) error {
	keys, err := k.index()
	if err != nil {
		return err
	}
	if !slices.Contains(keys, key) {
		if err := k.saveIndex(append(keys, key)); err != nil {
			return err
		}
	}

	if err := k.kc.Set(k.service, key, value); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (k *Keyring) RemoveItem(_ context.Context, key string) error {
	if err := k.delete(key); err != nil {
		return err
	}

	keys, err := k.index()
	if err != nil {
		return err
	}
	return k.saveIndex(slices.DeleteFunc(keys, func(s string) bool { return s == key }))
}

func (k *Keyring) Clear(_ context.Context) error {
	keys, err := k.index()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := k.delete(key); err != nil {
			return err
		}
	}
	return k.delete(indexKey)
}

// Close is a no-op; the keyring holds no handle
func (k *Keyring) Close() error {
	return nil
}

func (k *Keyring) delete(key string) error {
	if err := k.kc.Delete(k.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

func (k *Keyring) index() ([]string, error) {
	raw, err := k.kc.Get(k.service, indexKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read key index: %w", err)
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("failed to parse key index: %w", err)
	}
	return keys, nil
}

func (k *Keyring) saveIndex(keys []string) error {
	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to marshal key index: %w", err)
	}
	if err := k.kc.Set(k.service, indexKey, string(data)); err != nil {
		return fmt.Errorf("failed to write key index: %w", err)
	}
	return nil
}
