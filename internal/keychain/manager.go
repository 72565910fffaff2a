// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores the graph-store connection string in the OS keychain.
//
// macOS uses the native security command when available; other platforms go
// through 99designs/keyring with native backends only (Keychain or pass on
// macOS, Credential Manager on Windows, Secret Service or pass on Linux).
// There is no file fallback.
package keychain

import (
	"errors"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain namespace.
const ServiceName = "modgraph"

// KeyDBDSN is the item holding the Postgres connection string.
const KeyDBDSN = "graph_dsn"

// ErrNotFound is returned when no DSN has been stored.
var ErrNotFound = errors.New("no DSN stored in keychain")

// secretStore is the minimal surface both backends provide. Get reports a
// missing key as ErrNotFound; Delete ignores it.
type secretStore interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Manager serializes access to the stored DSN.
type Manager struct {
	mu    sync.RWMutex
	store secretStore
}

var (
	shared   *Manager
	sharedMu sync.Mutex
)

// GetManager returns the process-wide manager. A failed open is retried on
// the next call.
func GetManager() (*Manager, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		m, err := NewManager()
		if err != nil {
			return nil, err
		}
		shared = m
	}
	return shared, nil
}

// NewManager opens the OS keychain.
func NewManager() (*Manager, error) {
	if runtime.GOOS == "darwin" {
		if cli, err := newSecurityCLI(); err == nil {
			return &Manager{store: cli}, nil
		}
	}
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return NewWithRing(ring), nil
}

// NewWithRing wraps an already opened keyring, e.g. keyring.NewArrayKeyring in tests.
func NewWithRing(ring keyring.Keyring) *Manager {
	return &Manager{store: ringStore{ring}}
}

// SaveDBDSN stores the graph-store DSN.
func (m *Manager) SaveDBDSN(dsn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Set(KeyDBDSN, dsn)
}

// LoadDBDSN returns the stored DSN or ErrNotFound. An empty entry counts as missing.
func (m *Manager) LoadDBDSN() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dsn, err := m.store.Get(KeyDBDSN)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(dsn) == "" {
		return "", ErrNotFound
	}
	return dsn, nil
}

// ClearDB removes the stored DSN. Missing entries are not an error.
func (m *Manager) ClearDB() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Delete(KeyDBDSN)
}

func openRing() (keyring.Keyring, error) {
	backends := map[string][]keyring.BackendType{
		"darwin":  {keyring.KeychainBackend, keyring.PassBackend},
		"windows": {keyring.WinCredBackend},
		"linux":   {keyring.SecretServiceBackend, keyring.PassBackend},
	}
	allowed, ok := backends[runtime.GOOS]
	if !ok {
		return nil, errors.New("secure storage not supported on " + runtime.GOOS)
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowed,
		PassPrefix:      ServiceName,
		WinCredPrefix:   ServiceName,
	})
	if err != nil && runtime.GOOS == "darwin" {
		return nil, errors.New("macOS Keychain unavailable. Install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
	}
	return ring, err
}

// ringStore adapts a keyring.Keyring to secretStore.
type ringStore struct {
	ring keyring.Keyring
}

func (r ringStore) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: "modgraph graph store"})
}

func (r ringStore) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (r ringStore) Delete(key string) error {
	if err := r.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
