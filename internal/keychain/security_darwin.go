// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const itemNotFound = "could not be found"

// securityCLI stores items with the macOS security command, which avoids the
// per-binary access prompts of the Keychain API.
type securityCLI struct{}

func newSecurityCLI() (*securityCLI, error) {
	if _, err := exec.LookPath("security"); err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	return &securityCLI{}, nil
}

// run executes security with the account and service arguments appended and
// returns trimmed stdout, stderr and the exit error.
func (securityCLI) run(verb, key string, extra ...string) (string, string, error) {
	args := append([]string{verb, "-a", ServiceName, "-s", key}, extra...)
	cmd := exec.Command("security", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if os.Getenv("MODGRAPH_VERBOSE") == "1" {
		fmt.Fprintf(os.Stderr, "[DEBUG] keychain: security %s %s: err=%v\n", verb, key, err)
	}
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}

// Set stores value under key, replacing any existing entry.
func (s securityCLI) Set(key, value string) error {
	_ = s.Delete(key)
	if _, stderr, err := s.run("add-generic-password", key, "-w", value, "-U"); err != nil {
		return fmt.Errorf("store %q in keychain: %s: %w", key, stderr, err)
	}
	return nil
}

func (s securityCLI) Get(key string) (string, error) {
	out, stderr, err := s.run("find-generic-password", key, "-w")
	switch {
	case err == nil:
		return out, nil
	case strings.Contains(stderr, itemNotFound):
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("read %q from keychain: %s: %w", key, stderr, err)
	}
}

func (s securityCLI) Delete(key string) error {
	_, stderr, err := s.run("delete-generic-password", key)
	if err != nil && !strings.Contains(stderr, itemNotFound) {
		return fmt.Errorf("delete %q from keychain: %s: %w", key, stderr, err)
	}
	return nil
}
