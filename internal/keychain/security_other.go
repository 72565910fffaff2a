// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import "errors"

var errNoSecurityCommand = errors.New("security command only available on macOS")

// securityCLI is never usable off macOS; NewManager falls back to keyring.
type securityCLI struct{}

func newSecurityCLI() (*securityCLI, error) { return nil, errNoSecurityCommand }

func (securityCLI) Set(string, string) error   { return errNoSecurityCommand }
func (securityCLI) Get(string) (string, error) { return "", errNoSecurityCommand }
func (securityCLI) Delete(string) error        { return errNoSecurityCommand }
