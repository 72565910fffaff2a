// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport and backend failures into short,
// user-facing descriptions. The console shows these inline next to the
// result table instead of interrupting the session.
package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	apperrors "modgraph/cli/internal/errors"
	"modgraph/cli/internal/logging"

	"github.com/pterm/pterm"
)

// APIError is a non-2xx answer from the query backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Category is the coarse class of a failure.
type Category string

const (
	CategoryTimeout    Category = "timeout"
	CategoryDNS        Category = "dns"
	CategoryRefused    Category = "refused"
	CategoryTLS        Category = "tls"
	CategoryServer     Category = "server"
	CategoryClient     Category = "client"
	CategoryDecode     Category = "decode"
	CategoryCanceled   Category = "canceled"
	CategoryNetwork    Category = "network"
	CategoryUnexpected Category = "unexpected"
)

// Classify determines the category of err.
func Classify(err error) Category {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 500 {
			return CategoryServer
		}
		return CategoryClient
	}
	if apperrors.Is(err, apperrors.Decode) {
		return CategoryDecode
	}
	if errors.Is(err, context.Canceled) {
		return CategoryCanceled
	}
	switch {
	case isTimeoutError(err):
		return CategoryTimeout
	case isDNSError(err):
		return CategoryDNS
	case isConnectionRefusedError(err):
		return CategoryRefused
	case isSSLError(err):
		return CategoryTLS
	}
	if apperrors.Is(err, apperrors.Transport) {
		return CategoryNetwork
	}
	return CategoryUnexpected
}

// Describe returns one masked line describing err for display.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	switch Classify(err) {
	case CategoryTimeout:
		return "The query service took too long to respond. Try again in a moment."
	case CategoryDNS:
		return "Cannot resolve the query service address. Check the configured base URL."
	case CategoryRefused:
		return "The query service refused the connection. Is it running?"
	case CategoryTLS:
		return "Secure connection to the query service failed."
	case CategoryServer:
		errors.As(err, &apiErr)
		return fmt.Sprintf("The query service failed (status %d). Previous results are kept.", apiErr.StatusCode)
	case CategoryClient:
		errors.As(err, &apiErr)
		if apiErr.Message != "" {
			return fmt.Sprintf("The query was rejected (status %d): %s", apiErr.StatusCode, logging.Mask(apiErr.Message))
		}
		return fmt.Sprintf("The query was rejected (status %d).", apiErr.StatusCode)
	case CategoryDecode:
		return "The query service sent a response in an unexpected format."
	case CategoryCanceled:
		return "The request was canceled."
	case CategoryNetwork:
		return "Cannot reach the query service: " + short(logging.Mask(rootCause(err).Error()))
	default:
		return short(logging.Mask(err.Error()))
	}
}

// Present prints the description of err as a single inline error line.
func Present(err error) {
	if err == nil {
		return
	}
	pterm.Error.Println(Describe(err))
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate")
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func short(s string) string {
	if len(s) > 160 {
		return s[:160] + "..."
	}
	return s
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
