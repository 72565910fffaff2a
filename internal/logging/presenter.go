// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"

	apperrors "modgraph/cli/internal/errors"

	"github.com/pterm/pterm"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// LogFailure records a failed operation with its error kind and a masked message.
func LogFailure(logger *pterm.Logger, op string, err error) {
	if logger == nil || err == nil {
		return
	}
	kind := string(apperrors.KindOf(err))
	if kind == "" {
		kind = "unknown"
	}
	logger.Warn("operation failed", logger.Args("op", op, "kind", kind, "error", Mask(err.Error())))
}
