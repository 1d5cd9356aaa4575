// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cvss

import "errors"

var (
	// ErrInvalidMetricSelection is returned when a metric group is missing or
	// holds an option that is not allowed for it.
	ErrInvalidMetricSelection = errors.New("invalid metric selection")

	// ErrScoreOutOfRange is returned when a score outside [0.0, 10.0] is
	// classified.
	ErrScoreOutOfRange = errors.New("score out of range")

	// ErrInvalidVector is returned when a vector string cannot be parsed.
	ErrInvalidVector = errors.New("invalid CVSS vector")
)
