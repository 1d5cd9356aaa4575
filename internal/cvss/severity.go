// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cvss

import (
	"fmt"
	"math"
	"strings"
)

// Severity is the qualitative rating of a base score. Values are ordered
// from least to most severe.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = [...]string{"None", "Low", "Medium", "High", "Critical"}

func (s Severity) String() string {
	if s < SeverityNone || s > SeverityCritical {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityNone || s > SeverityCritical {
		return nil, fmt.Errorf("unknown severity %d", int(s))
	}
	return []byte(severityNames[s]), nil
}

// UnmarshalText decodes a severity name, ignoring case.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity returns the severity with the given name, ignoring case.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Severity(i), nil
		}
	}
	return SeverityNone, fmt.Errorf("unknown severity %q, want one of %s", name, strings.Join(severityNames[:], ", "))
}

// Band is a severity rating and the inclusive score range it covers.
type Band struct {
	Severity Severity `json:"severity"`
	Lower    float64  `json:"lower"`
	Upper    float64  `json:"upper"`
}

// Contains reports whether score lies within the band's inclusive bounds.
func (b Band) Contains(score float64) bool {
	return score >= b.Lower && score <= b.Upper
}

// bands is the qualitative severity rating scale, ascending.
var bands = []Band{
	{SeverityNone, 0.0, 0.0},
	{SeverityLow, 0.1, 3.9},
	{SeverityMedium, 4.0, 6.9},
	{SeverityHigh, 7.0, 8.9},
	{SeverityCritical, 9.0, 10.0},
}

// Bands returns a copy of the rating scale in ascending order.
func Bands() []Band {
	return append([]Band(nil), bands...)
}

// ClassifySeverity returns the band containing score. Scores with extra
// precision fall into the highest band whose lower bound they reach, so 3.95
// is Low.
func ClassifySeverity(score float64) (Severity, error) {
	if math.IsNaN(score) || score < 0 || score > 10 {
		return SeverityNone, fmt.Errorf("%w: %v is outside [0.0, 10.0]", ErrScoreOutOfRange, score)
	}
	for i := len(bands) - 1; i > 0; i-- {
		if score >= bands[i].Lower {
			return bands[i].Severity, nil
		}
	}
	return SeverityNone, nil
}
