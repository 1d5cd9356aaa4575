// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cvss

import (
	"fmt"
	"math"
)

const (
	exploitabilityCoefficient = 8.22
	scopeCoefficient          = 1.08
	maxScore                  = 10.0
)

// Result is the outcome of evaluating a complete selection.
type Result struct {
	BaseScore float64  `json:"baseScore"`
	Severity  Severity `json:"severity"`
	Vector    string   `json:"vector"`
}

// Label renders the result the way it is stored on a finding, e.g. "8.8 (High)".
func (r Result) Label() string {
	return fmt.Sprintf("%.1f (%s)", r.BaseScore, r.Severity)
}

// Breakdown holds the base score together with its two sub-scores. The
// sub-scores are rounded up to one decimal; a non-positive impact is reported
// as 0.
type Breakdown struct {
	BaseScore           float64 `json:"baseScore"`
	ExploitabilityScore float64 `json:"exploitabilityScore"`
	ImpactScore         float64 `json:"impactScore"`
}

// Evaluate computes the base score, severity and vector of sel.
func Evaluate(sel Selection) (Result, error) {
	score, err := ComputeBaseScore(sel)
	if err != nil {
		return Result{}, err
	}
	severity, err := ClassifySeverity(score)
	if err != nil {
		return Result{}, err
	}
	return Result{
		BaseScore: score,
		Severity:  severity,
		Vector:    BuildVector(sel),
	}, nil
}

// ComputeBaseScore returns the CVSS v3.1 base score of sel, rounded up to one
// decimal. An incomplete or malformed selection is an error wrapping
// ErrInvalidMetricSelection; it is never scored as 0.
func ComputeBaseScore(sel Selection) (float64, error) {
	raw, _, _, err := rawScores(sel)
	if err != nil {
		return 0, err
	}
	return roundUp(raw), nil
}

// SubScores returns the base score of sel together with its exploitability
// and impact sub-scores.
func SubScores(sel Selection) (Breakdown, error) {
	raw, exploitability, impact, err := rawScores(sel)
	if err != nil {
		return Breakdown{}, err
	}
	return Breakdown{
		BaseScore:           roundUp(raw),
		ExploitabilityScore: roundUp(exploitability),
		ImpactScore:         roundUp(math.Max(impact, 0)),
	}, nil
}

// rawScores returns the unrounded base score and sub-scores.
func rawScores(sel Selection) (base, exploitability, impact float64, err error) {
	if err := sel.Validate(); err != nil {
		return 0, 0, 0, err
	}

	w := make(map[Group]float64, len(metrics))
	for _, m := range metrics {
		v, ok := weightOf(sel, m.Group)
		if !ok {
			return 0, 0, 0, fmt.Errorf("%w: no weight for %s:%s", ErrInvalidMetricSelection, m.Group, sel[m.Group])
		}
		w[m.Group] = v
	}

	exploitability = exploitabilityCoefficient * w[AttackVector] * w[AttackComplexity] * w[PrivilegesRequired] * w[UserInteraction]
	iss := 1 - ((1 - w[Confidentiality]) * (1 - w[Integrity]) * (1 - w[Availability]))

	changed := sel[Scope] == ScopeChanged
	if changed {
		impact = w[Scope]*(iss-0.029) - 3.25*math.Pow(iss-0.02, 15)
	} else {
		impact = w[Scope] * iss
	}

	if impact <= 0 {
		return 0, exploitability, impact, nil
	}
	if changed {
		return math.Min(scopeCoefficient*(impact+exploitability), maxScore), exploitability, impact, nil
	}
	return math.Min(impact+exploitability, maxScore), exploitability, impact, nil
}

// roundUp returns the smallest number with one decimal that is equal to or
// higher than x, per CVSS v3.1 Appendix A. Working in integers keeps float
// noise such as 4.000000000000001 from rounding up to 4.1.
func roundUp(x float64) float64 {
	i := int64(math.Round(x * 100000))
	if i%10000 == 0 {
		return float64(i) / 100000.0
	}
	return (math.Floor(float64(i)/10000) + 1) / 10.0
}
