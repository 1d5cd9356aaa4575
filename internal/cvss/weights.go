// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cvss

// Numeric weights from the CVSS v3.1 specification, section 7.4.
var weights = map[Group]map[string]float64{
	AttackVector:     {"N": 0.85, "A": 0.62, "L": 0.55, "P": 0.2},
	AttackComplexity: {"L": 0.77, "H": 0.44},
	UserInteraction:  {"N": 0.85, "R": 0.62},
	Scope:            {ScopeUnchanged: 6.42, ScopeChanged: 7.52},
	Confidentiality:  {"N": 0, "L": 0.22, "H": 0.56},
	Integrity:        {"N": 0, "L": 0.22, "H": 0.56},
	Availability:     {"N": 0, "L": 0.22, "H": 0.56},
}

// privilegesWeights is keyed by the Scope option first.
var privilegesWeights = map[string]map[string]float64{
	ScopeUnchanged: {"N": 0.85, "L": 0.62, "H": 0.27},
	ScopeChanged:   {"N": 0.85, "L": 0.68, "H": 0.5},
}

// weightOf looks up the weight of g's selected option. For PR the Scope
// selection picks the sub-table.
func weightOf(sel Selection, g Group) (float64, bool) {
	v, ok := sel[g]
	if !ok {
		return 0, false
	}
	table := weights[g]
	if g == PrivilegesRequired {
		table, ok = privilegesWeights[sel[Scope]]
		if !ok {
			return 0, false
		}
	}
	w, ok := table[v]
	return w, ok
}
