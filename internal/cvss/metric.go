// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

// Package cvss implements the CVSS v3.1 base score calculator: weight tables,
// the base score formula, severity bands and vector strings.
//
// Everything in this package is pure. Functions take a complete Selection and
// return fresh values; nothing is cached between calls, so the package may be
// used from any number of goroutines without coordination.
package cvss

// Group identifies one of the eight CVSS v3.1 base metrics.
type Group string

const (
	AttackVector       Group = "AV"
	AttackComplexity   Group = "AC"
	PrivilegesRequired Group = "PR"
	UserInteraction    Group = "UI"
	Scope              Group = "S"
	Confidentiality    Group = "C"
	Integrity          Group = "I"
	Availability       Group = "A"
)

// Scope option values. PR weights depend on which one is selected.
const (
	ScopeUnchanged = "U"
	ScopeChanged   = "C"
)

// Option is a single selectable value of a metric group.
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Metric describes a metric group and its allowed options, in display order.
type Metric struct {
	Group   Group    `json:"group"`
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// Allows reports whether value is one of the metric's options.
func (m Metric) Allows(value string) bool {
	for _, o := range m.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Values returns the option letters in display order.
func (m Metric) Values() []string {
	vals := make([]string, len(m.Options))
	for i, o := range m.Options {
		vals[i] = o.Value
	}
	return vals
}

// metrics is ordered the way groups appear in a vector string.
var metrics = []Metric{
	{
		Group: AttackVector,
		Name:  "Attack Vector",
		Options: []Option{
			{"N", "Network", "Worst: the vulnerable component is bound to the network stack and the attacker's path is at the network layer. Often termed remotely exploitable."},
			{"A", "Adjacent", "Worse: the vulnerable component is bound to the network stack but the attack is limited to the data link layer, such as a local IP subnet, Bluetooth, IEEE 802.11 or a local Ethernet segment."},
			{"L", "Local", "Bad: the vulnerable component is not bound to the network stack and the attacker's path is via read, write or execute capabilities, either logged in locally or by relying on user interaction."},
			{"P", "Physical", "Bad: the attack requires the ability to physically touch or manipulate the vulnerable component. Physical interaction may be brief or persistent."},
		},
	},
	{
		Group: AttackComplexity,
		Name:  "Attack Complexity",
		Options: []Option{
			{"L", "Low", "Worst: specialized access conditions or extenuating circumstances do not exist. An attacker can expect repeatable success against the vulnerable component."},
			{"H", "High", "Bad: a successful attack depends on conditions beyond the attacker's control, such as target-specific reconnaissance or preparing the target environment to improve exploit reliability."},
		},
	},
	{
		Group: PrivilegesRequired,
		Name:  "Privileges Required",
		Options: []Option{
			{"N", "None", "Worst: the attacker is unprivileged or unauthenticated."},
			{"L", "Low", "Worse: the attacker is authenticated with privileges that provide basic, low-impact capabilities or access to non-sensitive resources only."},
			{"H", "High", "Bad: the attacker is authenticated with privileges that provide significant control over component resources."},
		},
	},
	{
		Group: UserInteraction,
		Name:  "User Interaction",
		Options: []Option{
			{"N", "None", "Worst: the vulnerable system can be exploited without any interaction from any user."},
			{"R", "Required", "Bad: successful exploitation requires a user to take one or more actions, possibly on content from a seemingly trustworthy source."},
		},
	},
	{
		Group: Scope,
		Name:  "Scope",
		Options: []Option{
			{"U", "Unchanged", "Bad: the attacker attacks and impacts the environment that authorizes actions taken by the vulnerable component. Impact is scored relative to the original authority."},
			{"C", "Changed", "Worst: the attacker attacks the vulnerable component and impacts resources beyond its authorization scope. Impact is scored relative to the changed scope."},
		},
	},
	{
		Group: Confidentiality,
		Name:  "Confidentiality",
		Options: []Option{
			{"N", "None", "Good: there is no impact to confidentiality within the affected scope."},
			{"L", "Low", "Bad: some restricted information is disclosed, but the attacker has no control over what is obtained or the loss is constrained."},
			{"H", "High", "Worst: total information disclosure, or disclosure of restricted information with a direct, serious impact such as administrator passwords or private keys."},
		},
	},
	{
		Group: Integrity,
		Name:  "Integrity",
		Options: []Option{
			{"N", "None", "Good: there is no impact to integrity within the affected scope."},
			{"L", "Low", "Bad: modification of data is possible, but the attacker has no control over the result or the scope of modification is constrained."},
			{"H", "High", "Worst: total compromise of system integrity. The attacker is able to modify any files on the target system."},
		},
	},
	{
		Group: Availability,
		Name:  "Availability",
		Options: []Option{
			{"N", "None", "Good: there is no impact to availability within the affected scope."},
			{"L", "Low", "Bad: reduced performance or interruptions in resource availability, without the ability to completely deny service."},
			{"H", "High", "Worst: total loss of availability, sustained or persistent, or a partial loss with a direct, serious impact on the affected scope."},
		},
	},
}

// Groups returns the metric groups in vector order.
func Groups() []Group {
	groups := make([]Group, len(metrics))
	for i, m := range metrics {
		groups[i] = m.Group
	}
	return groups
}

// Metrics returns a copy of the metric reference table in vector order.
func Metrics() []Metric {
	out := make([]Metric, len(metrics))
	for i, m := range metrics {
		out[i] = Metric{
			Group:   m.Group,
			Name:    m.Name,
			Options: append([]Option(nil), m.Options...),
		}
	}
	return out
}

// LookupGroup returns the reference entry for g.
func LookupGroup(g Group) (Metric, bool) {
	for _, m := range metrics {
		if m.Group == g {
			return Metric{Group: m.Group, Name: m.Name, Options: append([]Option(nil), m.Options...)}, true
		}
	}
	return Metric{}, false
}

func isGroup(g Group) bool {
	for _, m := range metrics {
		if m.Group == g {
			return true
		}
	}
	return false
}
