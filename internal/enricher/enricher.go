// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package enricher

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bonial-oss/cvss-calc/internal/cvss"
	"github.com/bonial-oss/cvss-calc/internal/log"
	"github.com/bonial-oss/cvss-calc/internal/types"
)

// Enricher scores the records of a vulnerability catalogue.
type Enricher struct {
	log   logrus.FieldLogger
	newID func() string
}

// Config holds filtering and policy options for enrichment.
type Config struct {
	// MinSeverity drops scored records below this severity. Records that
	// cannot be scored are always kept.
	MinSeverity *cvss.Severity
	// FailOn flags a policy violation when any scored record reaches it.
	FailOn *cvss.Severity
	// Strict turns any record that cannot be scored into an error.
	Strict bool
}

// Result holds the enriched catalogue and policy violation status.
type Result struct {
	Catalogue       *types.Catalogue
	PolicyViolation bool
	Invalid         int
}

// New creates an Enricher. A nil logger discards log output.
func New(logger logrus.FieldLogger) *Enricher {
	if logger == nil {
		logger = log.Discard()
	}
	return &Enricher{log: logger, newID: uuid.NewString}
}

// Enrich computes the CVSS base score of every record, applies filters and
// checks the fail-on policy. Records with missing or invalid metrics keep
// their partial vector and an error message instead of a score.
func (e *Enricher) Enrich(cat *types.Catalogue, cfg Config) (*Result, error) {
	if cat.SchemaVersion == 0 {
		cat.SchemaVersion = types.CurrentSchemaVersion
	}

	var problems []string
	for i := range cat.Vulnerabilities {
		vuln := &cat.Vulnerabilities[i]

		if vuln.ID == "" {
			vuln.ID = e.newID()
			e.log.WithField("name", vuln.Name).Debugf("assigned id %s to record without id", vuln.ID)
		}

		data, err := Score(vuln)
		vuln.CVSS = data
		if err != nil {
			e.log.WithFields(logrus.Fields{
				"id":     vuln.ID,
				"vector": data.Vector,
			}).Warnf("cannot score %q: %v", vuln.Name, err)
			problems = append(problems, fmt.Sprintf("%s (%s): %v", vuln.ID, vuln.Name, err))
			continue
		}
		e.log.WithFields(logrus.Fields{
			"id":     vuln.ID,
			"vector": data.Vector,
		}).Debugf("scored %s", data.Label)
	}

	if cfg.Strict && len(problems) > 0 {
		return nil, fmt.Errorf("%w: %d of %d records cannot be scored: %s",
			cvss.ErrInvalidMetricSelection, len(problems), len(cat.Vulnerabilities), strings.Join(problems, "; "))
	}

	if cfg.MinSeverity != nil {
		filtered := make([]types.Vulnerability, 0, len(cat.Vulnerabilities))
		for _, vuln := range cat.Vulnerabilities {
			if sev, ok := severityOf(&vuln); ok && sev < *cfg.MinSeverity {
				continue
			}
			filtered = append(filtered, vuln)
		}
		e.log.Debugf("min severity %s kept %d of %d records", *cfg.MinSeverity, len(filtered), len(cat.Vulnerabilities))
		cat.Vulnerabilities = filtered
	}

	policyViolation := false
	if cfg.FailOn != nil {
		for i := range cat.Vulnerabilities {
			if sev, ok := severityOf(&cat.Vulnerabilities[i]); ok && sev >= *cfg.FailOn {
				policyViolation = true
				break
			}
		}
	}

	cat.Summary = Summarize(cat.Vulnerabilities)
	return &Result{
		Catalogue:       cat,
		PolicyViolation: policyViolation,
		Invalid:         cat.Summary.Invalid,
	}, nil
}

// Score evaluates a single record. The returned data is never nil; on error
// it carries the record's (possibly partial) vector and the error text.
func Score(vuln *types.Vulnerability) (*types.CVSSData, error) {
	sel, err := SelectionOf(vuln)
	if err != nil {
		vector := vuln.Vector
		if vector == "" {
			vector = cvss.BuildVector(sel)
		}
		return &types.CVSSData{Vector: vector, Error: err.Error()}, err
	}

	res, err := cvss.Evaluate(sel)
	if err != nil {
		return &types.CVSSData{Vector: cvss.BuildVector(sel), Error: err.Error()}, err
	}
	sub, err := cvss.SubScores(sel)
	if err != nil {
		return &types.CVSSData{Vector: res.Vector, Error: err.Error()}, err
	}

	return &types.CVSSData{
		BaseScore:           &res.BaseScore,
		ExploitabilityScore: &sub.ExploitabilityScore,
		ImpactScore:         &sub.ImpactScore,
		Severity:            res.Severity.String(),
		Vector:              res.Vector,
		Label:               res.Label(),
	}, nil
}

// SelectionOf builds the metric selection of a record, preferring its vector
// over its metrics map. Metric keys and values are matched case-insensitively
// and keys that differ only in case are rejected.
// For records without a vector the returned selection is filled as far as
// possible even when an error is returned, so a partial vector can be shown.
func SelectionOf(vuln *types.Vulnerability) (cvss.Selection, error) {
	if vuln.Vector != "" {
		return cvss.ParseVector(vuln.Vector)
	}
	if len(vuln.Metrics) == 0 {
		return cvss.Selection{}, fmt.Errorf("%w: record has neither a vector nor metrics", cvss.ErrInvalidMetricSelection)
	}
	sel, err := cvss.SelectionFromMap(vuln.Metrics)
	if err != nil {
		return sel, err
	}
	return sel, sel.Validate()
}

// Summarize counts records per severity.
func Summarize(vulns []types.Vulnerability) *types.Summary {
	s := &types.Summary{
		Total:      len(vulns),
		BySeverity: make(map[string]int),
	}
	for _, b := range cvss.Bands() {
		s.BySeverity[b.Severity.String()] = 0
	}
	for i := range vulns {
		sev, ok := severityOf(&vulns[i])
		if !ok {
			s.Invalid++
			continue
		}
		s.Scored++
		s.BySeverity[sev.String()]++
	}
	return s
}

// severityOf returns the severity of a scored record.
func severityOf(vuln *types.Vulnerability) (cvss.Severity, bool) {
	if !vuln.CVSS.Scored() {
		return cvss.SeverityNone, false
	}
	sev, err := cvss.ParseSeverity(vuln.CVSS.Severity)
	if err != nil {
		return cvss.SeverityNone, false
	}
	return sev, true
}
