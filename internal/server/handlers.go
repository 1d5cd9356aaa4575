// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/bonial-oss/cvss-calc/internal/cvss"
	"github.com/bonial-oss/cvss-calc/internal/enricher"
	"github.com/bonial-oss/cvss-calc/internal/types"
)

const maxRequestBytes = 1 << 20

type evaluateRequest struct {
	Metrics map[string]string `json:"metrics,omitempty"`
	Vector  string            `json:"vector,omitempty"`
}

type evaluateResponse struct {
	BaseScore           float64       `json:"baseScore"`
	Severity            cvss.Severity `json:"severity"`
	Vector              string        `json:"vector"`
	ExploitabilityScore float64       `json:"exploitabilityScore"`
	ImpactScore         float64       `json:"impactScore"`
	Label               string        `json:"label"`
}

type vectorRequest struct {
	Metrics map[string]string `json:"metrics"`
}

type vectorResponse struct {
	Vector   string `json:"vector"`
	Complete bool   `json:"complete"`
	Error    string `json:"error,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Vector string `json:"vector,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.reject(w, reasonBadRequest, errorResponse{Error: err.Error()})
		return
	}
	switch {
	case req.Vector != "" && len(req.Metrics) > 0:
		s.reject(w, reasonBadRequest, errorResponse{Error: "give either metrics or vector, not both"})
		return
	case req.Vector == "" && len(req.Metrics) == 0:
		s.reject(w, reasonBadRequest, errorResponse{Error: "metrics or vector is required"})
		return
	}

	sel, err := enricher.SelectionOf(&types.Vulnerability{Vector: req.Vector, Metrics: req.Metrics})
	if err != nil {
		if errors.Is(err, cvss.ErrInvalidVector) {
			s.reject(w, reasonVector, errorResponse{Error: err.Error()})
			return
		}
		s.reject(w, reasonSelection, errorResponse{Error: err.Error(), Vector: cvss.BuildVector(sel)})
		return
	}

	resp, err := evaluate(sel)
	if err != nil {
		s.reject(w, reasonSelection, errorResponse{Error: err.Error(), Vector: cvss.BuildVector(sel)})
		return
	}
	Evaluations.WithLabelValues(resp.Severity.String()).Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVector(w http.ResponseWriter, r *http.Request) {
	var req vectorRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.log.Debugf("rejected vector request: %v", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	sel, err := cvss.SelectionFromMap(req.Metrics)
	if err == nil {
		err = sel.Validate()
	}
	resp := vectorResponse{Vector: cvss.BuildVector(sel), Complete: true}
	if err != nil {
		resp.Complete = false
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, cvss.Metrics())
}

func (s *Server) handleMetric(w http.ResponseWriter, r *http.Request) {
	group := cvss.Group(strings.ToUpper(mux.Vars(r)["group"]))
	m, ok := cvss.LookupGroup(group)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown metric group %q", group)})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleSeverities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, cvss.Bands())
}

func (s *Server) handleDefault(w http.ResponseWriter, _ *http.Request) {
	sel := cvss.DefaultSelection()
	resp, err := evaluate(sel)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Metrics cvss.Selection `json:"metrics"`
		evaluateResponse
	}{sel, resp})
}

func evaluate(sel cvss.Selection) (evaluateResponse, error) {
	res, err := cvss.Evaluate(sel)
	if err != nil {
		return evaluateResponse{}, err
	}
	sub, err := cvss.SubScores(sel)
	if err != nil {
		return evaluateResponse{}, err
	}
	return evaluateResponse{
		BaseScore:           res.BaseScore,
		Severity:            res.Severity,
		Vector:              res.Vector,
		ExploitabilityScore: sub.ExploitabilityScore,
		ImpactScore:         sub.ImpactScore,
		Label:               res.Label(),
	}, nil
}

func (s *Server) reject(w http.ResponseWriter, reason string, resp errorResponse) {
	EvaluationErrors.WithLabelValues(reason).Inc()
	s.log.WithField("reason", reason).Debugf("rejected request: %s", resp.Error)
	writeJSON(w, http.StatusBadRequest, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
