package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/luckyturtle/nftape.me/internal/analysis"
	"github.com/luckyturtle/nftape.me/internal/domain"
	"github.com/luckyturtle/nftape.me/internal/reporting"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "nftape",
	})
}

// handleAnalysis handles GET /v1/addresses/{address}/analysis?method=
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	report, ok := s.analyze(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, reporting.Build(report))
}

// handleAnalysisMarkdown handles GET /v1/addresses/{address}/analysis.md?method=
func (s *Server) handleAnalysisMarkdown(w http.ResponseWriter, r *http.Request) {
	report, ok := s.analyze(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(reporting.RenderMarkdown(reporting.Build(report))))
}

// analyze runs the analysis for the request and writes the error response on failure.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*analysis.Report, bool) {
	address := strings.TrimSpace(mux.Vars(r)["address"])

	method := s.analyzer.Method()
	if raw := r.URL.Query().Get("method"); raw != "" {
		m, err := domain.ParsePriceMethod(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
			return nil, false
		}
		method = m
	}

	report, err := s.analyzer.AnalyzeWithMethod(r.Context(), address, method)
	if err != nil {
		status, code := mapError(err)
		if status >= http.StatusInternalServerError {
			s.log.WithError(err).WithField("address", address).Error("analysis failed")
		}
		respondError(w, status, code, err.Error())
		return nil, false
	}
	return report, true
}
