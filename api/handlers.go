package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"blind-configurator/core/measure"
	"blind-configurator/core/wizard"
)

// handleCatalog handles GET /v1/catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.engine.Catalog().Listing(), http.StatusOK)
}

// handlePricingTable handles GET /v1/pricing/table
func (s *Server) handlePricingTable(w http.ResponseWriter, r *http.Request) {
	calc := s.engine.Calculator()
	s.writeJSON(w, map[string]interface{}{
		"version": calc.Snapshot().Version,
		"table":   calc.Table(),
		"policy":  calc.Policy(),
	}, http.StatusOK)
}

// handleNormalize handles POST /v1/normalize
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req NormalizeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	width, height := s.engine.Normalize(req.Width, req.Height)
	s.writeJSON(w, NormalizeResponse{
		WidthMM:  width,
		HeightMM: height,
		Width:    measure.Split(width),
		Height:   measure.Split(height),
	}, http.StatusOK)
}

// handleQuote handles POST /v1/quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req ConfigurationRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	quote := s.engine.Quote(req.Configuration())
	if s.quotes != nil {
		s.quotes.Add(r.Context(), 1, metric.WithAttributes(attribute.Bool("ready", quote.Ready)))
	}
	s.writeJSON(w, quote, http.StatusOK)
}

// handleSteps handles POST /v1/steps
func (s *Server) handleSteps(w http.ResponseWriter, r *http.Request) {
	var req ConfigurationRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"steps": s.engine.Steps(req.Configuration()),
	}, http.StatusOK)
}

// handleValidateStep handles POST /v1/steps/{step}/validate. Unknown steps
// are reported as invalid rather than as errors.
func (s *Server) handleValidateStep(w http.ResponseWriter, r *http.Request) {
	var req ConfigurationRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	step := wizard.StepID(strings.TrimSpace(chi.URLParam(r, "step")))
	s.writeJSON(w, StepValidation{
		Step:  step,
		Valid: s.engine.Validator().IsStepValid(req.Configuration(), step),
	}, http.StatusOK)
}
