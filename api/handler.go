// Package api - HTTP handlers
// Handlers bind input, call the calculator and serialize the result.
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dira-price/core/determinism"
	"dira-price/core/output"
	"dira-price/internal/errors"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 16

// handleCalculate handles POST /api/v1/calculate
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Input("invalid JSON body: "+err.Error()))
		return
	}
	s.respondCalculation(w, r, &req)
}

// handleCalculateQuery handles GET /api/v1/calculate
func (s *Server) handleCalculateQuery(w http.ResponseWriter, r *http.Request) {
	req, err := queryRequest(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondCalculation(w, r, req)
}

func (s *Server) respondCalculation(w http.ResponseWriter, r *http.Request, req *CalculateRequest) {
	start := time.Now()

	in, err := req.Input(s.cfg.Defaults)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.calculate(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, &CalculateResponse{
		RequestID: RequestIDFrom(r.Context()),
		Result:    res,
		Summary:   s.style.SummaryRows(res),
		Metadata: &ResponseMetadata{
			InputHash:  determinism.InputHash(in).Hex(),
			Version:    s.version,
			DurationMs: time.Since(start).Milliseconds(),
		},
	}, http.StatusOK)
}

// handleExport serves the dashboard summary as a download
func (s *Server) handleExport(format output.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := readForm(r.URL.Query(), s.cfg.Defaults).input()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		res, err := s.calculate(r.Context(), in)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		formatter, err := output.NewRegistry(output.Options{Style: s.style}).Get(format)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := formatter.Render(&buf, output.Single(res)); err != nil {
			s.logger.Error("export failed", zap.Error(err), zap.String("format", string(format)))
			s.writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", `attachment; filename="apartment_price_calculation.`+string(format)+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"name":        "dira-price",
		"api_version": "v1",
	}, http.StatusOK)
}
