package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/ppiankov/gonogo/internal/input"
	"github.com/ppiankov/gonogo/internal/model"
	"github.com/ppiankov/gonogo/internal/pipeline"
	"github.com/ppiankov/gonogo/internal/render"
)

// AssessmentHandler handles rubric, assessment and report endpoints
type AssessmentHandler struct {
	pipeline *pipeline.Pipeline
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(p *pipeline.Pipeline) *AssessmentHandler {
	return &AssessmentHandler{pipeline: p}
}

// AssessmentResponse is the body of POST /v1/assessments
type AssessmentResponse struct {
	ID     string        `json:"id"`
	Report *model.Report `json:"report"`
}

// Rubric handles GET /v1/rubric
func (h *AssessmentHandler) Rubric(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pipeline.Rubric())
}

// Assess handles POST /v1/assessments
func (h *AssessmentHandler) Assess(w http.ResponseWriter, r *http.Request) {
	report, ok := h.assess(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, AssessmentResponse{
		ID:     uuid.NewString(),
		Report: report,
	})
}

// Report handles POST /v1/reports?format=pdf|html|md
func (h *AssessmentHandler) Report(w http.ResponseWriter, r *http.Request) {
	format := h.pipeline.Format()
	if raw := r.URL.Query().Get("format"); raw != "" {
		f, err := render.ParseFormat(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		format = f
	}

	report, ok := h.assess(w, r)
	if !ok {
		return
	}

	data, err := h.pipeline.Render(report, format)
	if err != nil {
		log.Printf("render %s: %v", format, err)
		writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	filename := pipeline.ReportFilename(report.Metadata.ProposalTitle, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Report-ID", uuid.NewString())
	w.Header().Set("X-Verdict", string(report.Result.Verdict))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// assess decodes and scores the request body, writing the error response itself on failure
func (h *AssessmentHandler) assess(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	var rec input.Record
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return nil, false
	}

	report, err := h.pipeline.Assess(rec)
	if err != nil {
		if errors.Is(err, input.ErrInvalidInput) {
			writeValidationError(w, err)
			return nil, false
		}
		log.Printf("assess: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return report, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// fieldError is one entry of a validation error response
type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// writeValidationError lists every offending field so a form can mark them all at once
func writeValidationError(w http.ResponseWriter, err error) {
	var fields []fieldError
	for _, e := range flatten(err) {
		var ve *input.ValidationError
		if errors.As(e, &ve) {
			fields = append(fields, fieldError{Field: ve.Field, Reason: ve.Reason})
		}
	}

	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "invalid input",
		"fields": fields,
	})
}

// flatten unpacks errors.Join trees into their leaves
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
