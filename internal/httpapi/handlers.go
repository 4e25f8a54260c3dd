package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reqsmith/reqsmith/pkg/manifest"
	"github.com/reqsmith/reqsmith/pkg/pypi"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Input   string `json:"input,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeParseError(w http.ResponseWriter, pe *manifest.ParseError) {
	writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Error: errorBody{
		Code:    "invalid_manifest",
		Message: pe.Reason,
		Line:    pe.Line,
		Input:   pe.Input,
	}})
}

// parseBody reads and parses the request body as a requirements manifest.
// A "lenient=true" query parameter switches to lenient parsing.
func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (*manifest.Manifest, bool) {
	body := http.MaxBytesReader(w, r.Body, s.MaxBodyBytes)

	parse := manifest.Parse
	if r.URL.Query().Get("lenient") == "true" {
		parse = manifest.ParseLenient
	}

	m, err := parse(body)
	if err != nil {
		var pe *manifest.ParseError
		if errors.As(err, &pe) {
			writeParseError(w, pe)
			return nil, false
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "invalid_input", "manifest too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return nil, false
	}
	return m, true
}

type parseResponse struct {
	Requirements []*manifest.Requirement `json:"requirements"`
	Count        int                     `json:"count"`
	Skipped      int                     `json:"skipped,omitempty"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	m, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{
		Requirements: m.Requirements,
		Count:        len(m.Requirements),
		Skipped:      m.Skipped,
	})
}

type checkResult struct {
	Name       string `json:"name"`
	Constraint string `json:"constraint,omitempty"`
	Latest     string `json:"latest,omitempty"`
	Satisfied  *bool  `json:"satisfied,omitempty"`
	Error      string `json:"error,omitempty"`
}

type checkResponse struct {
	Results []checkResult `json:"results"`
	OK      bool          `json:"ok"`
}

// handleCheck parses the manifest and reports, per requirement, whether
// the registry's latest release satisfies its constraint. Registry
// failures degrade to per-requirement errors rather than failing the
// whole request.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	m, ok := s.parseBody(w, r)
	if !ok {
		return
	}

	resp := checkResponse{OK: true, Results: make([]checkResult, 0, len(m.Requirements))}
	for _, req := range m.Requirements {
		res := checkResult{Name: req.Name, Constraint: req.Constraint()}

		latest, err := s.registry.LatestVersion(r.Context(), req.Name, false)
		if err != nil {
			res.Error = err.Error()
			resp.OK = false
			resp.Results = append(resp.Results, res)
			continue
		}
		res.Latest = latest.String()

		sat := req.Satisfied(latest)
		res.Satisfied = &sat
		if !sat {
			resp.OK = false
		}
		resp.Results = append(resp.Results, res)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePackage(w http.ResponseWriter, r *http.Request) {
	name := manifest.NormalizeName(chi.URLParam(r, "name"))
	refresh := r.URL.Query().Get("refresh") == "true"

	pkg, err := s.registry.FetchPackage(r.Context(), name, refresh)
	if err != nil {
		switch {
		case errors.Is(err, pypi.ErrNotFound):
			writeError(w, http.StatusNotFound, "package_not_found", name+" not found")
		case errors.Is(err, pypi.ErrNetwork):
			writeError(w, http.StatusBadGateway, "network", "registry unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}
