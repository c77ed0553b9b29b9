package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"esmlex/internal/core/errors"
	"esmlex/internal/engine/lexer"
	"esmlex/internal/engine/parser"
	"esmlex/internal/shared/util"
	"esmlex/internal/shared/version"
)

// statusClientClosedRequest is the nginx convention for a request the client abandoned.
const statusClientClosedRequest = 499

type ErrorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Path        string   `json:"path,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

type multipleRequest struct {
	Files []lexer.WireInput `json:"files"`
}

type multipleResponse struct {
	Results map[string]lexer.WireOutput `json:"results"`
	Errors  map[string]ErrorBody        `json:"errors,omitempty"`
}

type healthResponse struct {
	Status        string   `json:"status"`
	Version       string   `json:"version"`
	Extensions    []string `json:"extensions"`
	HeapAllocMB   uint64   `json:"heapAllocMB"`
	LeasedParsers int      `json:"leasedParsers"`
	OldestLeaseMS int64    `json:"oldestLeaseMs"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var in lexer.WireInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errors.Wrap(err, errors.CodeValidationError, "invalid JSON body"))
		return
	}

	res, err := s.lexer.Parse(r.Context(), []byte(in.SourceText), in.FilePath)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lexer.ToWire(res))
}

func (s *Server) handleParseMultiple(w http.ResponseWriter, r *http.Request) {
	var req multipleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(err, errors.CodeValidationError, "invalid JSON body"))
		return
	}
	if s.maxBatch > 0 && len(req.Files) > s.maxBatch {
		writeError(w, errors.New(errors.CodeValidationError, "too many files in batch"))
		return
	}

	inputs := make([]lexer.Input, 0, len(req.Files))
	for _, f := range req.Files {
		inputs = append(inputs, lexer.Input{Source: []byte(f.SourceText), Path: f.FilePath})
	}

	resp := multipleResponse{Results: make(map[string]lexer.WireOutput, len(inputs))}
	if r.URL.Query().Get("mode") == "strict" {
		results, err := s.lexer.ParseMultipleStrict(r.Context(), inputs)
		if err != nil {
			writeError(w, err)
			return
		}
		for path, res := range results {
			resp.Results[path] = lexer.ToWire(res)
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	for path, outcome := range s.lexer.ParseMultiple(r.Context(), inputs) {
		if outcome.Err != nil {
			if resp.Errors == nil {
				resp.Errors = make(map[string]ErrorBody)
			}
			resp.Errors[path] = errorBodyOf(outcome.Err)
			continue
		}
		resp.Results[path] = lexer.ToWire(outcome.Result)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	leased, oldest := s.lexer.Parser().Leases(time.Now())
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       version.Version,
		Extensions:    s.lexer.Parser().SupportedExtensions(),
		HeapAllocMB:   util.GetHeapAllocMB(),
		LeasedParsers: leased,
		OldestLeaseMS: oldest.Milliseconds(),
	})
}

func (s *Server) handleSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(SpecYAML())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorEnvelope{Error: errorBodyOf(err)})
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.CodeOf(err) {
	case errors.CodeSyntax:
		return http.StatusUnprocessableEntity
	case errors.CodeValidationError, errors.CodeNotSupported:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	}
	if stderrors.Is(err, context.Canceled) {
		return statusClientClosedRequest
	}
	return http.StatusInternalServerError
}

func errorBodyOf(err error) ErrorBody {
	body := ErrorBody{Code: string(errors.CodeOf(err)), Message: err.Error()}

	var de *errors.DomainError
	if stderrors.As(err, &de) {
		body.Message = de.Message
		if de.Err != nil {
			body.Message += ": " + de.Err.Error()
		}
		if path, ok := de.Context[errors.CtxPath].(string); ok {
			body.Path = path
		}
	}

	var batchErr *lexer.BatchError
	if stderrors.As(err, &batchErr) {
		return body
	}
	var synErr *parser.SyntaxError
	if stderrors.As(err, &synErr) {
		body.Message = "syntax error"
		body.Path = synErr.Path
		body.Diagnostics = synErr.Messages()
	}
	return body
}
