package api

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	"esmlex/internal/core/errors"
)

//go:embed openapi.yaml
var specYAML []byte

// LoadSpec parses and validates the embedded API contract.
func LoadSpec() (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(specYAML)
	if err != nil {
		return nil, fmt.Errorf("load embedded openapi spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate embedded openapi spec: %w", err)
	}
	return doc, nil
}

// SpecYAML returns the raw contract served at /openapi.yaml.
func SpecYAML() []byte {
	return specYAML
}

type requestValidator struct {
	router routers.Router
}

func newRequestValidator(doc *openapi3.T) (*requestValidator, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	return &requestValidator{router: router}, nil
}

// wrap rejects requests that do not match the contract before they reach next.
func (v *requestValidator) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			status := http.StatusNotFound
			if err.Error() == routers.ErrMethodNotAllowed.Error() {
				status = http.StatusMethodNotAllowed
			}
			writeJSON(w, status, errorEnvelope{Error: ErrorBody{Code: string(errors.CodeNotFound), Message: err.Error()}})
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			writeError(w, errors.Wrap(err, errors.CodeValidationError, "request does not match contract"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
