package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pkordes/medtransport/internal/contract"
)

// CallRequest is the body of POST /contracts/{contract}/{method}.
type CallRequest struct {
	Args []any `json:"args"`
}

// CallContract handles POST /contracts/{contract}/{method}.
// The body is always a contract.Result; the status reflects its code.
func (s *Server) CallContract(w http.ResponseWriter, r *http.Request) {
	name, err := pathString(r, "contract")
	if err != nil {
		writeParamError(w, err)
		return
	}
	method, err := pathString(r, "method")
	if err != nil {
		writeParamError(w, err)
		return
	}

	var body CallRequest
	if err := decodeCallRequest(r, &body); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	res := s.contracts.Call(r.Context(), name, method, body.Args...)
	writeJSON(w, resultStatus(res), res)
}

// decodeCallRequest keeps numbers as json.Number so large block heights
// survive. An empty body means no arguments.
func decodeCallRequest(r *http.Request, dst *CallRequest) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("malformed request body: %w", err)
	}
	return nil
}

func resultStatus(res contract.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Code {
	case contract.CodeNotFound:
		return http.StatusNotFound
	case contract.CodeInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
