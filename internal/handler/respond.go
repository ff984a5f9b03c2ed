package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/medtransport/internal/domain"
)

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ListResponse is the body of every list endpoint.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func listResponse[T any](page domain.Page[T], p domain.PaginationParams) ListResponse[T] {
	data := page.Items
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{
		Data:       data,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: page.Total},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out; an encode failure can only be a broken client.
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads exactly one JSON value from the body into dst.
// Unknown fields are rejected so typos in field names surface as 422s.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("malformed request body: %w", err)
	}
	return nil
}

// pathID binds the {id} path parameter.
func pathID(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, fmt.Errorf("invalid format for parameter id: %w", err)
	}
	return id, nil
}

// pathString binds a string path parameter.
func pathString(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return v, nil
}

// pagination binds the optional ?page= and ?limit= query parameters.
func pagination(r *http.Request) (domain.PaginationParams, error) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("invalid format for parameter page: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	return domain.NewPaginationParams(page, limit), nil
}

// tripFilter binds the optional ?status= query parameter.
func tripFilter(r *http.Request) (domain.TripFilter, error) {
	var raw *string
	if err := runtime.BindQueryParameter("form", true, false, "status", r.URL.Query(), &raw); err != nil {
		return domain.TripFilter{}, fmt.Errorf("invalid format for parameter status: %w", err)
	}
	if raw == nil {
		return domain.TripFilter{}, nil
	}
	st, err := domain.ParseTripStatus(*raw)
	if err != nil {
		return domain.TripFilter{}, err
	}
	return domain.TripFilter{Status: &st}, nil
}
