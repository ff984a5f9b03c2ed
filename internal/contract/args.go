package contract

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pkordes/medtransport/internal/domain"
)

// args is a positional argument list. Values arrive either as Go values
// (tests, in-process callers) or as the output of encoding/json, where every
// number is a float64 or json.Number.
type args []any

func argErr(i int, want string, got any) error {
	return fmt.Errorf("%w: argument %d: want %s, got %T", domain.ErrInvalid, i, want, got)
}

func (a args) int64(i int) (int64, error) {
	switch v := a[i].(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, argErr(i, "integer in range", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || v < -(1<<63) || v >= 1<<63 {
			return 0, argErr(i, "integer", v)
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, argErr(i, "integer", v)
		}
		return n, nil
	}
	return 0, argErr(i, "integer", a[i])
}

// id is a record identifier; ids are positive.
func (a args) id(i int) (int64, error) {
	n, err := a.int64(i)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: argument %d: id must be positive", domain.ErrInvalid, i)
	}
	return n, nil
}

// height is a block height or block count.
func (a args) height(i int) (uint64, error) {
	if v, ok := a[i].(uint64); ok {
		return v, nil
	}
	n, err := a.int64(i)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: argument %d: block height must not be negative", domain.ErrInvalid, i)
	}
	return uint64(n), nil
}

func (a args) int(i int) (int, error) {
	n, err := a.int64(i)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, argErr(i, "small integer", a[i])
	}
	return int(n), nil
}

func (a args) string(i int) (string, error) {
	s, ok := a[i].(string)
	if !ok {
		return "", argErr(i, "string", a[i])
	}
	return s, nil
}

func (a args) bool(i int) (bool, error) {
	b, ok := a[i].(bool)
	if !ok {
		return false, argErr(i, "bool", a[i])
	}
	return b, nil
}

// ids accepts []int64, []int or a []any of integers. The result is never nil.
func (a args) ids(i int) ([]int64, error) {
	switch v := a[i].(type) {
	case []int64:
		return append([]int64{}, v...), nil
	case []int:
		out := make([]int64, len(v))
		for j, n := range v {
			out[j] = int64(n)
		}
		return out, nil
	case []any:
		out := make([]int64, len(v))
		for j := range v {
			n, err := args(v).int64(j)
			if err != nil {
				return nil, fmt.Errorf("%w: argument %d: element %d is not an integer", domain.ErrInvalid, i, j)
			}
			out[j] = n
		}
		return out, nil
	}
	return nil, argErr(i, "list of integers", a[i])
}

// strings reads consecutive string arguments starting at from.
func (a args) strings(from, n int) ([]string, error) {
	out := make([]string, n)
	for j := range n {
		s, err := a.string(from + j)
		if err != nil {
			return nil, err
		}
		out[j] = s
	}
	return out, nil
}
