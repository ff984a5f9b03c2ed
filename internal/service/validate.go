// Package service contains the business rules of the registries: required
// fields, the 0..5 rating range, the block-height comparisons and the trip
// state machine. Services depend on repo interfaces, never on SQL.
package service

import (
	"fmt"
	"strings"

	"github.com/pkordes/medtransport/internal/domain"
)

// requireFields rejects whitespace-only values. Pairs are (field name, value).
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalid, pairs[i])
		}
	}
	return nil
}

// requireHeights rejects block heights the stores cannot hold.
// names[i] labels heights[i].
func requireHeights(names []string, heights ...uint64) error {
	for i, h := range heights {
		if h > domain.MaxBlockHeight {
			return fmt.Errorf("%w: %s must be at most %d, got %d", domain.ErrInvalid, names[i], domain.MaxBlockHeight, h)
		}
	}
	return nil
}
