package handler

import (
	"fmt"
	"net/http"

	"github.com/pkordes/medtransport/internal/domain"
)

// BlockHeightBody is the body of GET and PUT /chain/height.
type BlockHeightBody struct {
	BlockHeight *uint64 `json:"blockHeight"`
}

// heightSetter is implemented by ledger.ManualClock.
type heightSetter interface {
	SetBlockHeight(height uint64)
}

// GetBlockHeight handles GET /chain/height.
func (s *Server) GetBlockHeight(w http.ResponseWriter, _ *http.Request) {
	h := s.clock.BlockHeight()
	writeJSON(w, http.StatusOK, BlockHeightBody{BlockHeight: &h})
}

// SetBlockHeight handles PUT /chain/height. Only a manual clock can be set;
// any other clock answers 409.
func (s *Server) SetBlockHeight(w http.ResponseWriter, r *http.Request) {
	setter, ok := s.clock.(heightSetter)
	if !ok {
		writeJSON(w, http.StatusConflict, errorBody(codeConflict, "block height is not settable with this clock"))
		return
	}
	var body BlockHeightBody
	if err := decodeJSON(r, &body); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	if body.BlockHeight == nil {
		writeRequestError(w, "blockHeight is required")
		return
	}
	if *body.BlockHeight > domain.MaxBlockHeight {
		writeRequestError(w, fmt.Sprintf("blockHeight must be at most %d", domain.MaxBlockHeight))
		return
	}
	setter.SetBlockHeight(*body.BlockHeight)
	s.log.InfoContext(r.Context(), "block height set", "block_height", *body.BlockHeight)

	h := s.clock.BlockHeight()
	writeJSON(w, http.StatusOK, BlockHeightBody{BlockHeight: &h})
}
