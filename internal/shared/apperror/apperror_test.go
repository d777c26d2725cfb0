package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{InvalidInput, http.StatusBadRequest},
		{InvalidSymbol, http.StatusBadRequest},
		{InvalidQuantity, http.StatusBadRequest},
		{InvalidAmount, http.StatusBadRequest},
		{InsufficientFunds, http.StatusBadRequest},
		{InsufficientShares, http.StatusBadRequest},
		{DuplicateUsername, http.StatusBadRequest},
		{InvalidCredentials, http.StatusForbidden},
		{QuoteUnavailable, http.StatusServiceUnavailable},
		{TooManyRequests, http.StatusTooManyRequests},
		{NotFound, http.StatusNotFound},
		{Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	sentinel := New(InsufficientFunds, "not enough cash")

	assert.Equal(t, InsufficientFunds, KindOf(sentinel))
	assert.Equal(t, InsufficientFunds, KindOf(fmt.Errorf("buy: %w", sentinel)))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.Equal(t, Internal, KindOf(nil))
}

func TestMessageOf(t *testing.T) {
	t.Parallel()

	sentinel := New(InvalidSymbol, "invalid symbol")

	assert.Equal(t, "invalid symbol", MessageOf(fmt.Errorf("lookup: %w", sentinel)))
	assert.Equal(t, "Internal Server Error", MessageOf(errors.New("pq: connection refused")))
}
