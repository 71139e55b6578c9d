package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"pricing_history/internal/domain"
)

func TestRunStore_FinishRejectsNonTerminalStatus(t *testing.T) {
	store := NewRunStore(nil)

	err := store.Finish(context.Background(), "202403", "USD", domain.RunStatusRunning, 0)

	assert.ErrorContains(t, err, "non-terminal status")
}
