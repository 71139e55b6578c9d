package publisher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pricing_history/internal/domain"
)

func TestEventName(t *testing.T) {
	assert.Equal(t, "run.succeeded", eventName(domain.RunStatusSucceeded))
	assert.Equal(t, "run.failed", eventName(domain.RunStatusFailed))
}
