package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledPublisherDropsEvents(t *testing.T) {
	p, err := Connect("")
	require.NoError(t, err)

	// with messaging disabled these must be safe no-ops
	p.Publish("users", "created", "abc")
	p.Close()
}

func TestNilPublisherIsSafe(t *testing.T) {
	var p *Publisher
	assert.NotPanics(t, func() {
		p.Publish("users", "created", "abc")
		p.Close()
	})
}
