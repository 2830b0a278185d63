package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloseSkipsAbsentMembers(t *testing.T) {
	// Partially wired containers (NATS or Redis down at boot) must
	// still shut down cleanly.
	assert.NoError(t, (&Container{}).Close())
}
