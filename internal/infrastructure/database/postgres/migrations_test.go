package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationChainIsLinear(t *testing.T) {
	chain := Migrations()
	require.NotEmpty(t, chain)

	seen := make(map[string]bool, len(chain))
	var previous string
	for _, m := range chain {
		assert.NotEmpty(t, m.ID)
		assert.False(t, seen[m.ID], "duplicate migration id %s", m.ID)
		seen[m.ID] = true

		// the numeric prefix keeps the chain sortable
		assert.Greater(t, m.ID, previous, "migration %s out of order", m.ID)
		previous = m.ID
	}
}

func TestEveryMigrationIsReversible(t *testing.T) {
	for _, m := range Migrations() {
		assert.NotNil(t, m.Up, "migration %s has no up step", m.ID)
		assert.NotNil(t, m.Down, "migration %s has no down step", m.ID)
	}
}

func TestChainContainsKnownSteps(t *testing.T) {
	chain := Migrations()
	require.Len(t, chain, 3)
	assert.Equal(t, "0001_create_users", chain[0].ID)
	assert.Equal(t, "0002_create_customers", chain[1].ID)
	assert.Equal(t, "0003_audit_columns", chain[2].ID)
}
