package stations_test

import (
	"testing"

	"github.com/flightline/metar-cache-service/internal/stations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *stations.Registry {
	return stations.New(
		[]string{"KATL", "kpdk", " KFFC "},
		map[string][]string{"Atlanta": {"KATL", "kpdk", "KFFC"}},
	)
}

func TestIsValid(t *testing.T) {
	r := newTestRegistry()

	assert.True(t, r.IsValid("KATL"))
	assert.True(t, r.IsValid("katl"))
	assert.True(t, r.IsValid("kpdk"), "codes are normalized to uppercase at construction")
	assert.False(t, r.IsValid("KJFK"))
	assert.False(t, r.IsValid(""))
}

func TestResolveGroup(t *testing.T) {
	r := newTestRegistry()

	members, ok := r.ResolveGroup("ATLANTA")
	require.True(t, ok)
	assert.Equal(t, []string{"KATL", "KPDK", "KFFC"}, members, "member order preserved")

	_, ok = r.ResolveGroup("chicago")
	assert.False(t, ok)
}

func TestResolveGroupReturnsCopy(t *testing.T) {
	r := newTestRegistry()

	members, ok := r.ResolveGroup("atlanta")
	require.True(t, ok)
	members[0] = "MUTATED"

	again, ok := r.ResolveGroup("atlanta")
	require.True(t, ok)
	assert.Equal(t, "KATL", again[0])
}
