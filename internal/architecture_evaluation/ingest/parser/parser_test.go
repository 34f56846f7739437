package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

const shop = `
name: Shop Checkout
components:
  - id: lb
    type: load-balancer
    subtype: l7
  - id: api
    name: Checkout API
    type: api_service
    subtype: rest
    heuristics:
      latency: 7
      availability: 8
  - id: db
    type: DATABASE
    subtype: relational
links:
  - from: lb
    to: api
    type: route
  - from: api
    to: db
    type: query
    heuristics:
      latency: 4
  - from: api
    to: ghost
    type: sync_call
`

func TestToArchitecture(t *testing.T) {
	y, err := ParseYAMLString(shop)
	require.NoError(t, err)

	a, err := y.ToArchitecture()
	require.NoError(t, err)

	assert.Equal(t, "shop-checkout", a.ID)
	require.Len(t, a.Components, 3)
	assert.Equal(t, domain.ComponentLoadBalancer, a.Components[0].Type)
	assert.Equal(t, domain.SubtypeL7, a.Components[0].Subtype)
	assert.Equal(t, "lb", a.Components[0].Name, "name falls back to id")
	assert.NotEmpty(t, a.Components[0].Heuristics, "defaults seeded")
	assert.Equal(t, domain.HeuristicProfile{domain.ParamLatency: 7, domain.ParamAvailability: 8}, a.Components[1].Heuristics)

	require.Len(t, a.Links, 3)
	assert.Same(t, a.Components[1], a.Links[1].Source)
	assert.Same(t, a.Components[2], a.Links[1].Target)
	assert.Equal(t, 4.0, a.Links[1].Heuristics[domain.ParamLatency])
	assert.Nil(t, a.Links[2].Target, "unknown endpoints stay unresolved")
	assert.Equal(t, "ghost", a.Links[2].TargetRef())
}

func TestToArchitecture_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"missing name":  {"components: []", domain.ErrArchitectureNameNeeded},
		"bad type":      {"name: x\ncomponents:\n  - id: a\n    type: mainframe\n", domain.ErrInvalidComponentType},
		"bad subtype":   {"name: x\ncomponents:\n  - id: a\n    type: cache\n    subtype: kafka\n", domain.ErrInvalidSubtype},
		"bad link":      {"name: x\ncomponents:\n  - id: a\n    type: cache\nlinks:\n  - from: a\n    to: a\n    type: teleport\n", domain.ErrInvalidLinkType},
		"bad heuristic": {"name: x\ncomponents:\n  - id: a\n    type: cache\n    heuristics:\n      latency: 11\n", domain.ErrInvalidProfile},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			y, err := ParseYAMLString(tc.doc)
			require.NoError(t, err)
			_, err = y.ToArchitecture()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	y, err := ParseYAMLString("name: x\ncomponents:\n  - id: a\n    type: cache\n  - id: a\n    type: queue\n")
	require.NoError(t, err)
	_, err = y.ToArchitecture()
	assert.ErrorContains(t, err, "duplicate")
}

func TestParseJSONBytes(t *testing.T) {
	y, err := ParseJSONBytes([]byte(`{"name":"j","components":[{"id":"c","type":"cache","subtype":"redis"}]}`))
	require.NoError(t, err)
	a, err := y.ToArchitecture()
	require.NoError(t, err)
	assert.Equal(t, domain.SubtypeRedis, a.Components[0].Subtype)
}

func TestParseJSONBytes_UnknownField(t *testing.T) {
	_, err := ParseJSONBytes([]byte(`{"name":"j","components":[{"id":"c","type":"cache","heuristic":{"latency":3}}]}`))
	assert.ErrorContains(t, err, "heuristic")
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "arch.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name":"from json","components":[{"id":"q","type":"queue"}]}`), 0o600))
	yamlPath := filepath.Join(dir, "arch.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(shop), 0o600))

	y, err := ParseFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "from json", y.Name)

	y, err = ParseFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "Shop Checkout", y.Name)

	_, err = ParseFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
