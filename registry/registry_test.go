package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anyswap/CrossChain-Swaps/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routesV1 = `
[[Routes]]
Denom = "uatom"
ReceiverPrefix = "cosmos"
[[Routes.Hops]]
Port = "transfer"
Channel = "channel-0"

[[Routes]]
Denom = "ujuno"
UnwrapsTo = "ibc/juno"
[[Routes.Hops]]
Port = "transfer"
Channel = "channel-0"
[[Routes.Hops]]
Port = "transfer"
Channel = "channel-42"
Receiver = "cosmos1hub"
`

const routesV2 = `
[[Routes]]
Denom = "uatom"
[[Routes.Hops]]
Port = "transfer"
Channel = "channel-9"
`

func writeRoutes(t *testing.T, file, content string) {
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
}

func TestFileRegistry(t *testing.T) {
	file := filepath.Join(t.TempDir(), "routes.toml")
	writeRoutes(t, file, routesV1)

	r, err := NewFileRegistry(file)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"uatom", "ujuno"}, r.Denoms())

	route, err := r.ResolveRoute("UATOM")
	require.NoError(t, err)
	assert.Equal(t, "cosmos", route.ReceiverPrefix)
	assert.Equal(t, []tokens.Hop{{Port: "transfer", Channel: "channel-0"}}, route.Hops)

	route, err = r.ResolveRoute("ujuno")
	require.NoError(t, err)
	require.Len(t, route.Hops, 2)
	assert.Equal(t, "cosmos1hub", route.Hops[1].Receiver)
	assert.Equal(t, "ibc/juno", route.UnwrapsTo)

	// returned routes are copies
	route.Hops[0].Channel = "changed"
	route, err = r.ResolveRoute("ujuno")
	require.NoError(t, err)
	assert.Equal(t, "channel-0", route.Hops[0].Channel)

	_, err = r.ResolveRoute("uosmo")
	assert.True(t, errors.Is(err, tokens.ErrRouteNotFound))
}

func TestLoadRoutesErrors(t *testing.T) {
	dir := t.TempDir()
	cases := []string{
		"[[Routes]]\nDenom = \"uatom\"\n",
		"[[Routes]]\n[[Routes.Hops]]\nPort = \"transfer\"\nChannel = \"channel-0\"\n",
		"[[Routes]]\nDenom = \"uatom\"\n[[Routes.Hops]]\nPort = \"transfer\"\n",
		routesV2 + routesV2,
		"[[Routes]]\nDenom = \"uatom\"\nUnwrapsTo = \"ibc/atom\"\n[[Routes.Hops]]\nPort = \"transfer\"\nChannel = \"channel-0\"\n",
		"not toml",
	}
	for i, content := range cases {
		file := filepath.Join(dir, "routes.toml")
		writeRoutes(t, file, content)
		_, err := LoadRoutes(file)
		assert.Error(t, err, "case %d", i)
	}
}

func TestReloadKeepsRoutesOnError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "routes.toml")
	writeRoutes(t, file, routesV1)
	r, err := NewFileRegistry(file)
	require.NoError(t, err)

	writeRoutes(t, file, "not toml")
	assert.Error(t, r.Reload())
	_, err = r.ResolveRoute("ujuno")
	assert.NoError(t, err)
}

func TestWatchReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "routes.toml")
	writeRoutes(t, file, routesV1)
	r, err := NewFileRegistry(file)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.Watch(ctx))

	writeRoutes(t, file, routesV2)
	assert.Eventually(t, func() bool {
		route, err := r.ResolveRoute("uatom")
		return err == nil && route.Hops[0].Channel == "channel-9"
	}, 5*time.Second, 20*time.Millisecond)

	_, err = r.ResolveRoute("ujuno")
	assert.True(t, errors.Is(err, tokens.ErrRouteNotFound))
}
