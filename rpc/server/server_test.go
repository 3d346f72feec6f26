package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/internal/swapapi"
	"github.com/anyswap/CrossChain-Swaps/leveldb"
	"github.com/anyswap/CrossChain-Swaps/params"
	"github.com/anyswap/CrossChain-Swaps/rpc/rpcapi"
	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/tokens"
	"github.com/anyswap/CrossChain-Swaps/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRelayerKey = "relayer-secret"

type noRoutes struct{}

func (noRoutes) ResolveRoute(string) (*tokens.Route, error) {
	return nil, tokens.ErrRouteNotFound
}

func testAddress(t *testing.T, seed string) string {
	data := make([]byte, 20)
	copy(data, seed)
	addr, err := common.EncodeBech32Address("osmo", data)
	require.NoError(t, err)
	return addr
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func callRPC(t *testing.T, handler http.Handler, key, method string, params interface{}) *rpcResponse {
	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "swaps." + method,
		"params":  []interface{}{params},
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(rpcapi.RelayerKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return &resp
}

func setupHost(t *testing.T, relayerKeys []string) (governor string) {
	db, err := leveldb.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	governor = testAddress(t, "governor")
	contract := swaps.NewContract(swaps.Settings{
		ContractAddress: testAddress(t, "self"),
		Bech32Prefix:    "osmo",
	}, noRoutes{})
	h := worker.NewHost(db, contract, worker.Collaborators{})
	_, err = h.Instantiate(governor, &swaps.InstantiateMsg{
		SwapContract:     testAddress(t, "swapper"),
		Governor:         governor,
		RegistryContract: testAddress(t, "registry"),
	})
	require.NoError(t, err)

	swapapi.Init(h, relayerKeys)
	t.Cleanup(func() { swapapi.Init(nil, nil) })
	return governor
}

func TestRPCService(t *testing.T) {
	governor := setupHost(t, []string{testRelayerKey})
	router := initRouter()

	resp := callRPC(t, router, "", "GetVersionInfo", struct{}{})
	require.Nil(t, resp.Error)
	var version string
	require.NoError(t, json.Unmarshal(resp.Result, &version))
	assert.Equal(t, params.VersionWithMeta, version)

	resp = callRPC(t, router, "", "GetConfig", struct{}{})
	require.Nil(t, resp.Error)
	var cfg swaps.Config
	require.NoError(t, json.Unmarshal(resp.Result, &cfg))
	assert.Equal(t, governor, cfg.Governor)

	resp = callRPC(t, router, "", "GetOperation", 100)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32021, resp.Error.Code)

	resp = callRPC(t, router, "", "Recover", map[string]string{"sender": governor})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32097, resp.Error.Code)

	resp = callRPC(t, router, testRelayerKey, "Recover", map[string]string{"sender": governor})
	require.Nil(t, resp.Error)
	var info swapapi.ResponseInfo
	require.NoError(t, json.Unmarshal(resp.Result, &info))
	assert.Equal(t, "nothing to recover", info.Attributes["msg"])
	assert.JSONEq(t, "[]", string(info.Data))

	resp = callRPC(t, router, testRelayerKey, "TransferOwnership", map[string]string{
		"sender":       testAddress(t, "stranger"),
		"new_governor": testAddress(t, "stranger"),
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32010, resp.Error.Code)

	resp = callRPC(t, router, testRelayerKey, "DeliveryTimeout", map[string]interface{}{"channel": "channel-1", "sequence": 7})
	require.Nil(t, resp.Error)
	require.NoError(t, json.Unmarshal(resp.Result, &info))
	assert.Equal(t, "received unexpected timeout", info.Attributes["msg"])
}

func TestMutatingCallsRefusedWithoutRelayers(t *testing.T) {
	governor := setupHost(t, nil)
	router := initRouter()
	attacker := testAddress(t, "attacker")

	for _, key := range []string{"", "guess"} {
		resp := callRPC(t, router, key, "TransferOwnership", map[string]string{
			"sender":       governor,
			"new_governor": attacker,
		})
		require.NotNil(t, resp.Error)
		assert.Equal(t, -32095, resp.Error.Code)

		resp = callRPC(t, router, key, "Recover", map[string]string{"sender": governor})
		require.NotNil(t, resp.Error)
		assert.Equal(t, -32095, resp.Error.Code)
	}

	resp := callRPC(t, router, "", "GetConfig", struct{}{})
	require.Nil(t, resp.Error)
	var cfg swaps.Config
	require.NoError(t, json.Unmarshal(resp.Result, &cfg))
	assert.Equal(t, governor, cfg.Governor)
}

func TestRESTService(t *testing.T) {
	setupHost(t, []string{testRelayerKey})
	router := initRouter()

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/versioninfo")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), params.VersionWithMeta)

	rec = get("/recoverable/" + testAddress(t, "nobody"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = get("/stats")
	assert.Equal(t, http.StatusOK, rec.Code)
	var stats swapapi.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, swapapi.Stats{}, stats)

	rec = get("/operation/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get("/operation/1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stats", nil))
	assert.Contains(t, rec.Body.String(), "Forbid 'POST'")
}
