package params

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T, seed string) string {
	data := make([]byte, 20)
	copy(data, seed)
	addr, err := common.EncodeBech32Address("osmo", data)
	require.NoError(t, err)
	return addr
}

func writeConfig(t *testing.T, content string) string {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	return file
}

func validConfig(t *testing.T) string {
	return `
Identifier = "swaps-test"

[Contract]
Address = "` + testAddress(t, "self") + `"
Bech32Prefix = "osmo"
SwapContract = "` + testAddress(t, "swapper") + `"
Governor = "` + testAddress(t, "governor") + `"
RegistryContract = "` + testAddress(t, "registry") + `"
TransferTimeout = 600

[Server]
Relayers = ["key1", "key2"]

[Server.LevelDB]
Path = "/tmp/swaps"

[Server.APIServer]
Port = 12000
AllowedOrigins = ["*"]
MaxRequestsLimit = 10

[Services]
SwapService = "http://127.0.0.1:8001"
Transport = "http://127.0.0.1:8002"
Bank = "https://127.0.0.1:8003"
PollInterval = 5

[Registry]
RouteFile = "routes.toml"
`
}

func TestDecodeConfigFile(t *testing.T) {
	config, err := DecodeConfigFile(writeConfig(t, validConfig(t)))
	require.NoError(t, err)
	require.NoError(t, config.CheckConfig())

	assert.Equal(t, "swaps-test", config.Identifier)
	assert.Equal(t, 10*time.Minute, config.Contract.GetTransferTimeout())
	assert.Equal(t, []string{"key1", "key2"}, config.Server.Relayers)
	assert.Equal(t, 12000, config.Server.APIServer.Port)
	assert.Equal(t, "/tmp/swaps", config.Server.LevelDB.Path)
	assert.Equal(t, defaultLevelDBCache, config.Server.LevelDB.GetCache())
	assert.Equal(t, 5*time.Second, config.Services.GetPollInterval())
	assert.Equal(t, defaultRPCTimeout*time.Second, config.Services.GetRPCTimeout())
	assert.Equal(t, "routes.toml", config.Registry.RouteFile)
	assert.Nil(t, config.Email)

	SetConfig(config)
	assert.Equal(t, 12000, GetAPIPort())
	assert.False(t, IsDebugMode())
}

func TestCheckConfigErrors(t *testing.T) {
	config, err := DecodeConfigFile(writeConfig(t, validConfig(t)))
	require.NoError(t, err)

	config.Contract.Governor = "cosmos1invalid"
	assert.Error(t, config.CheckConfig())

	config, _ = DecodeConfigFile(writeConfig(t, validConfig(t)))
	config.Services.Bank = "ftp://bank"
	assert.Error(t, config.CheckConfig())

	config, _ = DecodeConfigFile(writeConfig(t, validConfig(t)))
	config.Registry.ServiceURL = "http://registry"
	assert.Error(t, config.CheckConfig())

	config, _ = DecodeConfigFile(writeConfig(t, validConfig(t)))
	config.Server.LevelDB = nil
	assert.Error(t, config.CheckConfig())

	config, _ = DecodeConfigFile(writeConfig(t, validConfig(t)))
	config.Email = &EmailConfig{Server: "smtp.example.com", Port: 587}
	assert.Error(t, config.CheckConfig())

	config, _ = DecodeConfigFile(writeConfig(t, validConfig(t)))
	config.Server.Relayers = nil
	assert.EqualError(t, config.CheckConfig(), "server must config non empty 'Server.Relayers'")

	config.Server.Relayers = []string{""}
	assert.Error(t, config.CheckConfig())
}

func TestVersionWithCommit(t *testing.T) {
	assert.Equal(t, "0.1.0", Version)
	assert.Equal(t, "0.1.0-unstable-01234567-20211201", VersionWithCommit("0123456789abcdef", "20211201"))
	assert.Equal(t, "0.1.0-unstable", VersionWithCommit("", ""))
}
