package params

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/log"
)

const (
	defaultAPIPort          = 11656
	defaultTransferTimeout  = 7 * 24 * 3600 // seconds
	defaultRPCTimeout       = 60            // seconds
	defaultDispatchInterval = 3             // seconds
	defaultPollInterval     = 30            // seconds
	defaultLevelDBCache     = 16            // MiB
	defaultLevelDBHandles   = 16
)

var (
	locDataDir        string
	swapsConfig       *SwapsConfig
	loadConfigStarter sync.Once
)

// SwapsConfig config items (decode from toml file)
type SwapsConfig struct {
	Identifier string
	Contract   *ContractConfig
	Server     *ServerConfig
	Services   *ServicesConfig
	Registry   *RegistryConfig
	Email      *EmailConfig `toml:",omitempty" json:",omitempty"`
	Extra      *ExtraConfig `toml:",omitempty" json:",omitempty"`
}

// ContractConfig contract instance config.
// SwapContract, Governor and RegistryContract are only used to
// instantiate the contract on the first start.
type ContractConfig struct {
	Address          string
	Bech32Prefix     string
	SwapContract     string
	Governor         string
	RegistryContract string
	TransferTimeout  uint64 `toml:",omitempty" json:",omitempty"` // seconds
}

// ServerConfig swaps server config
type ServerConfig struct {
	LevelDB   *LevelDBConfig
	MongoDB   *MongoDBConfig   `toml:",omitempty" json:",omitempty"`
	APIServer *APIServerConfig `toml:",omitempty" json:",omitempty"`
	Relayers  []string         `toml:",omitempty" json:"-"` // keys allowed to call mutating apis
}

// LevelDBConfig state database config
type LevelDBConfig struct {
	Path    string
	Cache   int `toml:",omitempty" json:",omitempty"` // MiB
	Handles int `toml:",omitempty" json:",omitempty"`
}

// APIServerConfig api service config
type APIServerConfig struct {
	Port             int
	AllowedOrigins   []string
	MaxRequestsLimit int
}

// MongoDBConfig mongodb config
type MongoDBConfig struct {
	DBURL    string   `toml:",omitempty" json:",omitempty"`
	DBURLs   []string `toml:",omitempty" json:",omitempty"`
	DBName   string
	UserName string `json:"-"`
	Password string `json:"-"`
}

// ServicesConfig collaborator service endpoints
type ServicesConfig struct {
	SwapService string
	Transport   string
	Bank        string

	RPCTimeout       uint64 `toml:",omitempty" json:",omitempty"` // seconds
	DispatchInterval uint64 `toml:",omitempty" json:",omitempty"` // seconds
	PollInterval     uint64 `toml:",omitempty" json:",omitempty"` // seconds
	DisablePoll      bool   `toml:",omitempty" json:",omitempty"`
}

// RegistryConfig denom registry config, either a local route file or a remote service
type RegistryConfig struct {
	RouteFile  string `toml:",omitempty" json:",omitempty"`
	ServiceURL string `toml:",omitempty" json:",omitempty"`
}

// EmailConfig alert email config
type EmailConfig struct {
	Server   string
	Port     int
	From     string
	FromName string
	Password string `json:"-"`
	To       []string
	Cc       []string `toml:",omitempty" json:",omitempty"`
	Interval uint64   `toml:",omitempty" json:",omitempty"` // minimum seconds between two emails
}

// ExtraConfig extra config
type ExtraConfig struct {
	IsDebugMode bool `toml:",omitempty" json:",omitempty"`
}

// GetConfig get swaps config
func GetConfig() *SwapsConfig {
	return swapsConfig
}

// SetConfig set swaps config
func SetConfig(config *SwapsConfig) {
	swapsConfig = config
}

// GetIdentifier get identifier
func GetIdentifier() string {
	return GetConfig().Identifier
}

// GetContractConfig get contract config
func GetContractConfig() *ContractConfig {
	return GetConfig().Contract
}

// GetServerConfig get server config
func GetServerConfig() *ServerConfig {
	return GetConfig().Server
}

// GetServicesConfig get services config
func GetServicesConfig() *ServicesConfig {
	return GetConfig().Services
}

// GetEmailConfig get email config
func GetEmailConfig() *EmailConfig {
	return GetConfig().Email
}

// GetExtraConfig get extra config
func GetExtraConfig() *ExtraConfig {
	return GetConfig().Extra
}

// IsDebugMode is debug mode, add more debugging log infos
func IsDebugMode() bool {
	return GetExtraConfig() != nil && GetExtraConfig().IsDebugMode
}

// GetAPIPort get api service port
func GetAPIPort() int {
	server := GetServerConfig()
	if server == nil || server.APIServer == nil || server.APIServer.Port == 0 {
		return defaultAPIPort
	}
	return server.APIServer.Port
}

// GetTransferTimeout lifetime of forwarded transfers
func (c *ContractConfig) GetTransferTimeout() time.Duration {
	timeout := c.TransferTimeout
	if timeout == 0 {
		timeout = defaultTransferTimeout
	}
	return time.Duration(timeout) * time.Second
}

// GetRPCTimeout timeout of a collaborator call
func (c *ServicesConfig) GetRPCTimeout() time.Duration {
	return secondsOrDefault(c.RPCTimeout, defaultRPCTimeout)
}

// GetDispatchInterval interval of retrying undispatched messages
func (c *ServicesConfig) GetDispatchInterval() time.Duration {
	return secondsOrDefault(c.DispatchInterval, defaultDispatchInterval)
}

// GetPollInterval interval of polling in-flight packet status
func (c *ServicesConfig) GetPollInterval() time.Duration {
	return secondsOrDefault(c.PollInterval, defaultPollInterval)
}

// GetCache leveldb cache size in MiB
func (c *LevelDBConfig) GetCache() int {
	if c.Cache <= 0 {
		return defaultLevelDBCache
	}
	return c.Cache
}

// GetHandles leveldb open file handles
func (c *LevelDBConfig) GetHandles() int {
	if c.Handles <= 0 {
		return defaultLevelDBHandles
	}
	return c.Handles
}

func secondsOrDefault(seconds, defSeconds uint64) time.Duration {
	if seconds == 0 {
		seconds = defSeconds
	}
	return time.Duration(seconds) * time.Second
}

// DecodeConfigFile decode toml config file
func DecodeConfigFile(configFile string) (*SwapsConfig, error) {
	config := &SwapsConfig{}
	if _, err := toml.DecodeFile(configFile, config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig load config
func LoadConfig(configFile string) *SwapsConfig {
	loadConfigStarter.Do(func() {
		if configFile == "" {
			log.Fatalf("LoadConfig error: no config file specified")
		}
		log.Println("Config file is", configFile)
		if !common.FileExist(configFile) {
			log.Fatalf("LoadConfig error: config file %v not exist", configFile)
		}
		config, err := DecodeConfigFile(configFile)
		if err != nil {
			log.Fatalf("LoadConfig error (toml DecodeFile): %v", err)
		}

		SetConfig(config)
		var bs []byte
		if log.JSONFormat {
			bs, _ = json.Marshal(config)
		} else {
			bs, _ = json.MarshalIndent(config, "", "  ")
		}
		log.Println("LoadConfig finished.", string(bs))
		if err := CheckConfig(); err != nil {
			log.Fatalf("Check config failed. %v", err)
		}
		log.Info("Check config success", "configFile", configFile)
	})
	return swapsConfig
}

// SetDataDir set data dir
func SetDataDir(dir string) {
	if dir == "" {
		return
	}
	currDir, err := common.ExecuteDir()
	if err != nil {
		log.Fatal("get current dir failed", "err", err)
	}
	locDataDir = common.AbsolutePath(currDir, dir)
	log.Info("set data dir success", "datadir", locDataDir)
}

// GetDataDir get data dir
func GetDataDir() string {
	return locDataDir
}
