package params

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/anyswap/CrossChain-Swaps/common"
)

// CheckConfig check config
func CheckConfig() (err error) {
	config := GetConfig()
	if config == nil {
		return errors.New("no config")
	}
	return config.CheckConfig()
}

// CheckConfig check all config items
func (c *SwapsConfig) CheckConfig() (err error) {
	if c.Identifier == "" {
		return errors.New("server must config non empty 'Identifier'")
	}
	if c.Contract == nil {
		return errors.New("server must config 'Contract'")
	}
	if err = c.Contract.CheckConfig(); err != nil {
		return err
	}
	if c.Server == nil {
		return errors.New("server must config 'Server'")
	}
	if err = c.Server.CheckConfig(); err != nil {
		return err
	}
	if c.Services == nil {
		return errors.New("server must config 'Services'")
	}
	if err = c.Services.CheckConfig(); err != nil {
		return err
	}
	if c.Registry == nil {
		return errors.New("server must config 'Registry'")
	}
	if err = c.Registry.CheckConfig(); err != nil {
		return err
	}
	if c.Email != nil {
		if err = c.Email.CheckConfig(); err != nil {
			return err
		}
	}
	return nil
}

// CheckConfig check contract config
func (c *ContractConfig) CheckConfig() error {
	if c.Bech32Prefix == "" {
		return errors.New("contract must config 'Bech32Prefix'")
	}
	addrs := []struct{ name, value string }{
		{"Address", c.Address},
		{"SwapContract", c.SwapContract},
		{"Governor", c.Governor},
		{"RegistryContract", c.RegistryContract},
	}
	for _, addr := range addrs {
		if err := common.ValidateBech32Address(addr.value, c.Bech32Prefix); err != nil {
			return fmt.Errorf("contract config wrong '%v': %w", addr.name, err)
		}
	}
	return nil
}

// CheckConfig check swaps server config
func (c *ServerConfig) CheckConfig() error {
	if c.LevelDB == nil || c.LevelDB.Path == "" {
		return errors.New("server must config 'Server.LevelDB.Path'")
	}
	if c.MongoDB != nil && c.MongoDB.DBName == "" {
		return errors.New("server must config 'Server.MongoDB.DBName'")
	}
	hasRelayer := false
	for _, key := range c.Relayers {
		if key != "" {
			hasRelayer = true
			break
		}
	}
	if !hasRelayer {
		return errors.New("server must config non empty 'Server.Relayers'")
	}
	if c.APIServer != nil && c.APIServer.MaxRequestsLimit < 0 {
		return errors.New("server 'APIServer.MaxRequestsLimit' must not be negative")
	}
	return nil
}

// CheckConfig check services config
func (c *ServicesConfig) CheckConfig() error {
	services := []struct{ name, value string }{
		{"SwapService", c.SwapService},
		{"Transport", c.Transport},
		{"Bank", c.Bank},
	}
	for _, service := range services {
		if err := checkURL(service.value); err != nil {
			return fmt.Errorf("services config wrong '%v': %w", service.name, err)
		}
	}
	return nil
}

// CheckConfig check registry config
func (c *RegistryConfig) CheckConfig() error {
	switch {
	case c.RouteFile != "" && c.ServiceURL != "":
		return errors.New("registry must config only one of 'RouteFile' and 'ServiceURL'")
	case c.RouteFile != "":
		return nil
	case c.ServiceURL != "":
		return checkURL(c.ServiceURL)
	default:
		return errors.New("registry must config 'RouteFile' or 'ServiceURL'")
	}
}

// CheckConfig check email config
func (c *EmailConfig) CheckConfig() error {
	if c.Server == "" || c.Port == 0 {
		return errors.New("email must config 'Server' and 'Port'")
	}
	if c.From == "" {
		return errors.New("email must config 'From'")
	}
	if len(c.To) == 0 {
		return errors.New("email must config 'To'")
	}
	return nil
}

func checkURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme '%v'", u.Scheme)
	}
	return nil
}
