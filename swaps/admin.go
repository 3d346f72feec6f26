package swaps

func (c *Contract) transferOwnership(inv *invocation, cfg *Config, sender, newGovernor string) error {
	if sender != cfg.Governor {
		return ErrUnauthorized
	}
	if err := c.validateLocalAddress(newGovernor); err != nil {
		return err
	}
	previous := cfg.Governor
	cfg.Governor = newGovernor
	if err := saveConfig(inv.st, cfg); err != nil {
		return err
	}
	inv.resp.
		AddAttribute("method", "transfer_ownership").
		AddAttribute("previous_governor", previous).
		AddAttribute("new_governor", newGovernor)
	return nil
}

func (c *Contract) setSwapContract(inv *invocation, cfg *Config, sender, newContract string) error {
	if sender != cfg.Governor {
		return ErrUnauthorized
	}
	if err := c.validateLocalAddress(newContract); err != nil {
		return err
	}
	cfg.SwapContract = newContract
	if err := saveConfig(inv.st, cfg); err != nil {
		return err
	}
	inv.resp.
		AddAttribute("method", "set_swap_contract").
		AddAttribute("new_contract", newContract)
	return nil
}
