// Package swaps implements the swap-and-forward state machine.
//
// Every entry point runs against a store.KVStore supplied by the host and
// either returns a Response, whose messages the host dispatches after
// committing, or an error, in which case the host drops every write.
// The asynchronous steps are resumed by later invocations:
//	Reply
//		result of a dispatched swap or transfer, correlated by token.
//	Sudo
//		delivery outcome of a transfer, correlated by channel and sequence.
package swaps

import (
	"fmt"
	"time"

	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/store"
	"github.com/anyswap/CrossChain-Swaps/tokens"
)

// DefaultTransferTimeout lifetime of a forwarded transfer
const DefaultTransferTimeout = 7 * 24 * time.Hour

// Settings static settings of a contract instance
type Settings struct {
	// ContractAddress address of this contract, sender of outbound
	// transfers and target of lifecycle callbacks
	ContractAddress string
	// Bech32Prefix address prefix of the local chain
	Bech32Prefix    string
	TransferTimeout time.Duration
}

// Contract the swap-and-forward orchestrator
type Contract struct {
	settings Settings
	registry tokens.Registry
}

// NewContract new contract
func NewContract(settings Settings, registry tokens.Registry) *Contract {
	if settings.TransferTimeout <= 0 {
		settings.TransferTimeout = DefaultTransferTimeout
	}
	return &Contract{
		settings: settings,
		registry: registry,
	}
}

// Settings get settings
func (c *Contract) Settings() Settings {
	return c.settings
}

type invocation struct {
	st   store.KVStore
	env  Env
	resp *Response
}

func newInvocation(st store.KVStore, env Env) *invocation {
	return &invocation{
		st:   st,
		env:  env,
		resp: NewResponse(),
	}
}

func (c *Contract) validateLocalAddress(addr string) error {
	if err := common.ValidateBech32Address(addr, c.settings.Bech32Prefix); err != nil {
		return fmt.Errorf("%w: '%v' %v", ErrInvalidAddress, addr, err)
	}
	return nil
}

// Instantiate one-time setup of the configuration
func (c *Contract) Instantiate(st store.KVStore, env Env, info MessageInfo, msg *InstantiateMsg) (*Response, error) {
	if exist, err := st.Has(keyConfig); err != nil {
		return nil, err
	} else if exist {
		return nil, ErrAlreadyInitialized
	}
	for _, addr := range []string{msg.SwapContract, msg.Governor, msg.RegistryContract} {
		if err := c.validateLocalAddress(addr); err != nil {
			return nil, err
		}
	}
	cfg := &Config{
		SwapContract:     msg.SwapContract,
		Governor:         msg.Governor,
		RegistryContract: msg.RegistryContract,
	}
	if err := saveConfig(st, cfg); err != nil {
		return nil, err
	}
	return NewResponse().
		AddAttribute("method", "instantiate").
		AddAttribute("governor", cfg.Governor), nil
}

// Execute dispatch execute message
func (c *Contract) Execute(st store.KVStore, env Env, info MessageInfo, msg *ExecuteMsg) (*Response, error) {
	if msg == nil || msg.variants() != 1 {
		return nil, fmt.Errorf("%w: execute message must have exactly one variant", ErrInvalidMsg)
	}
	cfg, err := loadConfig(st)
	if err != nil {
		return nil, err
	}
	if msg.OsmosisSwap == nil && len(info.Funds) != 0 {
		return nil, fmt.Errorf("%w: no funds expected", ErrInvalidFunds)
	}
	inv := newInvocation(st, env)
	switch {
	case msg.OsmosisSwap != nil:
		err = c.swapAndForward(inv, cfg, info, msg.OsmosisSwap)
	case msg.Recover != nil:
		err = c.recover(inv, info.Sender)
	case msg.TransferOwnership != nil:
		err = c.transferOwnership(inv, cfg, info.Sender, msg.TransferOwnership.NewGovernor)
	case msg.SetSwapContract != nil:
		err = c.setSwapContract(inv, cfg, info.Sender, msg.SetSwapContract.NewContract)
	case msg.ForceRecover != nil:
		err = c.forceRecover(inv, cfg, info.Sender, msg.ForceRecover)
	}
	if err != nil {
		return nil, err
	}
	return inv.resp, nil
}

// Reply resume an operation with the result of a dispatched sub-message
func (c *Contract) Reply(st store.KVStore, env Env, reply *Reply) (*Response, error) {
	if reply == nil {
		return nil, fmt.Errorf("%w: nil reply", ErrInvalidMsg)
	}
	inv := newInvocation(st, env)
	var err error
	switch reply.ID {
	case ReplySwap:
		err = c.handleSwapReply(inv, reply)
	case ReplyForward:
		err = c.handleForwardReply(inv, reply)
	case ReplyRecover:
		err = c.handleRecoverReply(inv, reply)
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidReplyID, uint64(reply.ID))
	}
	if err != nil {
		return nil, err
	}
	return inv.resp, nil
}

// Sudo delivery lifecycle notification from the transport layer
func (c *Contract) Sudo(st store.KVStore, env Env, msg *SudoMsg) (*Response, error) {
	if msg == nil || msg.IBCLifecycleComplete == nil {
		return nil, fmt.Errorf("%w: empty sudo message", ErrInvalidMsg)
	}
	lc := msg.IBCLifecycleComplete
	switch {
	case lc.IBCAck != nil && lc.IBCTimeout == nil:
		return c.DeliveryAck(st, env, lc.IBCAck.Channel, lc.IBCAck.Sequence, lc.IBCAck.Ack, lc.IBCAck.Success)
	case lc.IBCTimeout != nil && lc.IBCAck == nil:
		return c.DeliveryTimeout(st, env, lc.IBCTimeout.Channel, lc.IBCTimeout.Sequence)
	default:
		return nil, fmt.Errorf("%w: lifecycle message must be either ack or timeout", ErrInvalidMsg)
	}
}

// QueryConfig query config
func (c *Contract) QueryConfig(st store.KVStore) (*Config, error) {
	return loadConfig(st)
}

// QueryRecoverable list recoverable balances of addr, empty list if none
func (c *Contract) QueryRecoverable(st store.KVStore, addr string) ([]RecoveryEntry, error) {
	return loadRecovery(st, addr)
}

// QueryOperation query operation by id
func (c *Contract) QueryOperation(st store.KVStore, id uint64) (*Operation, error) {
	op, err := loadOperation(st, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("%w: %d", ErrOperationNotFound, id)
	}
	return op, nil
}
