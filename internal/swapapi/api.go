// Package swapapi implements the api service of the swaps server.
package swapapi

import (
	"github.com/anyswap/CrossChain-Swaps/log"
	"github.com/anyswap/CrossChain-Swaps/mongodb"
	"github.com/anyswap/CrossChain-Swaps/params"
	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/tokens"
	"github.com/anyswap/CrossChain-Swaps/worker"
	mapset "github.com/deckarep/golang-set"
)

var (
	host     *worker.Host
	relayers mapset.Set
)

// Init init api service with the host of the contract.
// Mutating calls must carry one of relayerKeys, without keys they are all refused.
func Init(h *worker.Host, relayerKeys []string) {
	host = h
	relayers = mapset.NewThreadUnsafeSet()
	for _, key := range relayerKeys {
		if key != "" {
			relayers.Add(key)
		}
	}
	log.Info("[api] init swap api", "relayers", relayers.Cardinality())
}

// CheckRelayer check relayer key of a mutating call
func CheckRelayer(key string) error {
	if relayers == nil || relayers.Cardinality() == 0 {
		return errNoRelayers
	}
	if key == "" || !relayers.Contains(key) {
		return errRelayerNotAllowed
	}
	return nil
}

func getHost() (*worker.Host, error) {
	if host == nil {
		return nil, errNotReady
	}
	return host, nil
}

func convertInvocation(resp *swaps.Response, err error) (*ResponseInfo, error) {
	if err != nil {
		return nil, convertError(err)
	}
	return ConvertResponse(resp), nil
}

// GetVersionInfo api
func GetVersionInfo() *VersionInfo {
	log.Debug("[api] receive GetVersionInfo")
	return &VersionInfo{Version: params.VersionWithMeta}
}

// GetServerInfo api
func GetServerInfo() (*ServerInfo, error) {
	log.Debug("[api] receive GetServerInfo")
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	cfg, err := h.QueryConfig()
	if err != nil {
		return nil, convertError(err)
	}
	settings := h.Contract().Settings()
	return &ServerInfo{
		Identifier:      params.GetIdentifier(),
		ContractAddress: settings.ContractAddress,
		Bech32Prefix:    settings.Bech32Prefix,
		Config:          cfg,
		HasHistory:      mongodb.HasClient(),
		Version:         params.VersionWithMeta,
	}, nil
}

// GetConfig api
func GetConfig() (*swaps.Config, error) {
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	cfg, err := h.QueryConfig()
	return cfg, convertError(err)
}

// GetStats api
func GetStats() (*Stats, error) {
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	stats, err := h.GetStats()
	return stats, convertError(err)
}

// GetOperation api
func GetOperation(operationID uint64) (*OperationInfo, error) {
	log.Debug("[api] receive GetOperation", "operationID", operationID)
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	op, err := h.QueryOperation(operationID)
	if err != nil {
		return nil, convertError(err)
	}
	return ConvertOperation(op), nil
}

// GetRecoverable api
func GetRecoverable(address string) ([]swaps.RecoveryEntry, error) {
	log.Debug("[api] receive GetRecoverable", "address", address)
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	entries, err := h.QueryRecoverable(address)
	if err != nil {
		return nil, convertError(err)
	}
	if entries == nil {
		entries = []swaps.RecoveryEntry{}
	}
	return entries, nil
}

// GetOperationHistory api
func GetOperationHistory(operationID uint64) ([]*OperationEvent, error) {
	if !mongodb.HasClient() {
		return nil, errNoHistory
	}
	return mongodb.FindOperationEvents(operationID)
}

// GetSenderHistory api
func GetSenderHistory(sender string, offset, limit int) ([]*OperationEvent, error) {
	if !mongodb.HasClient() {
		return nil, errNoHistory
	}
	return mongodb.FindSenderEvents(sender, offset, limit)
}

// ListInflight api
func ListInflight() ([]*InflightInfo, error) {
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	inflights, err := h.ListInflight()
	if err != nil {
		return nil, convertError(err)
	}
	return ConvertInflights(inflights), nil
}

// ListOutbox api
func ListOutbox(failed bool) ([]*OutboxInfo, error) {
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	var entries []*worker.OutboxEntry
	if failed {
		entries, err = h.ListFailedOutbox()
	} else {
		entries, err = h.ListOutbox()
	}
	if err != nil {
		return nil, convertError(err)
	}
	return ConvertOutboxEntries(entries), nil
}

// SwapAndForward api
func SwapAndForward(sender string, funds tokens.Coins, msg *swaps.SwapAndForwardMsg) (*ResponseInfo, error) {
	log.Info("[api] receive SwapAndForward", "sender", sender, "funds", funds, "outputDenom", msg.OutputDenom, "receiver", msg.Receiver)
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	return convertInvocation(h.ExecuteSwapAndForward(sender, funds, msg))
}

// Recover api
func Recover(sender string) (*ResponseInfo, error) {
	log.Info("[api] receive Recover", "sender", sender)
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	return convertInvocation(h.ExecuteRecover(sender))
}

// TransferOwnership api
func TransferOwnership(sender, newGovernor string) (*ResponseInfo, error) {
	log.Info("[api] receive TransferOwnership", "sender", sender, "newGovernor", newGovernor)
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	return convertInvocation(h.ExecuteTransferOwnership(sender, newGovernor))
}

// SetSwapContract api
func SetSwapContract(sender, newContract string) (*ResponseInfo, error) {
	log.Info("[api] receive SetSwapContract", "sender", sender, "newContract", newContract)
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	return convertInvocation(h.ExecuteSetSwapContract(sender, newContract))
}

// ForceRecover api
func ForceRecover(sender, channel string, sequence uint64) (*ResponseInfo, error) {
	log.Info("[api] receive ForceRecover", "sender", sender, "channel", channel, "sequence", sequence)
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	return convertInvocation(h.ExecuteForceRecover(sender, channel, sequence))
}

// Reply api
func Reply(reply *swaps.Reply) (*ResponseInfo, error) {
	if reply == nil {
		return nil, errEmptyArgs
	}
	log.Info("[api] receive Reply", "id", reply.ID, "token", reply.Token, "ok", reply.Result.IsOk())
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	return convertInvocation(h.Reply(reply))
}

// Sudo api
func Sudo(msg *swaps.SudoMsg) (*ResponseInfo, error) {
	if msg == nil {
		return nil, errEmptyArgs
	}
	log.Info("[api] receive Sudo")
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	return convertInvocation(h.Sudo(msg))
}

// DeliveryAck api
func DeliveryAck(channel string, sequence uint64, ack string, success bool) (*ResponseInfo, error) {
	log.Info("[api] receive DeliveryAck", "channel", channel, "sequence", sequence, "success", success)
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	return convertInvocation(h.DeliveryAck(channel, sequence, ack, success))
}

// DeliveryTimeout api
func DeliveryTimeout(channel string, sequence uint64) (*ResponseInfo, error) {
	log.Info("[api] receive DeliveryTimeout", "channel", channel, "sequence", sequence)
	h, err := getHost()
	if err != nil {
		return nil, err
	}
	return convertInvocation(h.DeliveryTimeout(channel, sequence))
}
