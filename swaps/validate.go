package swaps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/tokens"
)

const (
	callbackMemoKey = "ibc_callback"

	maxTwapWindowSeconds = 3600
)

var maxSlippagePercentage = big.NewRat(50, 1)

func onlyOneCoin(funds tokens.Coins) (tokens.Coin, error) {
	if len(funds) != 1 {
		return tokens.Coin{}, fmt.Errorf("%w: exactly one coin is required, have %d", ErrInvalidFunds, len(funds))
	}
	coin := funds[0]
	if coin.Denom == "" || !coin.IsPositive() {
		return tokens.Coin{}, fmt.Errorf("%w: '%v'", ErrInvalidFunds, coin)
	}
	return coin.Clone(), nil
}

func validateReceiver(receiver string) error {
	if err := common.ValidateBech32Address(receiver, ""); err != nil {
		return fmt.Errorf("%w: receiver '%v' %v", ErrInvalidAddress, receiver, err)
	}
	return nil
}

func validateSlippage(slippage *tokens.Slippage) error {
	hasMin := slippage.MinOutputAmount != ""
	hasTwap := slippage.Twap != nil
	if hasMin == hasTwap {
		return fmt.Errorf("%w: exactly one of min_output_amount and twap is required", ErrInvalidSlippage)
	}
	if hasMin {
		amount, ok := new(big.Int).SetString(slippage.MinOutputAmount, 10)
		if !ok || amount.Sign() <= 0 {
			return fmt.Errorf("%w: min_output_amount '%v'", ErrInvalidSlippage, slippage.MinOutputAmount)
		}
		return nil
	}
	percentage, ok := new(big.Rat).SetString(slippage.Twap.SlippagePercentage)
	if !ok || percentage.Sign() <= 0 || percentage.Cmp(maxSlippagePercentage) > 0 {
		return fmt.Errorf("%w: slippage_percentage '%v'", ErrInvalidSlippage, slippage.Twap.SlippagePercentage)
	}
	if slippage.Twap.WindowSeconds > maxTwapWindowSeconds {
		return fmt.Errorf("%w: window_seconds %d exceeds %d", ErrInvalidSlippage, slippage.Twap.WindowSeconds, maxTwapWindowSeconds)
	}
	return nil
}

func isEmptyMemo(memo json.RawMessage) bool {
	trimmed := bytes.TrimSpace(memo)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// parseNextMemo returns nil for an empty memo
func parseNextMemo(memo json.RawMessage) (map[string]json.RawMessage, error) {
	if isEmptyMemo(memo) {
		return nil, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(memo, &obj); err != nil {
		return nil, fmt.Errorf("%w: next memo must be a json object", ErrInvalidMemo)
	}
	if _, exist := obj[callbackMemoKey]; exist {
		return nil, fmt.Errorf("%w: next memo must not contain '%v'", ErrInvalidMemo, callbackMemoKey)
	}
	return obj, nil
}

func (c *Contract) validatePolicy(policy *FailedDeliveryPolicy) error {
	if policy.LocalRecoveryAddr != "" {
		if err := c.validateLocalAddress(policy.LocalRecoveryAddr); err != nil {
			return fmt.Errorf("%w: local_recovery_addr %v", ErrInvalidPolicy, err)
		}
	}
	if policy.AlternateReceiver != "" {
		if err := validateReceiver(policy.AlternateReceiver); err != nil {
			return fmt.Errorf("%w: alternate_receiver %v", ErrInvalidPolicy, err)
		}
	}
	return nil
}

func (c *Contract) validateSwapAndForward(msg *SwapAndForwardMsg) error {
	if msg.OutputDenom == "" {
		return fmt.Errorf("%w: empty output denom", ErrInvalidMsg)
	}
	if err := validateReceiver(msg.Receiver); err != nil {
		return err
	}
	if err := validateSlippage(&msg.Slippage); err != nil {
		return err
	}
	if _, err := parseNextMemo(msg.NextMemo); err != nil {
		return err
	}
	return c.validatePolicy(&msg.OnFailedDelivery)
}
