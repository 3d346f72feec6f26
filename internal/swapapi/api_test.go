package swapapi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/tokens"
	rpcjson "github.com/gorilla/rpc/v2/json2"
	"github.com/stretchr/testify/assert"
)

func TestConvertError(t *testing.T) {
	assert.Nil(t, convertError(nil))

	err := convertError(fmt.Errorf("%w: sender is not governor", swaps.ErrUnauthorized))
	assert.Equal(t, rpcjson.ErrorCode(-32010), ErrorCode(err))
	assert.Contains(t, err.Error(), "sender is not governor")

	err = convertError(fmt.Errorf("%w: 7", swaps.ErrOperationNotFound))
	assert.Equal(t, rpcjson.ErrorCode(-32021), ErrorCode(err))

	err = convertError(errors.New("disk failure"))
	assert.Equal(t, rpcjson.ErrorCode(-32000), ErrorCode(err))

	assert.Equal(t, errNotReady, convertError(errNotReady))
	assert.Equal(t, rpcjson.ErrorCode(0), ErrorCode(errors.New("plain")))
}

func TestCheckRelayer(t *testing.T) {
	t.Cleanup(func() { Init(nil, nil) })

	Init(nil, nil)
	assert.Equal(t, errNoRelayers, CheckRelayer(""))
	assert.Equal(t, errNoRelayers, CheckRelayer("any"))

	Init(nil, []string{"k1", "", "k2"})
	assert.NoError(t, CheckRelayer("k1"))
	assert.NoError(t, CheckRelayer("k2"))
	assert.Equal(t, errRelayerNotAllowed, CheckRelayer(""))
	assert.Equal(t, errRelayerNotAllowed, CheckRelayer("k3"))

	_, err := GetOperation(1)
	assert.Equal(t, errNotReady, err)
	_, err = Reply(nil)
	assert.Equal(t, errEmptyArgs, err)
}

func TestConvertResponse(t *testing.T) {
	resp := swaps.NewResponse().
		AddAttribute("method", "recover").
		AddAttribute("amount", "10ux")
	resp.AddMessage(swaps.SubMsg{
		Token: 5,
		Msg:   swaps.CosmosMsg{BankSend: &tokens.BankSend{Token: 5}},
	})
	resp.Data = []byte(`[]`)

	info := ConvertResponse(resp)
	assert.Equal(t, map[string]string{"method": "recover", "amount": "10ux"}, info.Attributes)
	assert.Equal(t, []string{"bank_send:5"}, info.Messages)
	assert.Equal(t, `[]`, string(info.Data))
}

func TestConvertOperation(t *testing.T) {
	op := &swaps.Operation{
		ID:        3,
		Sender:    "osmo1sender",
		Status:    swaps.Recoverable,
		InputCoin: tokens.NewCoin("ux", 10),
	}
	info := ConvertOperation(op)
	assert.Equal(t, uint64(3), info.ID)
	assert.Equal(t, "Recoverable", info.StatusMsg)
	assert.Equal(t, op.InputCoin, info.InputCoin)
}
