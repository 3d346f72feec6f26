package tokens

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinJSON(t *testing.T) {
	data, err := json.Marshal(NewCoin("uosmo", 100))
	require.NoError(t, err)
	assert.JSONEq(t, `{"denom":"uosmo","amount":"100"}`, string(data))

	var c Coin
	require.NoError(t, json.Unmarshal([]byte(`{"denom":"uatom","amount":"98"}`), &c))
	assert.True(t, c.Equal(NewCoin("uatom", 98)))

	assert.Error(t, json.Unmarshal([]byte(`{"denom":"uatom","amount":"-1"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"denom":"uatom","amount":"1.5"}`), &c))
}

func TestCoinsMerge(t *testing.T) {
	cs := Coins{
		NewCoin("x", 100),
		NewCoin("y", 98),
		NewCoin("x", 5),
		{Denom: "z", Amount: big.NewInt(0)},
	}
	merged := cs.Merge()
	assert.Equal(t, "105x,98y", merged.String())
	assert.Equal(t, int64(100), cs[0].Amount.Int64(), "merge must not modify the source")
}
