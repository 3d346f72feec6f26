package tokens

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Coin amount of a denomination. Amount is encoded as decimal string.
type Coin struct {
	Denom  string   `json:"denom"`
	Amount *big.Int `json:"-"`
}

type coinJSON struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// NewCoin new coin
func NewCoin(denom string, amount int64) Coin {
	return Coin{Denom: denom, Amount: big.NewInt(amount)}
}

// IsPositive amount > 0
func (c Coin) IsPositive() bool {
	return c.Amount != nil && c.Amount.Sign() > 0
}

// Clone deep copy
func (c Coin) Clone() Coin {
	res := Coin{Denom: c.Denom}
	if c.Amount != nil {
		res.Amount = new(big.Int).Set(c.Amount)
	}
	return res
}

// Equal compare denom and amount
func (c Coin) Equal(other Coin) bool {
	if c.Denom != other.Denom {
		return false
	}
	if c.Amount == nil || other.Amount == nil {
		return c.Amount == other.Amount
	}
	return c.Amount.Cmp(other.Amount) == 0
}

// String 100uosmo
func (c Coin) String() string {
	amount := "0"
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	return amount + c.Denom
}

// MarshalJSON json marshal
func (c Coin) MarshalJSON() ([]byte, error) {
	amount := "0"
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	return json.Marshal(&coinJSON{Denom: c.Denom, Amount: amount})
}

// UnmarshalJSON json unmarshal
func (c *Coin) UnmarshalJSON(data []byte) error {
	var cj coinJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	amount, ok := new(big.Int).SetString(cj.Amount, 10)
	if !ok || amount.Sign() < 0 {
		return fmt.Errorf("invalid coin amount '%v'", cj.Amount)
	}
	c.Denom = cj.Denom
	c.Amount = amount
	return nil
}

// Coins list of coins
type Coins []Coin

// Merge sum amounts of the same denom, keep the order of first appearance
func (cs Coins) Merge() Coins {
	res := make(Coins, 0, len(cs))
	index := make(map[string]int)
	for _, c := range cs {
		if !c.IsPositive() {
			continue
		}
		if i, exist := index[c.Denom]; exist {
			res[i].Amount.Add(res[i].Amount, c.Amount)
			continue
		}
		index[c.Denom] = len(res)
		res = append(res, c.Clone())
	}
	return res
}

// String 100uosmo,98uatom
func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}
