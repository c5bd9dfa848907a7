package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// LenientInt is an integer that also accepts a quoted decimal string.
// Action-group properties always arrive as strings, so numeric fields of
// converted requests look like "150".
type LenientInt int

// UnmarshalJSON implements json.Unmarshaler
func (n *LenientInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%q is not an integer", s)
		}
		*n = LenientInt(v)
		return nil
	}

	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = LenientInt(v)
	return nil
}

// TalkResponse is the shopkeeper's greeting
type TalkResponse struct {
	Message string `json:"message"`
}

// PurchaseOrderInput is an item the caller wants to buy
type PurchaseOrderInput struct {
	Name  string     `json:"name" binding:"required,max=10"`
	Price LenientInt `json:"price" binding:"gte=1"`
}

// PurchaseOrderResponse is the shopkeeper's answer to a purchase
type PurchaseOrderResponse struct {
	Message string `json:"message"`
}

// SellOrderInput is an item the caller wants to sell
type SellOrderInput struct {
	Name string `json:"name" binding:"required,max=10"`
}

// SellOrderResponse carries the shopkeeper's offer
type SellOrderResponse struct {
	Message string `json:"message"`
	Price   int    `json:"price"`
}

// PostInput is the body accepted by the echo endpoint
type PostInput struct {
	Hello string     `json:"hello" binding:"required"`
	World LenientInt `json:"world"`
}

// PostResponse is the fixed body returned by the echo endpoint
type PostResponse struct {
	Nintendo string `json:"nintendo"`
	Atari    string `json:"atari"`
}
