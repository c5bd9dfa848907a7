package handlers

import (
	"fmt"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Offer bounds for items sold to the shop, in gold
const (
	MinOffer = 100
	MaxOffer = 9999
)

// purchaseThreshold is the lowest price the shopkeeper takes seriously
const purchaseThreshold = 100

const welcomeMessage = "Welcome. If you're after weapons or armour, you've come to the right place. What can I do for you?"

// ShopHandler serves the sample action group: a shopkeeper an agent can
// talk to, buy from and sell to.
type ShopHandler struct {
	offer func() int
}

// NewShopHandler creates a new shop handler. offer picks the price paid for
// sold items; nil picks uniformly between MinOffer and MaxOffer.
func NewShopHandler(offer func() int) *ShopHandler {
	if offer == nil {
		offer = func() int { return MinOffer + rand.Intn(MaxOffer-MinOffer+1) }
	}
	return &ShopHandler{offer: offer}
}

// Talk greets the caller
// @Summary Talk with Shopkeeper
// @Description Shopkeeper responds with a welcome message
// @Tags shop
// @Produce json
// @Success 200 {object} TalkResponse
// @Router /talk [post]
func (h *ShopHandler) Talk(c *gin.Context) {
	c.JSON(http.StatusOK, TalkResponse{Message: welcomeMessage})
}

// Purchase buys an item from the shopkeeper
// @Summary Purchase from Shopkeeper
// @Description Pass the name and price of the item you want to purchase
// @Tags shop
// @Accept json
// @Produce json
// @Param order body PurchaseOrderInput true "Item and price in gold"
// @Success 200 {object} PurchaseOrderResponse
// @Failure 400 {object} ErrorResponse
// @Router /purchase [post]
func (h *ShopHandler) Purchase(c *gin.Context) {
	var input PurchaseOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	// Money is not enough, still 200
	if input.Price < purchaseThreshold {
		c.JSON(http.StatusOK, PurchaseOrderResponse{
			Message: fmt.Sprintf("%d gold? Sorry, I'm not interested in things like that.", input.Price),
		})
		return
	}

	c.JSON(http.StatusOK, PurchaseOrderResponse{
		Message: fmt.Sprintf("Who's going to carry %s? Do you want to equip your purchase now?", input.Name),
	})
}

// Sell sells an item to the shopkeeper for a random offer
// @Summary Sell to Shopkeeper
// @Description Pass the name of the item you want to sell
// @Tags shop
// @Accept json
// @Produce json
// @Param order body SellOrderInput true "Item to sell"
// @Success 200 {object} SellOrderResponse
// @Failure 400 {object} ErrorResponse
// @Router /sell [post]
func (h *ShopHandler) Sell(c *gin.Context) {
	var input SellOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	price := h.offer()
	c.JSON(http.StatusOK, SellOrderResponse{
		Price:   price,
		Message: fmt.Sprintf("Who wants to sell something? %s? I'll give you %d gold coins. Does that sound fair?", input.Name, price),
	})
}

// Posts validates its input and answers with a fixed body
func (h *ShopHandler) Posts(c *gin.Context) {
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	c.JSON(http.StatusOK, PostResponse{Nintendo: "koikoi", Atari: "game"})
}
