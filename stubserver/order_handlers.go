package stubserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jovincart/storefront/models"
)

func (s *Server) orderNow(c *gin.Context) {
	var body struct {
		Amount int64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid amount"})
		return
	}

	intent, err := s.payments.CreateIntent(c.Request.Context(), body.Amount, "usd")
	if err != nil {
		s.log.Error("payment intent failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "payment provider unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": intent})
}

// pay settles an intent through the built-in provider and hands back a signed
// proof. It exists so local development works without a hosted payment page.
func (s *Server) pay(c *gin.Context) {
	var body struct {
		IntentID string `json:"intentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	proof, err := s.payments.Settle(c.Request.Context(), body.IntentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, proof)
}

// verifyPayment consumes the intent: a proof verifies at most once.
func (s *Server) verifyPayment(c *gin.Context) {
	var proof models.PaymentProof
	if err := c.ShouldBindJSON(&proof); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	if err := s.payments.Verify(c.Request.Context(), proof); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) placeOrder(c *gin.Context) {
	var body struct {
		UserID string            `json:"userId" binding:"required"`
		Items  []models.CartLine `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if !requireOwner(c, body.UserID) {
		return
	}

	order := s.orders.Place(body.UserID, body.Items)
	if s.events != nil {
		s.events.PublishOrderPlaced(c.Request.Context(), order)
	}
	s.log.Info("order placed",
		zap.String("order", order.OrderID),
		zap.String("user", order.UserID),
		zap.Int("items", len(order.Items)))
	c.JSON(http.StatusCreated, gin.H{"success": true, "orderId": order.OrderID})
}

func (s *Server) orderHistory(c *gin.Context) {
	userID := c.Param("userId")
	if !requireOwner(c, userID) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": s.orders.History(userID)})
}
