package stubserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jovincart/storefront/models"
)

type cartMutationBody struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
}

func (s *Server) getCart(c *gin.Context) {
	userID := c.Param("userId")
	if !requireOwner(c, userID) {
		return
	}

	cart, err := s.carts.Get(c.Request.Context(), userID)
	if err != nil {
		s.log.Error("cart load failed", zap.String("user", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "cart unavailable"})
		return
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartLine{}}
	}
	c.JSON(http.StatusOK, cart)
}

func (s *Server) addToCart(c *gin.Context) {
	var body struct {
		UserID string          `json:"userId" binding:"required"`
		Item   models.CartLine `json:"item" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if !requireOwner(c, body.UserID) {
		return
	}
	if body.Item.ProductID == "" || body.Item.Quantity <= 0 || body.Item.UnitPriceCents < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid cart item"})
		return
	}

	s.mutateCart(c, body.UserID, func(cart *models.Cart) bool {
		for i := range cart.Items {
			if cart.Items[i].ProductID == body.Item.ProductID {
				cart.Items[i].Quantity += body.Item.Quantity
				return true
			}
		}
		cart.Items = append(cart.Items, body.Item)
		return true
	})
}

func (s *Server) increaseCart(c *gin.Context) {
	var body cartMutationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if !requireOwner(c, body.UserID) {
		return
	}

	s.mutateCart(c, body.UserID, func(cart *models.Cart) bool {
		for i := range cart.Items {
			if cart.Items[i].ProductID == body.ProductID {
				cart.Items[i].Quantity++
				return true
			}
		}
		return false
	})
}

// decreaseCart lowers the quantity by one; a line at quantity one is removed
// outright so a zero-quantity line can never be stored.
func (s *Server) decreaseCart(c *gin.Context) {
	var body cartMutationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if !requireOwner(c, body.UserID) {
		return
	}

	s.mutateCart(c, body.UserID, func(cart *models.Cart) bool {
		for i := range cart.Items {
			if cart.Items[i].ProductID != body.ProductID {
				continue
			}
			if cart.Items[i].Quantity <= 1 {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			} else {
				cart.Items[i].Quantity--
			}
			return true
		}
		return false
	})
}

func (s *Server) removeFromCart(c *gin.Context) {
	var body cartMutationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if !requireOwner(c, body.UserID) {
		return
	}

	s.mutateCart(c, body.UserID, func(cart *models.Cart) bool {
		for i := range cart.Items {
			if cart.Items[i].ProductID == body.ProductID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (s *Server) clearCart(c *gin.Context) {
	var body struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if !requireOwner(c, body.UserID) {
		return
	}

	if err := s.carts.Delete(c.Request.Context(), body.UserID); err != nil {
		s.log.Error("cart clear failed", zap.String("user", body.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "cart unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// mutateCart loads the user's cart, applies fn, and persists the result.
// fn returning false means the referenced line does not exist.
func (s *Server) mutateCart(c *gin.Context, userID string, fn func(*models.Cart) bool) {
	ctx := c.Request.Context()

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		s.log.Error("cart load failed", zap.String("user", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "cart unavailable"})
		return
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID}
	}

	if !fn(cart) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "item not in cart"})
		return
	}
	cart.UpdatedAt = time.Now()

	if err := s.carts.Save(ctx, cart); err != nil {
		s.log.Error("cart save failed", zap.String("user", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "cart unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": cart})
}
