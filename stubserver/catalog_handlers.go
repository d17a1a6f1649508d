package stubserver

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jovincart/storefront/models"
)

func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": s.products.List()})
}

func (s *Server) createProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if p.Name == "" || p.PriceCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name and a positive price are required"})
		return
	}

	created := s.products.Create(p)
	c.JSON(http.StatusCreated, gin.H{"success": true, "product": created})
}

func (s *Server) deleteProduct(c *gin.Context) {
	id := c.Param("id")
	if !s.products.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// upload stores a product image under the configured directory and returns
// the path it is served from.
func (s *Server) upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file field is required"})
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		s.log.Error("upload dir unavailable", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "upload failed"})
		return
	}

	name := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(s.cfg.UploadDir, name)); err != nil {
		s.log.Error("upload save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": "/uploads/" + name})
}
