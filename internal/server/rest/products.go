package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abort(c, http.StatusNotFound, "Product not found")
		return 0, false
	}
	return id, true
}

func (s *Server) requestProductImageUpload(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	p, url, err := s.services.Products.RequestImageUpload(c.Request.Context(), id)
	if err != nil {
		s.productFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Image upload URL issued",
		"upload_url": url,
		"image":      p.Image,
	})
}

func (s *Server) productImage(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	url, err := s.services.Products.ImageURL(c.Request.Context(), id)
	if err != nil {
		s.productFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (s *Server) productFail(c *gin.Context, err error) {
	var reason *common.Error
	if !errors.As(err, &reason) && errors.Is(err, common.ErrorNotFound) {
		abort(c, http.StatusNotFound, "Product not found")
		return
	}
	writeError(c, err)
}
