package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ryanlai666/Meat-Cut/models"
	"github.com/ryanlai666/Meat-Cut/services"

	"github.com/gin-gonic/gin"
)

type CutController struct {
	catalog *services.CatalogService
}

func NewCutController(catalog *services.CatalogService) *CutController {
	return &CutController{catalog: catalog}
}

// GetCut serves one cut by slug for the public detail view.
func (cc *CutController) GetCut(c *gin.Context) {
	cut, err := cc.catalog.GetCut(c.Param("slug"))
	if err != nil {
		if errors.Is(err, models.ErrCutNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cut not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cut)
}

func (cc *CutController) CreateCut(c *gin.Context) {
	var req services.CutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cut, err := cc.catalog.CreateCut(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invalidateFacetsCache()
	c.JSON(http.StatusCreated, cut)
}

func (cc *CutController) UpdateCut(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cut ID"})
		return
	}

	var req services.CutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cut, err := cc.catalog.UpdateCut(uint(id), req)
	if err != nil {
		if errors.Is(err, models.ErrCutNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cut not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invalidateFacetsCache()
	c.JSON(http.StatusOK, cut)
}

func (cc *CutController) DeleteCut(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cut ID"})
		return
	}

	if err := cc.catalog.DeleteCut(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, models.ErrCutNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cut not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateFacetsCache()
	c.Status(http.StatusNoContent)
}

// AttachImage uploads a base64 image for the cut and stores the remote
// pointer pair.
type AttachImageRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

func (cc *CutController) AttachImage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cut ID"})
		return
	}

	var req AttachImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	cut, err := cc.catalog.AttachImage(c.Request.Context(), uint(id), req.ImageBase64)
	if err != nil {
		if errors.Is(err, models.ErrCutNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cut not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cut)
}
