package controllers

import (
	"net/http"

	"github.com/ryanlai666/Meat-Cut/services"

	"github.com/gin-gonic/gin"
)

type CsvController struct {
	csv *services.CsvService
	hub *services.SyncHub
}

func NewCsvController(csv *services.CsvService, hub *services.SyncHub) *CsvController {
	return &CsvController{csv: csv, hub: hub}
}

// Export streams the whole catalog as a CSV attachment.
func (cc *CsvController) Export(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="cuts.csv"`)

	if err := cc.csv.Export(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed", "detail": err.Error()})
		return
	}
}

// Import accepts a multipart CSV upload and returns the per-row batch
// summary. Bad rows are reported, not fatal.
func (cc *CsvController) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read upload"})
		return
	}
	defer f.Close()

	summary, err := cc.csv.Import(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "summary": summary})
		return
	}

	if summary.Succeeded > 0 {
		invalidateFacetsCache()
	}
	cc.hub.Broadcast(services.SyncEvent{Type: "csv_import", Payload: summary})
	c.JSON(http.StatusOK, summary)
}
