package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"resgeo/report"
)

const exportFilename = "resgeo_export.json"

// ExportHandler writes the accumulated analysis history to a JSON file under
// the output root and returns the document.
func (s *Server) ExportHandler(c *gin.Context) {
	doc, err := report.Export(s.OutputRoot)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to build export", "details": err.Error()})
		return
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to marshal export", "details": err.Error()})
		return
	}

	path := filepath.Join(s.OutputRoot, exportFilename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to write export file", "details": err.Error()})
		return
	}

	log.Printf("Exported %d analyses to %s", doc.TotalAnalyses, path)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Export complete",
		"filename": exportFilename,
		"count":    doc.TotalAnalyses,
		"export":   doc,
	})
}
