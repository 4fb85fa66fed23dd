package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"resgeo/report"
	"resgeo/types"
)

const (
	minTileSizeMeters     = 500.0
	maxTileSizeMeters     = 100000.0
	defaultTileSizeMeters = 500.0
)

type analyzeRequest struct {
	State          string  `json:"state" binding:"required"`
	TileSizeMeters float64 `json:"tile_size_meters"`
}

// AnalyzeHandler runs the full acquisition and analysis pipeline for a state.
func (s *Server) AnalyzeHandler(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.TileSizeMeters == 0 {
		req.TileSizeMeters = defaultTileSizeMeters
	}
	if req.TileSizeMeters < minTileSizeMeters || req.TileSizeMeters > maxTileSizeMeters {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tile_size_meters out of range", "details": "must be between 500 and 100000"})
		return
	}

	region, err := s.Dataset.Region(req.State)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown state", "details": err.Error()})
		return
	}

	dir := region.DirName()
	if !s.tryStart(dir) {
		c.JSON(http.StatusConflict, gin.H{"error": "Analysis already running for this state"})
		return
	}

	rep, err := s.Runner.Run(c.Request.Context(), req.State, req.TileSizeMeters, nil, nil)
	s.finish(dir, rep)
	if err != nil {
		var fsErr *types.FilesystemError
		if errors.As(err, &fsErr) {
			log.Printf("Analysis for %s failed: %v", req.State, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Filesystem error during analysis", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rep)
}

// GetReportHandler returns the most recent report for a state. When the server
// has no in-memory report (after a restart) the flagged artifacts on disk are
// listed so the dashboard can still render past results.
func (s *Server) GetReportHandler(c *gin.Context) {
	state := c.Param("state")
	region, err := s.Dataset.Region(state)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown state", "details": err.Error()})
		return
	}

	if rep := s.latestReport(region.DirName()); rep != nil {
		c.JSON(http.StatusOK, rep)
		return
	}

	flagged, err := report.ListFlagged(report.FlaggedDir(s.OutputRoot, region.DirName()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list flagged tiles", "details": err.Error()})
		return
	}
	if len(flagged) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No report available for this state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"region": region.Name, "flaggedTiles": flagged, "floodedTiles": len(flagged)})
}

// GetFlaggedHandler lists the flagged tile artifacts saved for a state.
func (s *Server) GetFlaggedHandler(c *gin.Context) {
	state := c.Param("state")
	region, err := s.Dataset.Region(state)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown state", "details": err.Error()})
		return
	}

	flagged, err := report.ListFlagged(report.FlaggedDir(s.OutputRoot, region.DirName()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list flagged tiles", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"region": region.Name, "count": len(flagged), "flaggedTiles": flagged})
}

// ResetHandler deletes the saved tiles and flagged artifacts for a state.
func (s *Server) ResetHandler(c *gin.Context) {
	state := c.Param("state")
	region, err := s.Dataset.Region(state)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown state", "details": err.Error()})
		return
	}

	dir := region.DirName()
	if s.InFlight(dir) {
		c.JSON(http.StatusConflict, gin.H{"error": "Analysis is running for this state, try again later"})
		return
	}

	if err := report.Reset(s.OutputRoot, dir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to reset state output", "details": err.Error()})
		return
	}
	s.dropReport(dir)
	log.Printf("Cleared output for %s", region.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Output cleared", "region": region.Name})
}
