package handlers

import (
	"bytes"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"resgeo/imaging"
)

func decodeUpload(c *gin.Context) (*imaging.Image, bool) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image upload", "details": err.Error()})
		return nil, false
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to decode image", "details": err.Error()})
		return nil, false
	}
	return img, true
}

func encodeBase64PNG(img *imaging.Image) (string, error) {
	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// VictimHandler runs thermal synthesis and victim detection on an uploaded
// image and returns the rendered frames inline as base64 PNG.
func (s *Server) VictimHandler(c *gin.Context) {
	img, ok := decodeUpload(c)
	if !ok {
		return
	}

	thermal, annotated, result, err := s.Victim.Localize(img)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Victim detection failed", "details": err.Error()})
		return
	}

	thermalPNG, err := encodeBase64PNG(thermal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to encode thermal image", "details": err.Error()})
		return
	}
	annotatedPNG, err := encodeBase64PNG(annotated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to encode annotated image", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      result.Count,
		"detections": result.Detections,
		"source":     result.Source,
		"thermal":    thermalPNG,
		"annotated":  annotatedPNG,
	})
}

// ThermalHandler renders the thermal view of an uploaded image.
func (s *Server) ThermalHandler(c *gin.Context) {
	img, ok := decodeUpload(c)
	if !ok {
		return
	}

	thermalPNG, err := encodeBase64PNG(imaging.Thermal(img))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to encode thermal image", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"thermal": thermalPNG})
}
