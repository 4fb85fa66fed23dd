package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resgeo/config"
)

type stateInfo struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat,omitempty"`
	Lng  float64 `json:"lng,omitempty"`
	Zoom int     `json:"zoom,omitempty"`
}

// GetStatesHandler lists the states available for analysis, with the default
// map center for each when one is known.
func (s *Server) GetStatesHandler(c *gin.Context) {
	names := s.Dataset.Names()
	states := make([]stateInfo, 0, len(names))
	for _, name := range names {
		info := stateInfo{Name: name}
		if center, ok := config.StatesData[name]; ok {
			info.Lat = center.Lat
			info.Lng = center.Lng
			info.Zoom = center.Zoom
		}
		states = append(states, info)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(states), "states": states})
}
