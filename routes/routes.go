package routes

import (
	"github.com/gin-gonic/gin"

	"resgeo/handlers"
)

func SetupRouter(server *handlers.Server) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to ResGeo!",
		})
	})

	// api routes
	api := r.Group("/api/resgeo")
	{
		api.GET("/states", server.GetStatesHandler)
		api.POST("/analyze", server.AnalyzeHandler)
		api.GET("/report/:state", server.GetReportHandler)
		api.GET("/flagged/:state", server.GetFlaggedHandler)
		api.POST("/victim", server.VictimHandler)
		api.POST("/thermal", server.ThermalHandler)
		api.GET("/export", server.ExportHandler)
		api.POST("/reset/:state", server.ResetHandler)
	}

	return r
}
