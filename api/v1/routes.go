package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServerInterface is implemented by the API handlers.
type ServerInterface interface {
	// (GET /groups)
	ListGroups(c *gin.Context)
	// (GET /runs)
	ListRuns(c *gin.Context, params ListRunsParams)
	// (POST /runs)
	StartRun(c *gin.Context)
	// (GET /runs/current)
	GetCurrentRun(c *gin.Context)
	// (DELETE /runs/current)
	StopCurrentRun(c *gin.Context)
	// (GET /runs/{id})
	GetRun(c *gin.Context, id string)
	// (DELETE /runs/{id})
	DeleteRun(c *gin.Context, id string)
	// (GET /runs/{id}/steps)
	ListRunSteps(c *gin.Context, id string, params ListRunStepsParams)
	// (GET /runs/{id}/snapshots)
	ListRunSnapshots(c *gin.Context, id string)
	// (GET /runs/{id}/snapshots/{group}/{label})
	GetRunSnapshot(c *gin.Context, id, group, label string)
}

// RegisterHandlers binds si to router.
func RegisterHandlers(router gin.IRoutes, si ServerInterface) {
	router.GET("/groups", si.ListGroups)
	router.GET("/runs", func(c *gin.Context) {
		var params ListRunsParams
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		si.ListRuns(c, params)
	})
	router.POST("/runs", si.StartRun)
	router.GET("/runs/current", si.GetCurrentRun)
	router.DELETE("/runs/current", si.StopCurrentRun)
	router.GET("/runs/:id", func(c *gin.Context) {
		si.GetRun(c, c.Param("id"))
	})
	router.DELETE("/runs/:id", func(c *gin.Context) {
		si.DeleteRun(c, c.Param("id"))
	})
	router.GET("/runs/:id/steps", func(c *gin.Context) {
		var params ListRunStepsParams
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		si.ListRunSteps(c, c.Param("id"), params)
	})
	router.GET("/runs/:id/snapshots", func(c *gin.Context) {
		si.ListRunSnapshots(c, c.Param("id"))
	})
	router.GET("/runs/:id/snapshots/:group/:label", func(c *gin.Context) {
		si.GetRunSnapshot(c, c.Param("id"), c.Param("group"), c.Param("label"))
	})
}
