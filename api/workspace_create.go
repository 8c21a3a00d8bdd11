package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type workspaceBody struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

func (a *API) WorkspaceCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var data workspaceBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	workspace, err := a.Workspaces.Create(c.Request.Context(), userID, data.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, workspace)
}
