package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) WorkspaceList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, err := a.Workspaces.List(c.Request.Context(), userID, pageRequest(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (a *API) WorkspaceListAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workspaces, err := a.Workspaces.ListAll(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, workspaces)
}
