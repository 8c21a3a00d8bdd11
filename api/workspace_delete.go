package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WorkspaceDelete removes the workspace when the caller owns it, or
// just the caller's membership when they don't.
func (a *API) WorkspaceDelete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workspaceID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := a.Workspaces.Delete(c.Request.Context(), userID, workspaceID); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
