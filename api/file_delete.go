package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) FileDelete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workspaceID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	fileID, ok := uuidParam(c, "fileID")
	if !ok {
		return
	}

	if err := a.Files.Delete(c.Request.Context(), userID, fileID, workspaceID); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
