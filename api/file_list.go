package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) FileList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workspaceID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	page, err := a.Files.ListInfo(c.Request.Context(), userID, workspaceID, pageRequest(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
