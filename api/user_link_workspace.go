package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserLinkWorkspace adds the acting user as a member of an existing
// workspace, e.g. after its owner shared the id with them.
func (a *API) UserLinkWorkspace(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workspaceID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := a.Users.LinkWorkspace(c.Request.Context(), userID, workspaceID); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
