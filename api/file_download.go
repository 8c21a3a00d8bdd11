package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) FileDownload(c *gin.Context) {
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

	out, err := a.Files.Download(c.Request.Context(), userID, fileID, workspaceID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer out.Content.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.File.FullName()))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, out.Content); err != nil {
		// Headers are gone at this point, all we can do is log
		zap.L().Error("Failed to stream file",
			zap.String("fileID", fileID.String()),
			zap.Error(err))
	}
}
