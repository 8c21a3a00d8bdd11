package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mastkeey/cb-cloud-service/service"
)

func (a *API) FileUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	workspaceID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "invalid request",
			"requestID": requestID,
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to parse multipart form", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "no files provided",
			"requestID": requestID,
		})
		return
	}

	uploads := make([]service.FileUpload, 0, len(headers))
	opened := make([]interface{ Close() error }, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to open multipart file", zap.Error(err), zap.String("requestID", requestID))
			return
		}
		opened = append(opened, f)

		uploads = append(uploads, service.FileUpload{
			Name:        fh.Filename,
			Content:     f,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	if err := a.Files.Upload(c.Request.Context(), userID, workspaceID, uploads); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}
