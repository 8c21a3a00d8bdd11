package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mastkeey/cb-cloud-service/service"
)

// abortWithError maps a service error to its status code and the
// standard error body. Internal causes are logged, never sent.
func abortWithError(c *gin.Context, err error) {
	requestID := c.MustGet("requestID").(string)

	appErr := service.AsAppError(err)
	if appErr.HTTPCode >= http.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.String("requestID", requestID),
			zap.String("message", appErr.Message),
			zap.Error(appErr.Err))
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, gin.H{
		"error":     appErr.Message,
		"requestID": requestID,
	})
}

// currentUserID reads the principal the auth middleware resolved. The
// middleware guarantees the value parses, so a failure here means the
// handler is mounted outside the auth group.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	requestID := c.MustGet("requestID").(string)

	raw := c.GetString("userID")
	userID, err := uuid.Parse(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "unauthorized",
			"requestID": requestID,
		})
		return uuid.Nil, false
	}

	return userID, true
}

// uuidParam parses a UUID path parameter, aborting with a 400 when it
// doesn't parse.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	requestID := c.MustGet("requestID").(string)

	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "invalid " + name,
			"requestID": requestID,
		})
		return uuid.Nil, false
	}

	return id, true
}

// pageRequest reads the page/size query params, clamped to the
// configured bounds.
func pageRequest(c *gin.Context) service.PageRequest {
	defaultSize := viper.GetInt("page.default_size")
	maxSize := viper.GetInt("page.max_size")

	req := service.PageRequest{Page: 0, Size: defaultSize}

	if v, err := parseIntQuery(c, "page"); err == nil && v >= 0 {
		req.Page = v
	}

	if v, err := parseIntQuery(c, "size"); err == nil && v > 0 {
		req.Size = min(v, maxSize)
	}

	return req
}

func parseIntQuery(c *gin.Context, name string) (int, error) {
	return strconv.Atoi(c.Query(name))
}
