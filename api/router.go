// Package api contains all endpoints available
package api

import (
	"context"
	"fmt"
	"time"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/mastkeey/cb-cloud-service/db"
	"github.com/mastkeey/cb-cloud-service/middleware"
	"github.com/mastkeey/cb-cloud-service/pkg/security"
	"github.com/mastkeey/cb-cloud-service/s3"
	"github.com/mastkeey/cb-cloud-service/service"
	"github.com/mastkeey/cb-cloud-service/store"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine

	Users      *service.UserService
	Workspaces *service.WorkspaceService
	Files      *service.FileService
}

func NewRouter() (*API, error) {
	a := &API{}

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = conn

	storage, err := s3.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage, %w", err)
	}

	makeLogger()

	tokens := security.NewTokenService(viper.GetString("jwt.secret"), viper.GetInt("jwt.ttl_min"))
	argon := security.NewArgonHash()
	stores := store.New(conn)

	a.Users = service.NewUserService(stores, storage, tokens, argon)
	a.Workspaces = service.NewWorkspaceService(stores, storage)
	a.Files = service.NewFileService(stores, storage)

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 5 << 20

	auth := middleware.NewAuthMiddleware(tokens)
	authLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	})
	maxUploadSize := viper.GetInt64("upload.max_size")

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/users 		-> Registers a new user
		users.POST("", authLimiter, a.UserRegister)

		// POST /api/users/login 	-> Logs in a user and returns a JWT token
		users.POST("/login", authLimiter, a.UserLogin)

		// POST /api/users/workspaces/:id -> Links an existing workspace to the user
		users.POST("/workspaces/:id", auth, a.UserLinkWorkspace)
	}

	workspaces := main.Group("/workspaces", auth)
	{
		// POST /api/workspaces 	-> Creates a new workspace
		workspaces.POST("", middleware.BodySizeLimiter(1<<20), a.WorkspaceCreate)

		// GET /api/workspaces 		-> Lists the user's workspaces (paginated)
		workspaces.GET("", a.WorkspaceList)

		// GET /api/workspaces/all 	-> Lists all of the user's workspaces
		workspaces.GET("/all", a.WorkspaceListAll)

		// PATCH /api/workspaces/:id 	-> Renames a workspace
		workspaces.PATCH("/:id", middleware.BodySizeLimiter(1<<20), a.WorkspaceRename)

		// DELETE /api/workspaces/:id 	-> Deletes a workspace (or leaves it as a member)
		workspaces.DELETE("/:id", a.WorkspaceDelete)
	}

	files := workspaces.Group("/:id/files")
	{
		// POST /api/workspaces/:id/files 			-> Uploads files into a workspace
		files.POST("", middleware.BodySizeLimiter(maxUploadSize), a.FileUpload)

		// GET /api/workspaces/:id/files 			-> Lists file metadata (paginated)
		files.GET("", a.FileList)

		// GET /api/workspaces/:id/files/:fileID/download 	-> Streams a file back
		files.GET("/:fileID/download", a.FileDownload)

		// DELETE /api/workspaces/:id/files/:fileID 		-> Deletes a file
		files.DELETE("/:fileID", a.FileDelete)
	}

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
