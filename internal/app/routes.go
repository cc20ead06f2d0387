package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/pulsecrm/core/internal/middleware"
	"github.com/pulsecrm/core/internal/modules/analytics"
	"github.com/pulsecrm/core/internal/modules/attachment"
	"github.com/pulsecrm/core/internal/modules/audit"
	"github.com/pulsecrm/core/internal/modules/auth/user"
	"github.com/pulsecrm/core/internal/modules/crm/customer"
	"github.com/pulsecrm/core/internal/modules/crm/lead"
	"github.com/pulsecrm/core/internal/modules/crm/opportunity"
	"github.com/pulsecrm/core/internal/modules/crm/registry"
	"github.com/pulsecrm/core/internal/pkg/response"
)

func (a *App) registerRoutes() error {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Attachment bytes are served straight from local disk. When S3 is
	// enabled the stored path is a full URL and this route is unused.
	r.Static("/uploads", a.cfg.UploadsDir())

	reg := registry.New(db)
	auditSvc := audit.NewService(db, a.logger)

	blobs, err := a.selectBlobStore()
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}

	api := r.Group("/api")

	user.NewHandler(user.NewService(db)).RegisterRoutes(api, authMW)
	customer.NewHandler(customer.NewService(db)).RegisterRoutes(api, authMW)
	lead.NewHandler(lead.NewService(db)).RegisterRoutes(api, authMW)
	opportunity.NewHandler(opportunity.NewService(db, auditSvc)).RegisterRoutes(api, authMW)
	attachment.NewHandler(attachment.NewService(db, reg), blobs, auditSvc).RegisterRoutes(api, authMW)
	audit.NewHandler(auditSvc).RegisterRoutes(api, authMW)
	analytics.NewHandler(analytics.NewService(db)).RegisterRoutes(api, authMW)

	return nil
}

func (a *App) selectBlobStore() (attachment.BlobStore, error) {
	if a.cfg.Uploads.S3.Enable {
		return attachment.NewS3Store(a.cfg.Uploads.S3)
	}
	return attachment.NewDiskStore(a.cfg.UploadsDir()), nil
}
