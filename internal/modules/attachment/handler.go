package attachment

import (
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/pulsecrm/core/internal/middleware"
	"github.com/pulsecrm/core/internal/models"
	"github.com/pulsecrm/core/internal/modules/audit"
	"github.com/pulsecrm/core/internal/pkg/response"
)

// maxUploadBytes caps a single attachment at 32 MiB.
const maxUploadBytes = 32 << 20

type Handler struct {
	svc   *Service
	blobs BlobStore
	audit *audit.Service
}

func NewHandler(svc *Service, blobs BlobStore, auditSvc *audit.Service) *Handler {
	return &Handler{svc: svc, blobs: blobs, audit: auditSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/files", authMW)
	g.POST("/upload", h.upload)
	g.GET("/:kind/:id", h.listFor)
}

// POST /files/upload — multipart: file part + relatedTo + relatedModel fields
func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "No file uploaded.")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.BadRequest(c, "File is too large.")
		return
	}

	relatedTo := c.PostForm("relatedTo")
	relatedModel := c.PostForm("relatedModel")
	if relatedTo == "" || relatedModel == "" {
		response.BadRequest(c, "Related record information is missing.")
		return
	}
	kind, err := models.ParseSubjectKind(relatedModel)
	if err != nil {
		response.BadRequest(c, "Invalid model type.")
		return
	}
	subject := models.Subject(kind, relatedTo)
	if err := subject.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)

	// Resolve the subject before touching the blob store so a rejected
	// upload never leaves orphaned bytes behind.
	if err := h.svc.CheckSubject(userID, subject); err != nil {
		respondSaveError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer file.Close()
	payload, err := io.ReadAll(file)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	storedName := buildStoredName(fileHeader.Filename)
	contentType := detectContentType(fileHeader.Filename, payload, fileHeader.Header.Get("Content-Type"))

	storagePath, err := h.blobs.Store(c.Request.Context(), storedName, payload, contentType)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	rec, err := h.svc.Save(userID, subject, FileMeta{
		StoredName:   storedName,
		OriginalName: fileHeader.Filename,
		StoragePath:  storagePath,
		ContentType:  contentType,
		SizeBytes:    int64(len(payload)),
	})
	if err != nil {
		respondSaveError(c, err)
		return
	}

	h.audit.Record(userID, models.ActivityFileUpload,
		fmt.Sprintf("uploaded file: %q", fileHeader.Filename), subject)

	response.Created(c, rec)
}

func respondSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSubjectNotFound):
		response.NotFoundMsg(c, "Related record not found.")
	case errors.Is(err, models.ErrUnknownSubjectKind),
		errors.Is(err, models.ErrInvalidSubjectID):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// GET /files/:kind/:id
func (h *Handler) listFor(c *gin.Context) {
	kind, err := models.ParseSubjectKind(c.Param("kind"))
	if err != nil {
		response.BadRequest(c, "Invalid model type.")
		return
	}
	subject := models.Subject(kind, c.Param("id"))
	if err := subject.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rows, err := h.svc.ListFor(subject)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}
