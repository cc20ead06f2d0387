package attachment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pulsecrm/core/internal/middleware"
	"github.com/pulsecrm/core/internal/models"
	"github.com/pulsecrm/core/internal/modules/audit"
	"github.com/pulsecrm/core/internal/modules/crm/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T, db *gorm.DB, userID, uploadsDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authStub := func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Next()
	}

	h := NewHandler(NewService(db, registry.New(db)), NewDiskStore(uploadsDir), audit.NewService(db, nil))
	h.RegisterRoutes(r.Group("/api"), authStub)
	return r
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	db := newTestDB(t)
	owner, customer := seedCustomer(t, db)
	dir := t.TempDir()
	r := newTestRouter(t, db, owner.ID, dir)

	payload := []byte("%PDF-1.7 test payload")
	body, contentType := multipartUpload(t, map[string]string{
		"relatedTo":    customer.ID,
		"relatedModel": "Customer",
	}, "contract.pdf", payload)

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got models.AttachmentModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "contract.pdf", got.OriginalName)
	assert.Equal(t, owner.ID, got.UploadedBy)
	assert.Equal(t, models.KindCustomer, got.SubjectKind)
	assert.Equal(t, customer.ID, got.SubjectID)
	assert.EqualValues(t, len(payload), got.SizeBytes)

	// Bytes actually landed on disk under the stored name.
	onDisk, err := os.ReadFile(filepath.Join(dir, got.StoredName))
	require.NoError(t, err)
	assert.Equal(t, payload, onDisk)
	assert.Equal(t, "uploads/"+got.StoredName, got.StoragePath)

	// The upload produced a FILE_UPLOAD entry on the customer's trail.
	var entry models.ActivityModel
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, models.ActivityFileUpload, entry.Kind)
	assert.Contains(t, entry.Summary, "contract.pdf")
	assert.Equal(t, customer.ID, entry.SubjectID)
}

func TestUploadValidation(t *testing.T) {
	db := newTestDB(t)
	owner, customer := seedCustomer(t, db)
	dir := t.TempDir()
	r := newTestRouter(t, db, owner.ID, dir)

	do := func(fields map[string]string, filename string) *httptest.ResponseRecorder {
		body, contentType := multipartUpload(t, fields, filename, []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing file part", func(t *testing.T) {
		rec := do(map[string]string{"relatedTo": customer.ID, "relatedModel": "Customer"}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "No file uploaded.")
	})

	t.Run("missing related fields", func(t *testing.T) {
		rec := do(map[string]string{"relatedModel": "Customer"}, "a.txt")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Related record information is missing.")
	})

	t.Run("unknown related model", func(t *testing.T) {
		rec := do(map[string]string{"relatedTo": customer.ID, "relatedModel": "Widget"}, "a.txt")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid model type.")
	})

	t.Run("nonexistent subject", func(t *testing.T) {
		rec := do(map[string]string{"relatedTo": uuid.NewString(), "relatedModel": "Customer"}, "a.txt")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Related record not found.")
	})

	// None of the rejected uploads may leave bytes behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListForRoute(t *testing.T) {
	db := newTestDB(t)
	owner, customer := seedCustomer(t, db)
	r := newTestRouter(t, db, owner.ID, t.TempDir())

	svc := NewService(db, registry.New(db))
	_, err := svc.Save(owner.ID, models.Subject(models.KindCustomer, customer.ID), pdfMeta(42))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/files/Customer/"+customer.ID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.AttachmentModel `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "contract.pdf", envelope.Data[0].OriginalName)

	// Bad kind in the path.
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/files/Widget/%s", customer.ID), nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
