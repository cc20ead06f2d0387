package opportunity

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pulsecrm/core/internal/database"
	"github.com/pulsecrm/core/internal/models"
	"github.com/pulsecrm/core/internal/modules/audit"
	"github.com/pulsecrm/core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB, models.UserModel, models.CustomerModel) {
	t.Helper()
	db := newTestDB(t)
	svc := NewService(db, audit.NewService(db, nil))

	owner := models.UserModel{Name: "Dana", Email: "dana@example.com", Password: "x"}
	require.NoError(t, db.Create(&owner).Error)
	customer := models.CustomerModel{UserID: owner.ID, Name: "Acme"}
	require.NoError(t, db.Create(&customer).Error)
	return svc, db, owner, customer
}

func trailFor(t *testing.T, db *gorm.DB, subjectID string) []models.ActivityModel {
	t.Helper()
	var rows []models.ActivityModel
	require.NoError(t, db.
		Where("subject_kind = ? AND subject_id = ?", models.KindOpportunity, subjectID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error)
	return rows
}

func TestCreate(t *testing.T) {
	svc, db, owner, customer := newTestService(t)

	rec, err := svc.Create(owner.ID, &CreateOpportunityDTO{
		Title:    "Acme Deal",
		Customer: customer.ID,
		Value:    12000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageQualification, rec.Stage) // default stage
	assert.Equal(t, owner.ID, rec.UserID)

	trail := trailFor(t, db, rec.ID)
	require.Len(t, trail, 1)
	assert.Equal(t, models.ActivityCreate, trail[0].Kind)
	assert.Contains(t, trail[0].Summary, "Acme Deal")
	assert.Equal(t, owner.ID, trail[0].Actor)
}

func TestCreateValidation(t *testing.T) {
	svc, _, owner, customer := newTestService(t)

	_, err := svc.Create(owner.ID, &CreateOpportunityDTO{Title: "X", Customer: uuid.NewString()})
	assert.ErrorIs(t, err, errCustomerNotFound)

	_, err = svc.Create(owner.ID, &CreateOpportunityDTO{Title: "X", Customer: customer.ID, Stage: "Daydreaming"})
	assert.ErrorIs(t, err, errInvalidStage)

	// A customer of another user is as good as absent.
	stranger := models.UserModel{Name: "Eve", Email: "eve@example.com", Password: "x"}
	require.NoError(t, svc.db.Create(&stranger).Error)
	_, err = svc.Create(stranger.ID, &CreateOpportunityDTO{Title: "X", Customer: customer.ID})
	assert.ErrorIs(t, err, errCustomerNotFound)
}

func TestUpdateStageChange(t *testing.T) {
	svc, db, owner, customer := newTestService(t)

	rec, err := svc.Create(owner.ID, &CreateOpportunityDTO{Title: "Acme Deal", Customer: customer.ID})
	require.NoError(t, err)

	stage := string(models.StageProposal)
	updated, err := svc.Update(owner.ID, rec.ID, &UpdateOpportunityDTO{Stage: &stage})
	require.NoError(t, err)
	assert.Equal(t, models.StageProposal, updated.Stage)

	trail := trailFor(t, db, rec.ID)
	require.Len(t, trail, 2)
	assert.Equal(t, models.ActivityStatusChange, trail[1].Kind)
	assert.Contains(t, trail[1].Summary, "Qualification")
	assert.Contains(t, trail[1].Summary, "Proposal")
	assert.Contains(t, trail[1].Summary, "Acme Deal")
}

func TestUpdateWithoutStageChange(t *testing.T) {
	svc, db, owner, customer := newTestService(t)

	rec, err := svc.Create(owner.ID, &CreateOpportunityDTO{Title: "Acme Deal", Customer: customer.ID})
	require.NoError(t, err)

	value := 99000.0
	updated, err := svc.Update(owner.ID, rec.ID, &UpdateOpportunityDTO{Value: &value})
	require.NoError(t, err)
	assert.EqualValues(t, 99000, updated.Value)
	require.NotNil(t, updated.Customer) // preloaded for the response
	assert.Equal(t, "Acme", updated.Customer.Name)

	trail := trailFor(t, db, rec.ID)
	require.Len(t, trail, 2)
	assert.Equal(t, models.ActivityUpdate, trail[1].Kind)

	// Setting the stage to its current value is a plain update too.
	same := string(models.StageQualification)
	_, err = svc.Update(owner.ID, rec.ID, &UpdateOpportunityDTO{Stage: &same})
	require.NoError(t, err)
	trail = trailFor(t, db, rec.ID)
	require.Len(t, trail, 3)
	assert.Equal(t, models.ActivityUpdate, trail[2].Kind)
}

func TestDelete(t *testing.T) {
	svc, db, owner, customer := newTestService(t)

	rec, err := svc.Create(owner.ID, &CreateOpportunityDTO{Title: "Acme Deal", Customer: customer.ID})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(owner.ID, rec.ID))

	var n int64
	require.NoError(t, db.Model(&models.OpportunityModel{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)

	// The trail survives the subject, now orphaned.
	trail := trailFor(t, db, rec.ID)
	require.Len(t, trail, 2)
	assert.Equal(t, models.ActivityDelete, trail[1].Kind)
	assert.Contains(t, trail[1].Summary, "Acme Deal")
}

func TestOwnership(t *testing.T) {
	svc, db, owner, customer := newTestService(t)

	rec, err := svc.Create(owner.ID, &CreateOpportunityDTO{Title: "Acme Deal", Customer: customer.ID})
	require.NoError(t, err)

	stranger := models.UserModel{Name: "Eve", Email: "eve@example.com", Password: "x"}
	require.NoError(t, db.Create(&stranger).Error)

	title := "hijacked"
	_, err = svc.Update(stranger.ID, rec.ID, &UpdateOpportunityDTO{Title: &title})
	assert.ErrorIs(t, err, errNotOwner)

	err = svc.Delete(stranger.ID, rec.ID)
	assert.ErrorIs(t, err, errNotOwner)

	_, err = svc.Update(owner.ID, uuid.NewString(), &UpdateOpportunityDTO{Title: &title})
	assert.ErrorIs(t, err, errNotFound)
}

func TestList(t *testing.T) {
	svc, _, owner, customer := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(owner.ID, &CreateOpportunityDTO{
			Title:    fmt.Sprintf("Deal %d", i),
			Customer: customer.ID,
		})
		require.NoError(t, err)
	}

	rows, pag, err := svc.List(owner.ID, "", pagination.Query{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.EqualValues(t, 3, pag.Total)
	assert.True(t, pag.HasNextPage)
	require.NotNil(t, rows[0].Customer)

	rows, _, err = svc.List(owner.ID, "Deal 1", pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Deal 1", rows[0].Title)
}
