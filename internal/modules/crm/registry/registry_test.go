package registry

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pulsecrm/core/internal/database"
	"github.com/pulsecrm/core/internal/models"
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

func TestExists(t *testing.T) {
	db := newTestDB(t)
	reg := New(db)

	owner := models.UserModel{Name: "Dana", Email: "dana@example.com", Password: "x"}
	other := models.UserModel{Name: "Eve", Email: "eve@example.com", Password: "x"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&other).Error)

	customer := models.CustomerModel{UserID: owner.ID, Name: "Acme"}
	lead := models.LeadModel{OwnerID: owner.ID, Name: "Prospect", Status: models.LeadNew}
	require.NoError(t, db.Create(&customer).Error)
	require.NoError(t, db.Create(&lead).Error)
	opp := models.OpportunityModel{
		UserID:     owner.ID,
		CustomerID: customer.ID,
		Title:      "Deal",
		Stage:      models.StageQualification,
	}
	require.NoError(t, db.Create(&opp).Error)

	t.Run("finds owned rows through the per-kind owner column", func(t *testing.T) {
		for _, tc := range []struct {
			kind models.SubjectKind
			id   string
		}{
			{models.KindCustomer, customer.ID},
			{models.KindLead, lead.ID},
			{models.KindOpportunity, opp.ID},
		} {
			ok, err := reg.Exists(tc.kind, tc.id, owner.ID)
			require.NoError(t, err)
			assert.True(t, ok, string(tc.kind))
		}
	})

	t.Run("rows of another user are invisible", func(t *testing.T) {
		for _, tc := range []struct {
			kind models.SubjectKind
			id   string
		}{
			{models.KindCustomer, customer.ID},
			{models.KindLead, lead.ID},
			{models.KindOpportunity, opp.ID},
		} {
			ok, err := reg.Exists(tc.kind, tc.id, other.ID)
			require.NoError(t, err)
			assert.False(t, ok, string(tc.kind))
		}
	})

	t.Run("absent rows and unknown kinds are false, not errors", func(t *testing.T) {
		ok, err := reg.Exists(models.KindCustomer, uuid.NewString(), owner.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = reg.Exists("Widget", customer.ID, owner.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = reg.Exists(models.KindCustomer, "", owner.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestOwnerColumn(t *testing.T) {
	assert.Equal(t, "user_id", OwnerColumn(models.KindCustomer))
	assert.Equal(t, "owner_id", OwnerColumn(models.KindLead))
	assert.Equal(t, "user_id", OwnerColumn(models.KindOpportunity))
	assert.Equal(t, "", OwnerColumn("Widget"))
}
