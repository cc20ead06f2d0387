package analytics

import (
	"fmt"
	"testing"
	"time"

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

func seedUser(t *testing.T, db *gorm.DB, email string) models.UserModel {
	t.Helper()
	u := models.UserModel{Name: "User " + email, Email: email, Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestSummarizeTotalCounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	me := seedUser(t, db, "me@example.com")
	noise := seedUser(t, db, "noise@example.com")

	customer := models.CustomerModel{UserID: me.ID, Name: "Acme"}
	require.NoError(t, db.Create(&customer).Error)
	require.NoError(t, db.Create(&models.LeadModel{OwnerID: me.ID, Name: "L1", Status: models.LeadNew}).Error)
	require.NoError(t, db.Create(&models.LeadModel{OwnerID: me.ID, Name: "L2", Status: models.LeadContacted}).Error)
	require.NoError(t, db.Create(&models.OpportunityModel{
		UserID: me.ID, CustomerID: customer.ID, Title: "Deal", Stage: models.StageProposal,
	}).Error)

	// Another tenant's data must not leak into the counts.
	noiseCustomer := models.CustomerModel{UserID: noise.ID, Name: "Globex"}
	require.NoError(t, db.Create(&noiseCustomer).Error)
	require.NoError(t, db.Create(&models.LeadModel{OwnerID: noise.ID, Name: "NL", Status: models.LeadNew}).Error)

	summary, err := svc.Summarize(me.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.TotalCounts.Customers)
	assert.EqualValues(t, 2, summary.TotalCounts.Leads)
	assert.EqualValues(t, 1, summary.TotalCounts.Opportunities)
}

func TestSummarizeSalesPipeline(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	me := seedUser(t, db, "me@example.com")

	customer := models.CustomerModel{UserID: me.ID, Name: "Acme"}
	require.NoError(t, db.Create(&customer).Error)

	for _, o := range []struct {
		stage models.OpportunityStage
		value float64
	}{
		{models.StageQualification, 1000},
		{models.StageQualification, 2500},
		{models.StageProposal, 400},
		{models.StageClosedWon, 9000},
	} {
		require.NoError(t, db.Create(&models.OpportunityModel{
			UserID: me.ID, CustomerID: customer.ID, Title: "Deal", Stage: o.stage, Value: o.value,
		}).Error)
	}

	summary, err := svc.Summarize(me.ID)
	require.NoError(t, err)
	require.Len(t, summary.SalesPipeline, 3)

	// Buckets sort lexicographically on the stage label.
	assert.Equal(t, "Closed Won", summary.SalesPipeline[0].Stage)
	assert.Equal(t, "Proposal", summary.SalesPipeline[1].Stage)
	assert.Equal(t, "Qualification", summary.SalesPipeline[2].Stage)

	assert.EqualValues(t, 9000, summary.SalesPipeline[0].TotalValue)
	assert.EqualValues(t, 1, summary.SalesPipeline[0].Count)
	assert.EqualValues(t, 3500, summary.SalesPipeline[2].TotalValue)
	assert.EqualValues(t, 2, summary.SalesPipeline[2].Count)
}

func TestSummarizeRecentCustomers(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	me := seedUser(t, db, "me@example.com")

	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		c := models.CustomerModel{UserID: me.ID, Name: fmt.Sprintf("Customer %d", i), Company: "Co"}
		require.NoError(t, db.Create(&c).Error)
		require.NoError(t, db.Model(&c).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	summary, err := svc.Summarize(me.ID)
	require.NoError(t, err)
	require.Len(t, summary.RecentCustomers, 5)
	assert.Equal(t, "Customer 6", summary.RecentCustomers[0].Name)
	assert.Equal(t, "Customer 2", summary.RecentCustomers[4].Name)
}

func TestSummarizeEmptyTenant(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	me := seedUser(t, db, "me@example.com")

	summary, err := svc.Summarize(me.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, summary.TotalCounts.Customers)
	assert.NotNil(t, summary.SalesPipeline)
	assert.Empty(t, summary.SalesPipeline)
	assert.NotNil(t, summary.RecentCustomers)
	assert.Empty(t, summary.RecentCustomers)
}
