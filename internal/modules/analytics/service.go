// Package analytics computes the dashboard summary for one tenant. Every
// call recomputes from current state; the constituent queries are not
// snapshot-consistent with each other under concurrent writes, which is
// acceptable for a dashboard.
package analytics

import (
	"github.com/pulsecrm/core/internal/models"
	"github.com/pulsecrm/core/internal/modules/crm/registry"
	"gorm.io/gorm"
)

const recentCustomerLimit = 5

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Summarize assembles counts, the pipeline breakdown, and the most recent
// customers for the given user.
func (s *Service) Summarize(userID string) (*Summary, error) {
	counts, err := s.totalCounts(userID)
	if err != nil {
		return nil, err
	}

	pipeline, err := s.salesPipeline(userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.recentCustomers(userID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalCounts:     counts,
		SalesPipeline:   pipeline,
		RecentCustomers: recent,
	}, nil
}

func (s *Service) totalCounts(userID string) (TotalCounts, error) {
	var counts TotalCounts
	for _, q := range []struct {
		model interface{}
		kind  models.SubjectKind
		dest  *int64
	}{
		{&models.CustomerModel{}, models.KindCustomer, &counts.Customers},
		{&models.LeadModel{}, models.KindLead, &counts.Leads},
		{&models.OpportunityModel{}, models.KindOpportunity, &counts.Opportunities},
	} {
		// Owner column differs per kind; the registry binding is authoritative.
		col := registry.OwnerColumn(q.kind)
		if err := s.db.Model(q.model).Where(col+" = ?", userID).Count(q.dest).Error; err != nil {
			return TotalCounts{}, err
		}
	}
	return counts, nil
}

// salesPipeline groups the user's opportunities by stage. Ordering is
// lexicographic on the stage label, not pipeline progression, matching the
// legacy aggregation's sort on the group key.
func (s *Service) salesPipeline(userID string) ([]StageBucket, error) {
	buckets := make([]StageBucket, 0)
	err := s.db.Model(&models.OpportunityModel{}).
		Select("stage, SUM(value) AS total_value, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("stage").
		Order("stage ASC").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

func (s *Service) recentCustomers(userID string) ([]RecentCustomer, error) {
	recent := make([]RecentCustomer, 0, recentCustomerLimit)
	err := s.db.Model(&models.CustomerModel{}).
		Select("name, company").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(recentCustomerLimit).
		Scan(&recent).Error
	if err != nil {
		return nil, err
	}
	return recent, nil
}
