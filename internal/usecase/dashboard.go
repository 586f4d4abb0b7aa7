package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

const recentLeadsLimit = 10

type DashboardUseCase struct {
	Leads    entity.LeadRepositoryInterface
	Contacts entity.ContactMessageRepositoryInterface
	Events   entity.AnalyticsEventRepositoryInterface
	now      func() time.Time
}

func NewDashboardUseCase(
	leads entity.LeadRepositoryInterface,
	contacts entity.ContactMessageRepositoryInterface,
	events entity.AnalyticsEventRepositoryInterface,
) *DashboardUseCase {
	return &DashboardUseCase{Leads: leads, Contacts: contacts, Events: events, now: utcNow}
}

// Execute gathers lead and contact status counts, the latest leads and the
// last week of analytics by event type.
func (uc *DashboardUseCase) Execute(ctx context.Context) (*DashboardOutput, error) {
	leadStats, err := uc.Leads.CountByStatus(ctx)
	if err != nil {
		return nil, storeError("count leads by status", err)
	}
	recent, err := uc.Leads.Recent(ctx, recentLeadsLimit)
	if err != nil {
		return nil, storeError("recent leads", err)
	}
	contactStats, err := uc.Contacts.CountByStatus(ctx)
	if err != nil {
		return nil, storeError("count contacts by status", err)
	}
	events, err := uc.Events.CountByType(ctx, entity.EventFilter{From: uc.now().Add(-dashboardWindow)})
	if err != nil {
		return nil, storeError("count events by type", err)
	}

	return &DashboardOutput{
		Leads:     DashboardLeads{Stats: leadStats, Recent: recent},
		Contacts:  DashboardContacts{Stats: contactStats},
		Analytics: events,
	}, nil
}
