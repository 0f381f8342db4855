package dashboard

import (
	"context"

	"telecom-support-be/internal/dto"
	"telecom-support-be/internal/entity"
	"telecom-support-be/internal/pkg/logger"
	"telecom-support-be/internal/repository/specification"
	"telecom-support-be/internal/repository/unitofwork"
	"telecom-support-be/pkg/escalation"
)

// Aggregator computes read-only statistics over sessions and
// escalations. It never mutates state and needs no session locks.
type Aggregator struct {
	logger logger.ILogger
}

// NewAggregator creates a new dashboard aggregator
func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GetStats retrieves dashboard statistics
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.DashboardStats, error) {
	stats := &dto.DashboardStats{
		Sessions:             make(map[string]int),
		Escalations:          make(map[string]int),
		EscalationPriorities: make(map[string]int),
	}

	sessionStatuses := []entity.SessionStatus{
		entity.SessionStatusActive,
		entity.SessionStatusEscalated,
		entity.SessionStatusClosed,
	}
	for _, status := range sessionStatuses {
		count, err := uow.SessionRepository().Count(ctx, specification.ByStatus{Status: string(status)})
		if err != nil {
			return nil, err
		}
		stats.Sessions[string(status)] = int(count)
	}

	escalationStatuses := []entity.EscalationStatus{
		entity.EscalationStatusPending,
		entity.EscalationStatusHandled,
		entity.EscalationStatusResolved,
	}
	for _, status := range escalationStatuses {
		count, err := uow.EscalationRepository().Count(ctx, specification.ByStatus{Status: string(status)})
		if err != nil {
			return nil, err
		}
		stats.Escalations[string(status)] = int(count)
	}

	// Priority and time-to-handle come from one scan over the handled
	// and pending sets rather than per-priority queries.
	all, err := uow.EscalationRepository().FindAll(ctx,
		specification.OrderBy{Field: "triggered_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	var handledCount int
	var handledSeconds float64
	for _, esc := range all {
		stats.EscalationPriorities[string(esc.Priority)]++
		if esc.Status == entity.EscalationStatusHandled && esc.HandledAt != nil {
			handledCount++
			handledSeconds += esc.HandledAt.Sub(esc.TriggeredAt).Seconds()
		}
	}
	if handledCount > 0 {
		stats.AvgHandleSeconds = handledSeconds / float64(handledCount)
	}

	recent, err := uow.EscalationRepository().FindAll(ctx,
		specification.ByStatus{Status: string(entity.EscalationStatusPending)},
		specification.OrderBy{Field: "triggered_at", Desc: true},
		specification.Pagination{Limit: 5},
	)
	if err != nil {
		return nil, err
	}
	for _, esc := range recent {
		stats.RecentPending = append(stats.RecentPending, dto.EscalationResponse{
			Id:              esc.Id,
			SessionId:       esc.SessionId,
			Reason:          esc.Reason,
			Priority:        string(esc.Priority),
			AssignedAgentId: esc.AssignedAgentId,
			Status:          string(esc.Status),
			TriggeredAt:     esc.TriggeredAt,
			HandledAt:       esc.HandledAt,
		})
	}

	return stats, nil
}

// PriorityBreakdown counts pending escalations per priority tier.
func (a *Aggregator) PriorityBreakdown(ctx context.Context, uow unitofwork.UnitOfWork) (map[string]int, error) {
	pending, err := uow.EscalationRepository().FindAll(ctx,
		specification.ByStatus{Status: string(entity.EscalationStatusPending)},
	)
	if err != nil {
		return nil, err
	}

	breakdown := map[string]int{
		string(escalation.PriorityLow):      0,
		string(escalation.PriorityMedium):   0,
		string(escalation.PriorityHigh):     0,
		string(escalation.PriorityCritical): 0,
	}
	for _, esc := range pending {
		breakdown[string(esc.Priority)]++
	}
	return breakdown, nil
}
