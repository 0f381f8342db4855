package unitofwork

import (
	"context"

	"telecom-support-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. Begin
// opens the transactional boundary required by the supersession invariant:
// a concurrent reader observes either the full effect of a recorded
// escalation or none of it.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	EscalationRepository() contract.EscalationRepository
	AgentRepository() contract.AgentRepository
}
