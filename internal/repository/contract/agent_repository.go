package contract

import (
	"context"

	"telecom-support-be/internal/entity"
	"telecom-support-be/internal/repository/specification"
)

// AgentRepository is read-mostly: availability is written by an external
// administrative collaborator, this service only routes on it.
type AgentRepository interface {
	Create(ctx context.Context, agent *entity.Agent) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Agent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Agent, error)
}
