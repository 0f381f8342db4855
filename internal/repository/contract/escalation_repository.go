package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"telecom-support-be/internal/entity"
	"telecom-support-be/internal/repository/specification"
)

type EscalationRepository interface {
	Create(ctx context.Context, esc *entity.Escalation) error
	Update(ctx context.Context, esc *entity.Escalation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Escalation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Escalation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ResolvePendingBySession marks every pending escalation of the session,
	// except excludeId, as resolved with the given handled timestamp. It is
	// the supersession step and must run inside the caller's transaction.
	ResolvePendingBySession(ctx context.Context, sessionId uuid.UUID, excludeId uuid.UUID, handledAt time.Time) (int64, error)
}
