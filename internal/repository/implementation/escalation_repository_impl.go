package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"telecom-support-be/internal/entity"
	"telecom-support-be/internal/mapper"
	"telecom-support-be/internal/model"
	"telecom-support-be/internal/repository/contract"
	"telecom-support-be/internal/repository/specification"
)

type EscalationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SupportMapper
}

func NewEscalationRepository(db *gorm.DB) contract.EscalationRepository {
	return &EscalationRepositoryImpl{
		db:     db,
		mapper: mapper.NewSupportMapper(),
	}
}

func (r *EscalationRepositoryImpl) Create(ctx context.Context, esc *entity.Escalation) error {
	m := r.mapper.EscalationToModel(esc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*esc = *r.mapper.EscalationToEntity(m)
	return nil
}

func (r *EscalationRepositoryImpl) Update(ctx context.Context, esc *entity.Escalation) error {
	m := r.mapper.EscalationToModel(esc)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*esc = *r.mapper.EscalationToEntity(m)
	return nil
}

func (r *EscalationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Escalation, error) {
	var m model.Escalation
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EscalationToEntity(&m), nil
}

func (r *EscalationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Escalation, error) {
	var models []*model.Escalation
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Escalation, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EscalationToEntity(m)
	}
	return entities, nil
}

func (r *EscalationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Escalation{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *EscalationRepositoryImpl) ResolvePendingBySession(ctx context.Context, sessionId uuid.UUID, excludeId uuid.UUID, handledAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Escalation{}).
		Where("session_id = ? AND id <> ? AND status = ?", sessionId, excludeId, string(entity.EscalationStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entity.EscalationStatusResolved),
			"handled_at": handledAt,
		})
	return result.RowsAffected, result.Error
}
