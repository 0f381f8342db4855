package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"telecom-support-be/internal/entity"
	"telecom-support-be/internal/mapper"
	"telecom-support-be/internal/model"
	"telecom-support-be/internal/repository/contract"
	"telecom-support-be/internal/repository/specification"
)

type AgentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SupportMapper
}

func NewAgentRepository(db *gorm.DB) contract.AgentRepository {
	return &AgentRepositoryImpl{
		db:     db,
		mapper: mapper.NewSupportMapper(),
	}
}

func (r *AgentRepositoryImpl) Create(ctx context.Context, agent *entity.Agent) error {
	m := r.mapper.AgentToModel(agent)
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *AgentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Agent, error) {
	var m model.Agent
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AgentToEntity(&m), nil
}

func (r *AgentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Agent, error) {
	var models []*model.Agent
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Agent, len(models))
	for i, m := range models {
		entities[i] = r.mapper.AgentToEntity(m)
	}
	return entities, nil
}
