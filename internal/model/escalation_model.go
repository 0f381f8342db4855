package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Escalation struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Reason          string         `gorm:"type:text;not null"`
	Priority        string         `gorm:"type:varchar(20);not null;default:'medium'"`
	AnalysisData    datatypes.JSON `gorm:"type:jsonb"`
	AssignedAgentId *string        `gorm:"type:varchar(100)"`
	Status          string         `gorm:"type:varchar(20);not null;default:'pending';index"`
	TriggeredAt     time.Time      `gorm:"autoCreateTime"`
	HandledAt       *time.Time
}

func (Escalation) TableName() string {
	return "escalations"
}
