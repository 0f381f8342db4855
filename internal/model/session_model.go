package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoomId    string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	UserId    string    `gorm:"type:varchar(100);not null;index"`
	UserName  string    `gorm:"type:varchar(255)"`
	AgentId   *string   `gorm:"type:varchar(100)"`
	Status    string    `gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Session) TableName() string {
	return "support_sessions"
}
