package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByRoomID filters sessions by their room identifier.
type ByRoomID struct {
	RoomID string
}

func (s ByRoomID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("room_id = ?", s.RoomID)
}

// BySessionID filters escalations belonging to one session.
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByStatus filters by lifecycle status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// StatusIn filters by a set of statuses.
type StatusIn struct {
	Statuses []string
}

func (s StatusIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", s.Statuses)
}

// ByAvailability filters agents on the is_available flag.
type ByAvailability struct {
	Available bool
}

func (s ByAvailability) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_available = ?", s.Available)
}
