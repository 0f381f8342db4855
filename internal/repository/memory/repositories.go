package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"telecom-support-be/internal/entity"
	"telecom-support-be/internal/repository/specification"
)

// The memory repositories interpret the same specification values the
// GORM implementations pass to the query builder.

type querySpec struct {
	filters []specification.Specification
	order   *specification.OrderBy
	page    *specification.Pagination
}

func splitSpecs(specs []specification.Specification) querySpec {
	q := querySpec{}
	for _, s := range specs {
		switch v := s.(type) {
		case specification.OrderBy:
			o := v
			q.order = &o
		case specification.Pagination:
			p := v
			q.page = &p
		default:
			q.filters = append(q.filters, s)
		}
	}
	return q
}

func paginate[T any](items []T, page *specification.Pagination) []T {
	if page == nil {
		return items
	}
	start := page.Offset
	if start >= len(items) {
		return nil
	}
	end := start + page.Limit
	if page.Limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Sessions

type sessionRepository struct {
	uow *unitOfWork
}

func sessionMatches(s entity.Session, spec specification.Specification) bool {
	switch v := spec.(type) {
	case specification.ByID:
		return s.Id == v.ID
	case specification.ByRoomID:
		return s.RoomId == v.RoomID
	case specification.ByStatus:
		return string(s.Status) == v.Status
	case specification.StatusIn:
		for _, st := range v.Statuses {
			if string(s.Status) == st {
				return true
			}
		}
		return false
	case specification.FilterBy:
		switch v.Field {
		case "user_id":
			return s.UserId == v.Value
		case "status":
			return string(s.Status) == v.Value
		}
		return false
	default:
		return false
	}
}

func (r *sessionRepository) collect(specs ...specification.Specification) []*entity.Session {
	q := splitSpecs(specs)
	var out []*entity.Session
	for _, s := range r.uow.store.sessions {
		ok := true
		for _, f := range q.filters {
			if !sessionMatches(s, f) {
				ok = false
				break
			}
		}
		if ok {
			copied := s
			out = append(out, &copied)
		}
	}

	desc := q.order != nil && q.order.Desc
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return paginate(out, q.page)
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	r.uow.withLock(func() {
		if session.Id == uuid.Nil {
			session.Id = uuid.New()
		}
		if session.CreatedAt.IsZero() {
			session.CreatedAt = time.Now()
		}
		r.uow.store.sessions[session.Id] = *session
	})
	return nil
}

func (r *sessionRepository) Update(ctx context.Context, session *entity.Session) error {
	r.uow.withLock(func() {
		now := time.Now()
		session.UpdatedAt = &now
		r.uow.store.sessions[session.Id] = *session
	})
	return nil
}

func (r *sessionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var found *entity.Session
	r.uow.withLock(func() {
		if matches := r.collect(specs...); len(matches) > 0 {
			found = matches[0]
		}
	})
	return found, nil
}

func (r *sessionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var found []*entity.Session
	r.uow.withLock(func() {
		found = r.collect(specs...)
	})
	return found, nil
}

func (r *sessionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	r.uow.withLock(func() {
		n = int64(len(r.collect(specs...)))
	})
	return n, nil
}

// Escalations

type escalationRepository struct {
	uow *unitOfWork
}

func escalationMatches(e entity.Escalation, spec specification.Specification) bool {
	switch v := spec.(type) {
	case specification.ByID:
		return e.Id == v.ID
	case specification.BySessionID:
		return e.SessionId == v.SessionID
	case specification.ByStatus:
		return string(e.Status) == v.Status
	case specification.StatusIn:
		for _, st := range v.Statuses {
			if string(e.Status) == st {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (r *escalationRepository) collect(specs ...specification.Specification) []*entity.Escalation {
	q := splitSpecs(specs)
	var out []*entity.Escalation
	for _, e := range r.uow.store.escalations {
		ok := true
		for _, f := range q.filters {
			if !escalationMatches(e, f) {
				ok = false
				break
			}
		}
		if ok {
			copied := e
			out = append(out, &copied)
		}
	}

	desc := q.order != nil && q.order.Desc
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].TriggeredAt.After(out[j].TriggeredAt)
		}
		return out[i].TriggeredAt.Before(out[j].TriggeredAt)
	})

	return paginate(out, q.page)
}

func (r *escalationRepository) Create(ctx context.Context, esc *entity.Escalation) error {
	var err error
	r.uow.withLock(func() {
		// Mirror of the partial unique index on (session_id) WHERE
		// status='pending' that the migration creates on Postgres.
		if esc.Status == entity.EscalationStatusPending {
			for _, existing := range r.uow.store.escalations {
				if existing.SessionId == esc.SessionId && existing.Status == entity.EscalationStatusPending {
					err = fmt.Errorf("pending escalation already exists for session %s", esc.SessionId)
					return
				}
			}
		}
		if esc.Id == uuid.Nil {
			esc.Id = uuid.New()
		}
		if esc.TriggeredAt.IsZero() {
			esc.TriggeredAt = time.Now()
		}
		r.uow.store.escalations[esc.Id] = *esc
	})
	return err
}

func (r *escalationRepository) Update(ctx context.Context, esc *entity.Escalation) error {
	r.uow.withLock(func() {
		r.uow.store.escalations[esc.Id] = *esc
	})
	return nil
}

func (r *escalationRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Escalation, error) {
	var found *entity.Escalation
	r.uow.withLock(func() {
		if matches := r.collect(specs...); len(matches) > 0 {
			found = matches[0]
		}
	})
	return found, nil
}

func (r *escalationRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Escalation, error) {
	var found []*entity.Escalation
	r.uow.withLock(func() {
		found = r.collect(specs...)
	})
	return found, nil
}

func (r *escalationRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	r.uow.withLock(func() {
		n = int64(len(r.collect(specs...)))
	})
	return n, nil
}

func (r *escalationRepository) ResolvePendingBySession(ctx context.Context, sessionId uuid.UUID, excludeId uuid.UUID, handledAt time.Time) (int64, error) {
	var affected int64
	r.uow.withLock(func() {
		for id, e := range r.uow.store.escalations {
			if e.SessionId == sessionId && e.Id != excludeId && e.Status == entity.EscalationStatusPending {
				e.Status = entity.EscalationStatusResolved
				t := handledAt
				e.HandledAt = &t
				r.uow.store.escalations[id] = e
				affected++
			}
		}
	})
	return affected, nil
}

// Agents

type agentRepository struct {
	uow *unitOfWork
}

func agentMatches(a entity.Agent, spec specification.Specification) bool {
	switch v := spec.(type) {
	case specification.ByAvailability:
		return a.IsAvailable == v.Available
	case specification.FilterBy:
		if v.Field == "agent_id" {
			return a.AgentId == v.Value
		}
		return false
	default:
		return false
	}
}

func (r *agentRepository) collect(specs ...specification.Specification) []*entity.Agent {
	q := splitSpecs(specs)
	var out []*entity.Agent
	for _, a := range r.uow.store.agents {
		ok := true
		for _, f := range q.filters {
			if !agentMatches(a, f) {
				ok = false
				break
			}
		}
		if ok {
			copied := a
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentId < out[j].AgentId })
	return paginate(out, q.page)
}

func (r *agentRepository) Create(ctx context.Context, agent *entity.Agent) error {
	r.uow.withLock(func() {
		r.uow.store.agents[agent.AgentId] = *agent
	})
	return nil
}

func (r *agentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Agent, error) {
	var found *entity.Agent
	r.uow.withLock(func() {
		if matches := r.collect(specs...); len(matches) > 0 {
			found = matches[0]
		}
	})
	return found, nil
}

func (r *agentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Agent, error) {
	var found []*entity.Agent
	r.uow.withLock(func() {
		found = r.collect(specs...)
	})
	return found, nil
}
