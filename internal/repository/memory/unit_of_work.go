package memory

import (
	"context"
	"fmt"

	"telecom-support-be/internal/repository/contract"
	"telecom-support-be/internal/repository/unitofwork"
)

type Factory struct {
	store *Store
}

func NewRepositoryFactory() *Factory {
	return &Factory{store: NewStore()}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// Store exposes the backing store so tests can seed it directly.
func (f *Factory) Store() *Store {
	return f.store
}

// unitOfWork holds the store mutex between Begin and Commit/Rollback,
// which makes a transaction both atomic and serialized. Outside a
// transaction each repository call locks individually.
type unitOfWork struct {
	store *Store
	inTx  bool
	snap  *snapshot
}

var _ unitofwork.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	u.store.mu.Lock()
	u.snap = u.store.take()
	u.inTx = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.snap = nil
	u.inTx = false
	u.store.mu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to rollback")
	}
	u.store.restore(u.snap)
	u.snap = nil
	u.inTx = false
	u.store.mu.Unlock()
	return nil
}

// withLock runs fn under the store mutex unless a transaction already
// holds it.
func (u *unitOfWork) withLock(fn func()) {
	if u.inTx {
		fn()
		return
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	fn()
}

func (u *unitOfWork) SessionRepository() contract.SessionRepository {
	return &sessionRepository{uow: u}
}

func (u *unitOfWork) EscalationRepository() contract.EscalationRepository {
	return &escalationRepository{uow: u}
}

func (u *unitOfWork) AgentRepository() contract.AgentRepository {
	return &agentRepository{uow: u}
}
