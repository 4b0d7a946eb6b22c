package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var (
	_ repository.ServiceRepository = (*ServiceRepo)(nil)
	_ repository.TicketRepository  = (*TicketRepo)(nil)
)

// ServiceRepo implementa repository.ServiceRepository.
type ServiceRepo struct {
	s  *Store
	tx *txState
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneService(svc entity.Service) *entity.Service {
	svc.ID = strings.Clone(svc.ID)
	svc.Description = cloneStr(svc.Description)
	svc.LastIssued = cloneTime(svc.LastIssued)
	return &svc
}

func (r *ServiceRepo) Create(ctx context.Context, svc *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[svc.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.services[strings.Clone(svc.ID)] = *cloneService(*svc)
	return nil
}

func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, nil
	}
	return cloneService(svc), nil
}

func (r *ServiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Service, error) {
	if err := r.tx.lock(ctx, "servicio:"+id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ServiceRepo) List(ctx context.Context, branchID string) ([]*entity.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Service, 0)
	for _, svc := range r.s.services {
		if branchID != "" && svc.BranchID != branchID {
			continue
		}
		out = append(out, cloneService(svc))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name || (out[i].Name == out[j].Name && out[i].ID < out[j].ID)
	})
	return out, nil
}

func (r *ServiceRepo) SaveCounter(ctx context.Context, svc *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.services[svc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	prev := cur
	cur.Current = svc.Current
	cur.LastIssued = cloneTime(svc.LastIssued)
	r.s.services[strings.Clone(svc.ID)] = cur
	r.tx.record(func() { r.s.services[prev.ID] = prev })
	return nil
}

func (r *ServiceRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.services[id]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Active = active
	r.s.services[strings.Clone(id)] = cur
	return nil
}

func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[id]; !ok {
		return domain.ErrNotFound
	}
	for _, t := range r.s.tickets {
		if t.ServiceID == id {
			return domain.ErrServiceHasTickets
		}
	}
	delete(r.s.services, id)
	for fid, fn := range r.s.functions {
		kept := fn.ServiceIDs[:0:0]
		for _, sid := range fn.ServiceIDs {
			if sid != id {
				kept = append(kept, sid)
			}
		}
		fn.ServiceIDs = kept
		r.s.functions[fid] = fn
	}
	return nil
}

// TicketRepo implementa repository.TicketRepository.
type TicketRepo struct {
	s  *Store
	tx *txState
}

func cloneTicket(t entity.Ticket) *entity.Ticket {
	t.ID = strings.Clone(t.ID)
	t.Notes = cloneStr(t.Notes)
	t.CalledAt = cloneTime(t.CalledAt)
	t.ClosedAt = cloneTime(t.ClosedAt)
	t.DeskID = cloneStr(t.DeskID)
	t.RequestID = cloneStr(t.RequestID)
	return &t
}

func (r *TicketRepo) Create(ctx context.Context, t *entity.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tickets[t.ID]; ok {
		return domain.ErrDuplicate
	}
	if t.RequestID != nil {
		for _, other := range r.s.tickets {
			if other.RequestID != nil && *other.RequestID == *t.RequestID {
				return domain.ErrDuplicate
			}
		}
	}
	id := strings.Clone(t.ID)
	r.s.tickets[id] = *cloneTicket(*t)
	r.s.nextSeq++
	r.s.ticketSeq[id] = r.s.nextSeq
	r.tx.record(func() {
		delete(r.s.tickets, id)
		delete(r.s.ticketSeq, id)
	})
	return nil
}

func (r *TicketRepo) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, nil
	}
	return cloneTicket(t), nil
}

func (r *TicketRepo) GetForUpdate(ctx context.Context, id string) (*entity.Ticket, error) {
	if err := r.tx.lock(ctx, "ticket:"+id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *TicketRepo) GetByRequestID(ctx context.Context, requestID string) (*entity.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.tickets {
		if t.RequestID != nil && *t.RequestID == requestID {
			return cloneTicket(t), nil
		}
	}
	return nil, nil
}

// view se llama con s.mu tomado.
func (r *TicketRepo) view(t entity.Ticket) *entity.TicketView {
	v := &entity.TicketView{Ticket: *cloneTicket(t), DeskName: entity.DeskPlaceholder}
	if svc, ok := r.s.services[t.ServiceID]; ok {
		v.ServiceName = svc.Name
	}
	if t.DeskID != nil {
		if loc, ok := r.s.locations[*t.DeskID]; ok {
			v.DeskName = loc.Name
		}
	}
	return v
}

func (r *TicketRepo) GetView(ctx context.Context, id string) (*entity.TicketView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, nil
	}
	return r.view(t), nil
}

func (r *TicketRepo) ListViewsByBranch(ctx context.Context, branchID, status string) ([]*entity.TicketView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.TicketView, 0)
	for _, t := range r.s.tickets {
		if t.BranchID != branchID || (status != "" && t.Status != status) {
			continue
		}
		out = append(out, r.view(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return r.s.ticketSeq[out[i].ID] < r.s.ticketSeq[out[j].ID]
	})
	return out, nil
}

func (r *TicketRepo) Update(ctx context.Context, t *entity.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.tickets[t.ID]
	if !ok {
		return domain.ErrNotFound
	}
	prev := cur
	cur.Status = t.Status
	cur.CalledAt = cloneTime(t.CalledAt)
	cur.ClosedAt = cloneTime(t.ClosedAt)
	cur.DeskID = cloneStr(t.DeskID)
	r.s.tickets[strings.Clone(t.ID)] = cur
	r.tx.record(func() { r.s.tickets[prev.ID] = prev })
	return nil
}

func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.tickets[id]
	if !ok {
		return domain.ErrNotFound
	}
	seq := r.s.ticketSeq[id]
	delete(r.s.tickets, id)
	delete(r.s.ticketSeq, id)
	r.tx.record(func() {
		r.s.tickets[prev.ID] = prev
		r.s.ticketSeq[prev.ID] = seq
	})
	return nil
}
