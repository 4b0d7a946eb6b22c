package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository  = (*CompanyRepo)(nil)
	_ repository.BranchRepository   = (*BranchRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.FunctionRepository = (*FunctionRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.ClientRepository   = (*ClientRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Empresas y sedes
// ──────────────────────────────────────────────────────────────────────────────

type CompanyRepo struct {
	s  *Store
	tx *txState
}

func cloneCompany(c entity.Company) *entity.Company {
	c.ID = strings.Clone(c.ID)
	c.Description = cloneStr(c.Description)
	c.Address = cloneStr(c.Address)
	c.UpdatedAt = cloneTime(c.UpdatedAt)
	return &c
}

func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.companies[strings.Clone(c.ID)] = *cloneCompany(*c)
	id := c.ID
	r.tx.record(func() { delete(r.s.companies, id) })
	return nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return cloneCompany(c), nil
}

func (r *CompanyRepo) List(ctx context.Context) ([]*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		out = append(out, cloneCompany(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.companies[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	r.s.companies[strings.Clone(c.ID)] = *cloneCompany(*c)
	r.tx.record(func() { r.s.companies[prev.ID] = prev })
	return nil
}

func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.companies, id)
	return nil
}

func (r *CompanyRepo) AdjustCounts(ctx context.Context, id string, branches, users int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return domain.ErrNotFound
	}
	prev := c
	c.BranchCount = max(0, c.BranchCount+branches)
	c.UserCount = max(0, c.UserCount+users)
	r.s.companies[strings.Clone(id)] = c
	r.tx.record(func() { r.s.companies[prev.ID] = prev })
	return nil
}

type BranchRepo struct {
	s  *Store
	tx *txState
}

func cloneBranch(b entity.Branch) *entity.Branch {
	b.ID = strings.Clone(b.ID)
	b.Address = cloneStr(b.Address)
	b.City = cloneStr(b.City)
	b.Phone = cloneStr(b.Phone)
	b.UpdatedAt = cloneTime(b.UpdatedAt)
	return &b
}

func (r *BranchRepo) Create(ctx context.Context, b *entity.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.branches[b.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.branches[strings.Clone(b.ID)] = *cloneBranch(*b)
	id := b.ID
	r.tx.record(func() { delete(r.s.branches, id) })
	return nil
}

func (r *BranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.branches[id]
	if !ok {
		return nil, nil
	}
	return cloneBranch(b), nil
}

func (r *BranchRepo) List(ctx context.Context) ([]*entity.Branch, error) {
	return r.filter(func(entity.Branch) bool { return true }), nil
}

func (r *BranchRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Branch, error) {
	return r.filter(func(b entity.Branch) bool { return b.CompanyID == companyID }), nil
}

func (r *BranchRepo) filter(keep func(entity.Branch) bool) []*entity.Branch {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Branch, 0)
	for _, b := range r.s.branches {
		if keep(b) {
			out = append(out, cloneBranch(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *BranchRepo) Update(ctx context.Context, b *entity.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.branches[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	r.s.branches[strings.Clone(b.ID)] = *cloneBranch(*b)
	r.tx.record(func() { r.s.branches[prev.ID] = prev })
	return nil
}

func (r *BranchRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.branches[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.s.branches, id)
	r.tx.record(func() { r.s.branches[prev.ID] = prev })
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Locaciones y funciones
// ──────────────────────────────────────────────────────────────────────────────

type LocationRepo struct {
	s *Store
}

func cloneLocation(l entity.Location) *entity.Location {
	l.ID = strings.Clone(l.ID)
	l.Description = cloneStr(l.Description)
	l.UpdatedAt = cloneTime(l.UpdatedAt)
	return &l
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.locations[l.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.locations[strings.Clone(l.ID)] = *cloneLocation(*l)
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return cloneLocation(l), nil
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	return r.ListByBranch(ctx, "")
}

func (r *LocationRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Location, 0)
	for _, l := range r.s.locations {
		if branchID == "" || l.BranchID == branchID {
			out = append(out, cloneLocation(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.locations[l.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.locations[strings.Clone(l.ID)] = *cloneLocation(*l)
	return nil
}

func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.locations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.locations, id)
	for tid, t := range r.s.tickets {
		if t.DeskID != nil && *t.DeskID == id {
			t.DeskID = nil
			r.s.tickets[tid] = t
		}
	}
	return nil
}

type FunctionRepo struct {
	s *Store
}

func cloneFunction(f entity.Function) *entity.Function {
	f.ID = strings.Clone(f.ID)
	f.Description = cloneStr(f.Description)
	f.ServiceIDs = cloneStrings(f.ServiceIDs)
	return &f
}

// checkServices se llama con s.mu tomado.
func (r *FunctionRepo) checkServices(ids []string) error {
	for _, id := range ids {
		if _, ok := r.s.services[id]; !ok {
			return domain.ErrServiceNotFound
		}
	}
	return nil
}

func (r *FunctionRepo) Create(ctx context.Context, f *entity.Function) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.functions[f.ID]; ok {
		return domain.ErrDuplicate
	}
	if err := r.checkServices(f.ServiceIDs); err != nil {
		return err
	}
	r.s.functions[strings.Clone(f.ID)] = *cloneFunction(*f)
	return nil
}

func (r *FunctionRepo) GetByID(ctx context.Context, id string) (*entity.Function, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.functions[id]
	if !ok {
		return nil, nil
	}
	return cloneFunction(f), nil
}

func (r *FunctionRepo) List(ctx context.Context) ([]*entity.Function, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Function, 0, len(r.s.functions))
	for _, f := range r.s.functions {
		out = append(out, cloneFunction(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FunctionRepo) Update(ctx context.Context, f *entity.Function) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.functions[f.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.checkServices(f.ServiceIDs); err != nil {
		return err
	}
	r.s.functions[strings.Clone(f.ID)] = *cloneFunction(*f)
	return nil
}

func (r *FunctionRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.functions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.functions, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios y clientes
// ──────────────────────────────────────────────────────────────────────────────

type UserRepo struct {
	s  *Store
	tx *txState
}

func cloneUser(u entity.User) *entity.User {
	u.ID = strings.Clone(u.ID)
	u.LastName = cloneStr(u.LastName)
	u.FunctionID = cloneStr(u.FunctionID)
	u.CompanyID = cloneStr(u.CompanyID)
	u.BranchID = cloneStr(u.BranchID)
	u.UpdatedAt = cloneTime(u.UpdatedAt)
	return &u
}

// usernameTaken se llama con s.mu tomado.
func (r *UserRepo) usernameTaken(username, exceptID string) bool {
	for _, u := range r.s.users {
		if u.ID != exceptID && u.Username == username {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; ok || r.usernameTaken(u.Username, "") {
		return domain.ErrDuplicate
	}
	r.s.users[strings.Clone(u.ID)] = *cloneUser(*u)
	id := u.ID
	r.tx.record(func() { delete(r.s.users, id) })
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	return r.filter(func(entity.User) bool { return true }), nil
}

func (r *UserRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.User, error) {
	return r.filter(func(u entity.User) bool { return u.BranchID != nil && *u.BranchID == branchID }), nil
}

func (r *UserRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error) {
	return r.filter(func(u entity.User) bool { return u.CompanyID != nil && *u.CompanyID == companyID }), nil
}

func (r *UserRepo) filter(keep func(entity.User) bool) []*entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.User, 0)
	for _, u := range r.s.users {
		if keep(u) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.usernameTaken(u.Username, u.ID) {
		return domain.ErrDuplicate
	}
	r.s.users[strings.Clone(u.ID)] = *cloneUser(*u)
	r.tx.record(func() { r.s.users[prev.ID] = prev })
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	r.tx.record(func() { r.s.users[prev.ID] = prev })
	return nil
}

type ClientRepo struct {
	s *Store
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.clients {
		if strings.EqualFold(other.Email, c.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.clients[strings.Clone(c.ID)] = *c
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ClientRepo) GetByEmail(ctx context.Context, email string) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.clients {
		if strings.EqualFold(c.Email, email) {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}
