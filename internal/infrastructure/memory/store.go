// Package memory implementa todos los repositorios y el runner de transacciones en memoria.
// Sirve para correr la API sin base de datos y como doble en los tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// Store guarda copias de las entidades; nunca entrega punteros a su estado interno.
// Las claves se copian con strings.Clone porque los ids pueden venir de buffers
// que el servidor HTTP reutiliza entre peticiones.
type Store struct {
	mu        sync.RWMutex
	companies map[string]entity.Company
	branches  map[string]entity.Branch
	services  map[string]entity.Service
	tickets   map[string]entity.Ticket
	locations map[string]entity.Location
	functions map[string]entity.Function
	users     map[string]entity.User
	clients   map[string]entity.Client

	// orden de inserción de cada ticket; desempata tickets con la misma hora de creación.
	ticketSeq map[string]uint64
	nextSeq   uint64

	locksMu sync.Mutex
	locks   map[string]*rowLock
}

// rowLock es un bloqueo de fila con cuenta de interesados; se borra del mapa
// cuando nadie lo tiene ni lo espera.
type rowLock struct {
	ch   chan struct{}
	refs int
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		companies: make(map[string]entity.Company),
		branches:  make(map[string]entity.Branch),
		services:  make(map[string]entity.Service),
		tickets:   make(map[string]entity.Ticket),
		locations: make(map[string]entity.Location),
		functions: make(map[string]entity.Function),
		users:     make(map[string]entity.User),
		clients:   make(map[string]entity.Client),
		ticketSeq: make(map[string]uint64),
		locks:     make(map[string]*rowLock),
	}
}

func (s *Store) acquireRef(key string) *rowLock {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &rowLock{ch: make(chan struct{}, 1)}
		s.locks[key] = l
	}
	l.refs++
	return l
}

func (s *Store) releaseRef(key string, l *rowLock) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, key)
	}
}

// lockCount devuelve cuántos bloqueos de fila siguen registrados.
func (s *Store) lockCount() int {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	return len(s.locks)
}

// txState acumula los bloqueos de fila y las operaciones para deshacer de una transacción.
type txState struct {
	store *Store
	held  map[string]*rowLock
	undo  []func()
}

func (s *Store) begin() *txState {
	return &txState{store: s, held: make(map[string]*rowLock)}
}

// lock toma el bloqueo exclusivo de key hasta el fin de la transacción.
func (tx *txState) lock(ctx context.Context, key string) error {
	if tx == nil {
		return nil
	}
	if _, ok := tx.held[key]; ok {
		return nil
	}
	l := tx.store.acquireRef(key)
	select {
	case l.ch <- struct{}{}:
		tx.held[key] = l
		return nil
	case <-ctx.Done():
		tx.store.releaseRef(key, l)
		return ctx.Err()
	}
}

// record registra cómo deshacer una escritura. Se llama con s.mu tomado.
func (tx *txState) record(fn func()) {
	if tx != nil {
		tx.undo = append(tx.undo, fn)
	}
}

func (tx *txState) rollback() {
	tx.store.mu.Lock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.store.mu.Unlock()
	tx.undo = nil
}

func (tx *txState) release() {
	for key, l := range tx.held {
		<-l.ch
		tx.store.releaseRef(key, l)
	}
	tx.held = nil
}

func (s *Store) run(fn func(tx *txState) error) error {
	tx := s.begin()
	defer tx.release()
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// RunQueue ejecuta fn con repositorios de servicios y tickets atados a una transacción.
// GetForUpdate bloquea la fila hasta que fn termina; si fn falla se deshacen sus escrituras.
func (s *Store) RunQueue(ctx context.Context, fn func(
	services repository.ServiceRepository,
	tickets repository.TicketRepository,
) error) error {
	return s.run(func(tx *txState) error {
		return fn(&ServiceRepo{s: s, tx: tx}, &TicketRepo{s: s, tx: tx})
	})
}

// RunCatalog ejecuta fn con repositorios de empresas, sedes y usuarios en una transacción.
func (s *Store) RunCatalog(ctx context.Context, fn func(
	companies repository.CompanyRepository,
	branches repository.BranchRepository,
	users repository.UserRepository,
) error) error {
	return s.run(func(tx *txState) error {
		return fn(&CompanyRepo{s: s, tx: tx}, &BranchRepo{s: s, tx: tx}, &UserRepo{s: s, tx: tx})
	})
}

// Repos construye los repositorios sin transacción sobre s.
func (s *Store) Repos() Repos {
	return Repos{
		Companies: &CompanyRepo{s: s},
		Branches:  &BranchRepo{s: s},
		Services:  &ServiceRepo{s: s},
		Tickets:   &TicketRepo{s: s},
		Locations: &LocationRepo{s: s},
		Functions: &FunctionRepo{s: s},
		Users:     &UserRepo{s: s},
		Clients:   &ClientRepo{s: s},
	}
}

// Repos agrupa los repositorios en memoria.
type Repos struct {
	Companies *CompanyRepo
	Branches  *BranchRepo
	Services  *ServiceRepo
	Tickets   *TicketRepo
	Locations *LocationRepo
	Functions *FunctionRepo
	Users     *UserRepo
	Clients   *ClientRepo
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.Clone(*p)
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
