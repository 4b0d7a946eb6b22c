package queue

import "sync"

// Broker reparte señales de cambio por id de ticket a los canales en vivo suscritos.
// Publish nunca bloquea: cada suscriptor tiene buffer de una señal y las extra se descartan,
// porque el suscriptor siempre relee el estado completo.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan struct{}]struct{}
}

var _ Notifier = (*Broker)(nil)

// NewBroker crea un broker vacío.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe registra interés en ticketID. La función devuelta cancela la suscripción.
func (b *Broker) Subscribe(ticketID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	set, ok := b.subs[ticketID]
	if !ok {
		set = make(map[chan struct{}]struct{})
		b.subs[ticketID] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(set, ch)
			if len(set) == 0 {
				delete(b.subs, ticketID)
			}
		})
	}
}

// Publish señala a los suscriptores de ticketID.
func (b *Broker) Publish(ticketID string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[ticketID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers devuelve cuántos suscriptores activos tiene ticketID.
func (b *Broker) Subscribers(ticketID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[ticketID])
}
