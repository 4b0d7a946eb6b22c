package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroker_PublicaSoloAlTicket(t *testing.T) {
	b := NewBroker()
	a, cancelA := b.Subscribe("t-a")
	defer cancelA()
	other, cancelOther := b.Subscribe("t-b")
	defer cancelOther()

	b.Publish("t-a")

	assert.Len(t, a, 1)
	assert.Len(t, other, 0)
}

func TestBroker_NoBloqueaConBufferLleno(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe("t-a")
	defer cancel()

	for i := 0; i < 10; i++ {
		b.Publish("t-a")
	}
	assert.Len(t, ch, 1)
}

func TestBroker_CancelarEsIdempotente(t *testing.T) {
	b := NewBroker()
	_, cancel := b.Subscribe("t-a")
	_, cancel2 := b.Subscribe("t-a")
	assert.Equal(t, 2, b.Subscribers("t-a"))

	cancel()
	cancel()
	assert.Equal(t, 1, b.Subscribers("t-a"))

	cancel2()
	assert.Equal(t, 0, b.Subscribers("t-a"))
	b.Publish("t-a")
}
