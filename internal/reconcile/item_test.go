package reconcile

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreenEngine() *Engine {
	return &Engine{validate: validator.New()}
}

func TestScreenAcceptsValidItem(t *testing.T) {
	e := newScreenEngine()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	d := e.screen(ItemInput{
		Protocolo:         "123456789",
		CPF:               "12345678900",
		Servico:           "Aposentadoria por idade",
		Situacao:          "Em análise",
		Nome:              "Maria da Silva",
		UltimaAtualizacao: "2026-08-28T10:30:00Z",
		DataProtocolo:     "15/03/2026",
	}, now)

	require.True(t, d.Accepted)
	assert.Equal(t, "123456789", d.Item.Protocolo)
	assert.Equal(t, time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC), d.Item.UltimaAtualizacao)
	require.True(t, d.Item.ProtocoladoEm.Valid)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d.Item.ProtocoladoEm.Time)
}

func TestScreenTrimsBeforeLengthCheck(t *testing.T) {
	e := newScreenEngine()
	now := time.Now()

	d := e.screen(ItemInput{Protocolo: "  12  ", CPF: "12345678900"}, now)
	assert.False(t, d.Accepted)
	assert.NotEmpty(t, d.Reason)

	d = e.screen(ItemInput{Protocolo: "  123456789  ", CPF: " 12345678900 "}, now)
	require.True(t, d.Accepted)
	assert.Equal(t, "123456789", d.Item.Protocolo)
	assert.Equal(t, "12345678900", d.Item.CPF)
}

func TestScreenRejectsShortFields(t *testing.T) {
	e := newScreenEngine()
	now := time.Now()

	tests := []struct {
		name string
		in   ItemInput
	}{
		{"missing protocolo", ItemInput{CPF: "12345678900"}},
		{"short protocolo", ItemInput{Protocolo: "12", CPF: "12345678900"}},
		{"missing cpf", ItemInput{Protocolo: "123456789"}},
		{"short cpf", ItemInput{Protocolo: "123456789", CPF: "1234567"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := e.screen(tc.in, now)
			assert.False(t, d.Accepted)
		})
	}
}

func TestScreenTimestampFallbacks(t *testing.T) {
	e := newScreenEngine()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// Unparseable ultimaAtualizacao falls back to now instead of blocking.
	d := e.screen(ItemInput{
		Protocolo:         "123456789",
		CPF:               "12345678900",
		UltimaAtualizacao: "ontem",
	}, now)
	require.True(t, d.Accepted)
	assert.Equal(t, now, d.Item.UltimaAtualizacao)

	// Missing dataProtocolo stays null.
	assert.False(t, d.Item.ProtocoladoEm.Valid)

	// A garbled but present dataProtocolo also falls back to now.
	d = e.screen(ItemInput{
		Protocolo:     "123456789",
		CPF:           "12345678900",
		DataProtocolo: "data inválida",
	}, now)
	require.True(t, d.Accepted)
	require.True(t, d.Item.ProtocoladoEm.Valid)
	assert.Equal(t, now, d.Item.ProtocoladoEm.Time)
}
