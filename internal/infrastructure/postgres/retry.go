package postgres

import (
	"time"

	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// RetryPolicy reintentos con backoff exponencial acotado para errores
// transitorios de red. Solo lecturas: las secuencias de escritura corren en
// transacción y el reintento es decisión del llamador.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	Log       *logger.Logger
}

// Do ejecuta fn hasta Attempts veces, duplicando la espera entre intentos.
// Errores no transitorios se devuelven de inmediato.
func (p RetryPolicy) Do(op string, fn func() error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := p.BaseDelay
	if delay <= 0 {
		delay = 250 * time.Millisecond
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		if p.Log != nil {
			p.Log.Warn().Err(err).Str("op", op).Int("attempt", i+1).Msg("error transitorio, reintentando")
		}
		time.Sleep(delay)
		delay *= 2
	}
	return err
}
