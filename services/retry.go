package services

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Políticas de retry para as chamadas externas designadas. Só o que
// está explicitamente envolvido em retry usa estas políticas; o resto
// falha direto.

// ExternalAPIBackoff: APIs externas (Kong, consultas de CEP).
// 3 tentativas, espera exponencial de 1s a 30s.
func ExternalAPIBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.MaxInterval = 30 * time.Second
	b.Multiplier = 2
	return backoff.WithMaxRetries(b, 3)
}

// UploadBackoff: envio de arquivos para o storage.
// 3 tentativas, espera exponencial de 2s a 60s.
func UploadBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 60 * time.Second
	b.Multiplier = 3
	return backoff.WithMaxRetries(b, 3)
}
