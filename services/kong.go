package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const (
	kongServiceName = "nit-api"
	kongRouteName   = "nit-api-route"
)

// KongClient fala com a Admin API do Kong: health check e registro do
// serviço/rota na subida do processo. Todas as chamadas têm timeout
// finito; o registro usa retry exponencial.
type KongClient struct {
	AdminURL   string
	GatewayURL string

	httpClient *http.Client
	log        zerolog.Logger
}

func NewKongClient(adminURL, gatewayURL string, timeout time.Duration, log zerolog.Logger) *KongClient {
	return &KongClient{
		AdminURL:   adminURL,
		GatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "kong").Logger(),
	}
}

// Configured informa se a integração com o gateway está habilitada.
func (k *KongClient) Configured() bool {
	return k.AdminURL != ""
}

// Health verifica se a Admin API responde.
func (k *KongClient) Health(ctx context.Context) error {
	if !k.Configured() {
		return errors.New("KONG_ADMIN_URL não configurado")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.AdminURL+"/status", nil)
	if err != nil {
		return err
	}

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Kong não está acessível: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Kong Admin API não está respondendo (status %d)", resp.StatusCode)
	}
	return nil
}

// RegisterService garante o serviço e a rota da API no gateway.
// Idempotente: o Kong responde 409 quando já existem.
func (k *KongClient) RegisterService(ctx context.Context, upstreamURL string) error {
	if !k.Configured() {
		return nil
	}

	err := k.putJSON(ctx, "/services/"+kongServiceName, map[string]any{
		"name": kongServiceName,
		"url":  upstreamURL,
	})
	if err != nil {
		return fmt.Errorf("registro do serviço no Kong falhou: %w", err)
	}

	err = k.putJSON(ctx, "/services/"+kongServiceName+"/routes/"+kongRouteName, map[string]any{
		"name":  kongRouteName,
		"paths": []string{"/api"},
	})
	if err != nil {
		return fmt.Errorf("registro da rota no Kong falhou: %w", err)
	}

	k.log.Info().Str("service", kongServiceName).Msg("serviço registrado no Kong")
	return nil
}

// EnsureConsumers garante os consumers do gateway. Também idempotente.
func (k *KongClient) EnsureConsumers(ctx context.Context, usernames []string) error {
	if !k.Configured() {
		return nil
	}

	for _, username := range usernames {
		if username == "" {
			continue
		}
		err := k.putJSON(ctx, "/consumers/"+username, map[string]any{
			"username":  username,
			"custom_id": username,
		})
		if err != nil {
			return fmt.Errorf("registro do consumer %q no Kong falhou: %w", username, err)
		}
		k.log.Info().Str("consumer", username).Msg("consumer garantido no Kong")
	}
	return nil
}

// RegisterWithRetry tenta o registro com backoff exponencial; na
// subida o Kong pode ainda estar inicializando.
func (k *KongClient) RegisterWithRetry(ctx context.Context, upstreamURL string, consumers []string) error {
	policy := backoff.WithContext(ExternalAPIBackoff(), ctx)
	return backoff.RetryNotify(
		func() error {
			if err := k.RegisterService(ctx, upstreamURL); err != nil {
				return err
			}
			return k.EnsureConsumers(ctx, consumers)
		},
		policy,
		func(err error, wait time.Duration) {
			k.log.Warn().Err(err).Dur("retry_in", wait).Msg("registro no Kong falhou, tentando de novo")
		},
	)
}

func (k *KongClient) putJSON(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, k.AdminURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 409: recurso já existe, nada a fazer
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("Kong Admin API retornou status %d para %s", resp.StatusCode, path)
	}
	return nil
}
