package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prefixos das chaves de cache.
const (
	CacheKeyCategoryTree = "nit:categories:tree"
	CacheKeyPopularTags  = "nit:tags:popular"
)

const cacheTTL = time.Hour

// Cache é o cache compartilhado opcional. Redis ausente é aceito em
// silêncio: todos os métodos viram no-op. Entradas dependentes de
// dados são invalidadas (removidas) na escrita, nunca atualizadas.
type Cache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewCache(client *redis.Client, log zerolog.Logger) *Cache {
	return &Cache{client: client, log: log.With().Str("component", "cache").Logger()}
}

// GetJSON carrega uma entrada no destino. Retorna false em miss,
// cache desabilitado ou erro.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("leitura do cache falhou")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("entrada de cache corrompida")
		return false
	}
	return true
}

// SetJSON grava uma entrada com o TTL padrão. Erros só geram warning.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("escrita no cache falhou")
	}
}

// Invalidate remove as chaves informadas.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Msg("invalidação de cache falhou")
	}
}
