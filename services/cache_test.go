package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// Sem Redis configurado o cache vira no-op: nada pode entrar em pânico
// e toda leitura é miss.
func TestCacheWithoutRedis(t *testing.T) {
	cache := NewCache(nil, zerolog.Nop())
	ctx := context.Background()

	var dest []string
	assert.False(t, cache.GetJSON(ctx, CacheKeyCategoryTree, &dest))

	cache.SetJSON(ctx, CacheKeyCategoryTree, []string{"a"})
	cache.Invalidate(ctx, CacheKeyCategoryTree, CacheKeyPopularTags)

	assert.False(t, cache.GetJSON(ctx, CacheKeyCategoryTree, &dest))
}
