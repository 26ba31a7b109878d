// Package cache guarda en Redis la vista derivada de stock (GET /api/products/:id/status).
// La fuente de verdad sigue siendo el ledger: la cache se invalida después de cada movimiento confirmado.
//
// Por producto hay dos claves con el mismo hash tag (mismo slot en Redis Cluster):
//
//	stock:status:{<id>}  estado JSON con TTL
//	stock:gen:{<id>}     generación; Invalidate la incrementa
//
// Set es un compare-and-set sobre la generación, así un lector que leyó la base antes de un
// commit no puede pisar la invalidación de ese commit.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/application/ports"
)

var _ ports.StatusCache = (*RedisStatusCache)(nil)

const (
	statusPrefix    = "stock:status:"
	genPrefix       = "stock:gen:"
	defaultTTL      = 30 * time.Second
	genTTL          = 24 * time.Hour
	maxRetries      = 3
	minRetryBackoff = 100 * time.Millisecond
	maxRetryBackoff = 300 * time.Millisecond
	dialTimeout     = 5 * time.Second
	readTimeout     = 3 * time.Second
	writeTimeout    = 3 * time.Second
)

// Connect abre el cliente y verifica la conexión con PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              db,
		MaxRetries:      maxRetries,
		MinRetryBackoff: minRetryBackoff,
		MaxRetryBackoff: maxRetryBackoff,
		DialTimeout:     dialTimeout,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
	})
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// setIfGen guarda el estado solo si la generación no cambió. Una generación ausente vale 0.
var setIfGen = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisStatusCache implementa ports.StatusCache con un valor JSON por producto y TTL.
type RedisStatusCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStatusCache construye la cache. ttl <= 0 usa 30 s.
func NewRedisStatusCache(client redis.Cmdable, ttl time.Duration) *RedisStatusCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStatusCache{client: client, ttl: ttl}
}

func statusKey(productID string) string { return statusPrefix + "{" + productID + "}" }
func genKey(productID string) string { return genPrefix + "{" + productID + "}" }

// Get lee estado y generación en un solo MGET. Un valor corrupto cuenta como miss.
func (c *RedisStatusCache) Get(ctx context.Context, productID string) (*dto.StockStatusResponse, int64, bool, error) {
	vals, err := c.client.MGet(ctx, statusKey(productID), genKey(productID)).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("redis mget: %w", err)
	}
	var gen int64
	if raw, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, 0, false, fmt.Errorf("generación inválida %q: %w", raw, err)
		}
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, false, nil
	}
	var st dto.StockStatusResponse
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, gen, false, nil
	}
	return &st, gen, true, nil
}

// Set guarda el estado con TTL si la generación sigue siendo gen.
func (c *RedisStatusCache) Set(ctx context.Context, st *dto.StockStatusResponse, gen int64) (bool, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return false, fmt.Errorf("serializar estado: %w", err)
	}
	n, err := setIfGen.Run(ctx, c.client,
		[]string{statusKey(st.ProductID), genKey(st.ProductID)},
		gen, raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis set: %w", err)
	}
	return n == 1, nil
}

// Invalidate avanza la generación y borra el estado en una transacción MULTI/EXEC.
func (c *RedisStatusCache) Invalidate(ctx context.Context, productID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(productID))
		pipe.Expire(ctx, genKey(productID), genTTL)
		pipe.Del(ctx, statusKey(productID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}
