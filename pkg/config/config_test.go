package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.Ledger.OpTimeout)
	assert.Equal(t, 3, cfg.Ledger.MaxRetries)
	assert.Zero(t, cfg.Ledger.ReconcileInterval)
	assert.Equal(t, "none", cfg.Events.Driver)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 3*time.Second, cfg.DB.LockTimeout)
	assert.Equal(t, "cctv-stock-api", cfg.DB.ApplicationName)
}

func TestFromViper_Valores(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "MEMORY")
	v.Set("LEDGER_OP_TIMEOUT", "750ms")
	v.Set("DB_LOCK_TIMEOUT", "250ms")
	v.Set("LEDGER_MAX_RETRIES", "5")
	v.Set("RECONCILE_INTERVAL", "600")
	v.Set("EVENTS_DRIVER", "kafka")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.Ledger.OpTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.DB.LockTimeout)
	assert.Equal(t, 5, cfg.Ledger.MaxRetries)
	assert.Equal(t, 10*time.Minute, cfg.Ledger.ReconcileInterval)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
}

func TestFromViper_Invalida(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "mysql")
	_, err := FromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("EVENTS_DRIVER", "kafka")
	_, err = FromViper(v)
	assert.Error(t, err, "kafka sin brokers")

	v = viper.New()
	v.Set("LEDGER_OP_TIMEOUT", "2s")
	_, err = FromViper(v)
	assert.Error(t, err, "lock_timeout por defecto (3s) no cabe en la operación")
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "cctv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/cctv?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
