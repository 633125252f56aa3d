package factory

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"ticketing-marketplace-backend/config"
	"ticketing-marketplace-backend/logger"
	"ticketing-marketplace-backend/marketplace"
	"ticketing-marketplace-backend/settlement"
	"ticketing-marketplace-backend/store"
	"ticketing-marketplace-backend/vault"

	"github.com/go-redis/redis"
	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

var db sync.Once
var rc sync.Once

type Factory interface {
	DB(ctx context.Context) *sql.DB
	Redis(ctx context.Context) *redis.Client
	Store(ctx context.Context) (store.Store, error)
	Settler(ctx context.Context) (marketplace.Settler, error)
}

type factory struct {
	db    *sql.DB
	redis *redis.Client
}

func NewFactory() Factory {
	return &factory{}
}

func (f *factory) DB(ctx context.Context) *sql.DB {
	var dbError error
	db.Do(func() {
		sqlDB, err := sql.Open("mysql", viper.GetString(config.DBURL))
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}

		f.db = sqlDB
		dbError = err
	})

	if dbError != nil {
		logger.Fatalf(ctx, "Could not establish connection to the DB: %+v", dbError)
	}

	return f.db
}

func (f *factory) Redis(ctx context.Context) *redis.Client {
	var redisError error
	rc.Do(func() {
		client := redis.NewClient(&redis.Options{
			Addr:     viper.GetString(config.RedisAddress),
			Password: viper.GetString(config.RedisPassword),
			DB:       viper.GetInt(config.RedisDB),
		})

		f.redis = client
		redisError = client.WithContext(ctx).Ping().Err()
	})

	if redisError != nil {
		logger.Fatalf(ctx, "Could not establish connection to redis: %+v", redisError)
	}

	return f.redis
}

// Store returns the ledger store selected by storage.driver.
func (f *factory) Store(ctx context.Context) (store.Store, error) {
	switch driver := viper.GetString(config.StorageDriver); driver {
	case store.DriverMemory:
		logger.Warnf(ctx, "store: using in-memory ledger, state is lost on restart")
		return store.NewMemory(), nil
	case store.DriverMySQL:
		s := store.NewMySQL(f.DB(ctx))
		if err := s.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		return s, nil
	case store.DriverRedis:
		return store.NewRedis(f.Redis(ctx), viper.GetString(config.RedisPrefix)), nil
	default:
		return nil, fmt.Errorf("store: unknown storage driver %q", driver)
	}
}

// Settler returns the payout backend selected by settlement.driver.
func (f *factory) Settler(ctx context.Context) (marketplace.Settler, error) {
	switch driver := viper.GetString(config.SettlementDriver); driver {
	case settlement.DriverLog:
		return settlement.NewLog(), nil
	case settlement.DriverAlgorand:
		account, err := f.escrowAccount()
		if err != nil {
			return nil, fmt.Errorf("settler: %w", err)
		}
		return settlement.NewAlgorand(
			account,
			viper.GetString(config.ApiAddress),
			viper.GetString(config.ApiKey),
			viper.GetUint64(config.AmountFactor),
			viper.GetUint64(config.MinFee),
		), nil
	default:
		return nil, fmt.Errorf("settler: unknown settlement driver %q", driver)
	}
}

// escrowAccount reads the payer from vault when one is configured and falls
// back to the algorand.* keys otherwise.
func (f *factory) escrowAccount() (*settlement.Account, error) {
	if viper.GetString(config.VaultAddress) == "" {
		return &settlement.Account{
			AccountAddress:     viper.GetString(config.FromAddress),
			SecurityPassphrase: viper.GetString(config.FromSecurityParaphrase),
		}, nil
	}

	v, err := vault.New(
		viper.GetString(config.VaultToken),
		viper.GetString(config.VaultAddress),
		viper.GetString(config.VaultEscrowPath),
	)
	if err != nil {
		return nil, err
	}
	return v.EscrowAccount()
}
