package config

import (
	"github.com/spf13/viper"
)

const (
	Port               = "server.port"
	JWTOfflineInterval = "server.jwt_offline_interval"
	Secret             = "server.secret"

	LogLevel = "log.level"
	LogJSON  = "log.json"

	StorageDriver = "storage.driver"

	DBURL = "database.mysql"

	RedisAddress  = "redis.address"
	RedisPassword = "redis.password"
	RedisDB       = "redis.db"
	RedisPrefix   = "redis.prefix"

	SettlementDriver = "settlement.driver"

	FromAddress            = "algorand.from_address"
	FromSecurityParaphrase = "algorand.from_security_paraphrase"
	ApiAddress             = "algorand.api_address"
	ApiKey                 = "algorand.api_key"
	AmountFactor           = "algorand.amount_factor"
	MinFee                 = "algorand.min_fee"

	VaultAddress    = "vault.address"
	VaultToken      = "vault.token"
	VaultEscrowPath = "vault.escrow_path"
)

func init() {
	viper.AutomaticEnv()
	viper.SetDefault(Port, "9000")
	viper.SetDefault(JWTOfflineInterval, 120)
	viper.SetDefault(LogLevel, "info")
	viper.SetDefault(LogJSON, false)
	viper.SetDefault(StorageDriver, "memory")
	viper.SetDefault(RedisPrefix, "ledger")
	viper.SetDefault(SettlementDriver, "log")
	viper.SetDefault(AmountFactor, 1)
	viper.SetDefault(MinFee, 1000)
}
