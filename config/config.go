package config

import "time"

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Env       string `env:"APP_ENV" env-default:"local"`
	Port      string `env:"PORT" env-default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogPretty bool   `env:"LOG_PRETTY" env-default:"false"`

	StoreDriver string `env:"STORE_DRIVER" env-default:"mongo"`

	// MongoDB collection names. Postgres tables are fixed by the migrations.
	NotesCollection string `env:"NOTES_COLLECTION" env-default:"notes"`
	UsersCollection string `env:"USERS_COLLECTION" env-default:"users"`

	Mongo    DatabaseConfig `env-prefix:"MONGO_"`
	Postgres PostgresConfig `env-prefix:"POSTGRES_"`
	Redis    RedisConfig    `env-prefix:"REDIS_"`
	JWT      JWTConfig
	HTTP     HTTPConfig `env-prefix:"HTTP_"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

type DatabaseConfig struct {
	URI             string        `env:"URI" env-default:"mongodb://localhost:27017"`
	DatabaseName    string        `env:"DB" env-default:"quicknotes"`
	MaxPoolSize     uint64        `env:"MAX_POOL_SIZE" env-default:"100"`
	MinPoolSize     uint64        `env:"MIN_POOL_SIZE" env-default:"10"`
	MaxConnIdleTime time.Duration `env:"MAX_CONN_IDLE_TIME" env-default:"60s"`
	PingAttempts    uint          `env:"PING_ATTEMPTS" env-default:"3"`
}

type PostgresConfig struct {
	DSN          string `env:"DSN"`
	PingAttempts uint   `env:"PING_ATTEMPTS" env-default:"3"`
}

type RedisConfig struct {
	// Empty means revoked tokens are tracked in process memory.
	URL string `env:"URL"`
}

type JWTConfig struct {
	SecretKey  string        `env:"JWT_SECRET_KEY" env-required:"true"`
	AccessTTL  time.Duration `env:"JWT_EXPIRATION_TIME" env-default:"1h"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_EXPIRATION_TIME" env-default:"168h"`
	Issuer     string        `env:"JWT_ISSUER" env-default:"quicknotes"`
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" env-default:"65536"`
}
