// api/config/config.go
package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Auth          AuthConfiguration
	Tokens        TokenConfiguration
	Valet         ValetConfiguration
	Breaker       BreakerConfiguration
	Cache         CacheConfiguration
	Queue         QueueConfiguration
	Storage       StorageConfiguration
	Postgres      PostgresConfiguration
	Neo4j         DatabaseConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
	Audit         AuditConfiguration
	RateLimit     RateLimitConfiguration
	Services      ServicesConfiguration
}

// ServerConfiguration stores the port and the role this process plays in
// the fleet (usuarios, proyectos, tareas, gateway or monolith).
type ServerConfiguration struct {
	Port string
	Role string
}

// AuthConfiguration holds the gatekeeper secrets
type AuthConfiguration struct {
	MasterKey            string
	InternalServiceToken string
}

type TokenConfiguration struct {
	TTL         time.Duration
	FallbackTTL time.Duration
	InternalTTL time.Duration
}

type ValetConfiguration struct {
	DefaultTTLHours float64
}

type BreakerConfiguration struct {
	FailThreshold int
	ResetTimeout  time.Duration
	CallTimeout   time.Duration
}

type CacheConfiguration struct {
	RecordTTL time.Duration
}

type QueueConfiguration struct {
	Key               string
	ProcessingDelay   time.Duration
	AutoDrainInterval time.Duration
	LockTTL           time.Duration
}

// StorageConfiguration selects the record store backend: file, postgres or neo4j
type StorageConfiguration struct {
	Driver  string
	DataDir string
}

type PostgresConfiguration struct {
	DSN string
}

// DatabaseConfiguration stores data for database connection
type DatabaseConfiguration struct {
	URI      string
	Username string
	Password string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr          string
	Password      string
	DB            int
	EncryptionKey string
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL string
}

type AuditConfiguration struct {
	Enabled bool
}

type RateLimitConfiguration struct {
	Requests int
	Window   time.Duration
}

// ServicesConfiguration stores the base URLs of sibling services
type ServicesConfiguration struct {
	Usuarios  string
	Proyectos string
	Tareas    string
}

var config *Configuration

// BindFlags registers the command-line flags that override config keys.
func BindFlags(fs *pflag.FlagSet) error {
	fs.String("config", "", "path to a config file")
	fs.String("service", "monolith", "service role: usuarios, proyectos, tareas, gateway or monolith")
	fs.String("port", "", "HTTP port")
	fs.String("log-dir", "logging", "directory for log files")
	fs.String("log-level", "info", "log level: debug, info, warn or error")

	for key, flag := range map[string]string{
		"server.role": "service",
		"server.port": "port",
		"log.dir":     "log-dir",
		"log.level":   "log-level",
		"config":      "config",
	} {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func SetDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.role", "monolith")
	viper.SetDefault("log.dir", "logging")
	viper.SetDefault("log.level", "info")

	viper.SetDefault("auth.masterKey", "supersecreta123")
	viper.SetDefault("auth.internalServiceToken", "internal-service-token-2024")

	viper.SetDefault("tokens.ttl", "24h")
	viper.SetDefault("tokens.fallbackTTL", "1h")
	viper.SetDefault("tokens.internalTTL", "8760h")
	viper.SetDefault("valet.defaultTTLHours", 1)

	viper.SetDefault("breaker.failThreshold", 3)
	viper.SetDefault("breaker.resetTimeout", "10s")
	viper.SetDefault("breaker.callTimeout", "2s")

	viper.SetDefault("cache.recordTTL", "30s")

	viper.SetDefault("queue.key", "tareas_pendientes")
	viper.SetDefault("queue.processingDelay", "2s")
	viper.SetDefault("queue.autoDrainInterval", "0s")
	viper.SetDefault("queue.lockTTL", "5m")

	viper.SetDefault("storage.driver", "file")
	viper.SetDefault("storage.dataDir", "data")
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("audit.enabled", false)

	viper.SetDefault("ratelimit.requests", 100)
	viper.SetDefault("ratelimit.window", "1m")

	viper.SetDefault("services.usuarios", "http://usuarios-service:5001")
	viper.SetDefault("services.proyectos", "http://proyectos-service:5002")
	viper.SetDefault("services.tareas", "http://tareas-service:5003")
}

func InitConfig() error {
	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config") // path to look for the config file in
		viper.SetConfigName("config") // name of the config file (without extension)
		viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	SetDefaults()

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	if err := viper.Unmarshal(&config); err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 retrieves a float64 value from the configuration
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
