package config

import (
	"fmt"
	"net"
	"net/url"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		LogFile  struct {
			Path       string `envconfig:"PATH"`
			MaxSizeMB  int    `envconfig:"MAX_SIZE_MB"  default:"50"`
			MaxBackups int    `envconfig:"MAX_BACKUPS"  default:"5"`
			MaxAgeDays int    `envconfig:"MAX_AGE_DAYS" default:"28"`
		} `envconfig:"LOG_FILE"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		BaseURL  string `envconfig:"BASE_URL"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host               string `envconfig:"HOST"`
				Port               string `envconfig:"PORT"                 default:"6379"`
				Password           string `envconfig:"PASSWORD"`
				DB                 int    `envconfig:"DB"`
				PoolSize           int    `envconfig:"POOL_SIZE"            default:"10"`
				DialTimeoutSeconds int    `envconfig:"DIAL_TIMEOUT_SECONDS" default:"5"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry               int    `envconfig:"MAX_RETRY"                 default:"5"`
			RetryWaitTime          int    `envconfig:"RETRY_WAIT_TIME"           default:"2"`
			MaxOpenConns           int    `envconfig:"MAX_OPEN_CONNS"            default:"10"`
			MaxIdleConns           int    `envconfig:"MAX_IDLE_CONNS"            default:"5"`
			ConnMaxLifetimeMinutes int    `envconfig:"CONN_MAX_LIFETIME_MINUTES" default:"30"`
			MigrationTable         string `envconfig:"MIGRATION_TABLE"`
			MigrationPath          string `envconfig:"MIGRATION_PATH"            default:"file://migrations/postgres"`
			AutoMigrate            bool   `envconfig:"AUTO_MIGRATE"`
			Read                   DBNode `envconfig:"READ"`
			Write                  DBNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	External struct {
		Otel struct {
			Enable      bool    `envconfig:"ENABLE"`
			Endpoint    string  `envconfig:"ENDPOINT"`
			SampleRatio float64 `envconfig:"SAMPLE_RATIO" default:"1"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			Region          string `envconfig:"REGION" default:"auto"`
		} `envconfig:"S3"`
		Google struct {
			ClientID          string  `envconfig:"CLIENT_ID"`
			ClientSecret      string  `envconfig:"CLIENT_SECRET"`
			RedirectURL       string  `envconfig:"REDIRECT_URL"`
			CalendarID        string  `envconfig:"CALENDAR_ID"         default:"primary"`
			StateTTLSeconds   int     `envconfig:"STATE_TTL_SECONDS"   default:"600"`
			RequestsPerSecond float64 `envconfig:"REQUESTS_PER_SECOND" default:"5"`
			SuccessRedirect   string  `envconfig:"SUCCESS_REDIRECT"`
			// Overrides for the OAuth and Calendar endpoints, empty means Google defaults.
			AuthURL     string `envconfig:"AUTH_URL"`
			TokenURL    string `envconfig:"TOKEN_URL"`
			APIEndpoint string `envconfig:"API_ENDPOINT"`
		} `envconfig:"GOOGLE"`
	} `envconfig:"EXTERNAL"`

	Mail struct {
		Enable          bool   `envconfig:"ENABLE"`
		Host            string `envconfig:"HOST"`
		Port            int    `envconfig:"PORT"             default:"587"`
		Username        string `envconfig:"USERNAME"`
		Password        string `envconfig:"PASSWORD"`
		From            string `envconfig:"FROM"`
		FromName        string `envconfig:"FROM_NAME"`
		OperatorAddress string `envconfig:"OPERATOR_ADDRESS"`
		TLS             bool   `envconfig:"TLS"              default:"true"`
		TimeoutSeconds  int    `envconfig:"TIMEOUT_SECONDS"  default:"15"`
	} `envconfig:"MAIL"`

	Kafka struct {
		Enable  bool     `envconfig:"ENABLE"`
		Brokers []string `envconfig:"BROKERS"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		ConsumerGroup string `envconfig:"CONSUMER_GROUP" default:"realty-worker"`
		Topics        struct {
			Notification string `envconfig:"NOTIFICATION" default:"realty.notifications"`
		} `envconfig:"TOPICS"`
	} `envconfig:"KAFKA"`

	Booking struct {
		Timezone    string `envconfig:"TIMEZONE"`
		SlotMinutes int    `envconfig:"SLOT_MINUTES" default:"60"`
		OpenHour    int    `envconfig:"OPEN_HOUR"    default:"9"`
		CloseHour   int    `envconfig:"CLOSE_HOUR"   default:"18"`
		LeadMinutes int    `envconfig:"LEAD_MINUTES" default:"60"`
	} `envconfig:"BOOKING"`

	Digest struct {
		Enable bool   `envconfig:"ENABLE"`
		Cron   string `envconfig:"CRON" default:"0 7 * * *"`
	} `envconfig:"DIGEST"`

	Metrics struct {
		Enable bool   `envconfig:"ENABLE"`
		Path   string `envconfig:"PATH" default:"/metrics"`
	} `envconfig:"METRICS"`
}

// DBNode is one Postgres endpoint. Read may point at a replica; an empty
// Read.Host means reads share the write connection.
type DBNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

// DSN renders the node as a postgres:// URL. extra is merged into the query.
func (n DBNode) DSN(extra url.Values) string {
	query := url.Values{"sslmode": {n.SSLMode}}
	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(n.Username, n.Password),
		Host:     net.JoinHostPort(n.Host, n.Port),
		Path:     "/" + n.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		if loadErr := godotenv.Load(".env"); loadErr != nil {
			log.Warn().Err(loadErr).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			return
		}

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("processing environment variables: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}
