package config

import (
	"time"

	"github.com/spf13/viper"
)

// StorageBackend selects where uploaded book files are kept.
type StorageBackend string

const (
	StorageBackendLocal StorageBackend = "local" // Local filesystem under the upload dir
	StorageBackendS3    StorageBackend = "s3"    // MinIO/S3-compatible object storage
)

const DefaultDatabasePath = "./bookden.db"

type (
	Config struct {
		HTTP
		Database
		Auth
		Storage
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Driver string // "sqlite" or "postgres"
		Path   string // SQLite database file path
		DSN    string // Postgres connection string
	}
	Auth struct {
		TokenSecret string        // HMAC signing secret, required at startup
		TokenExpiry time.Duration // Lifetime of issued tokens
		BcryptCost  int
	}
	Storage struct {
		Backend       StorageBackend
		UploadDir     string // Directory for the local backend
		PublicBaseURL string // Base URL prepended to stored file references

		S3Endpoint  string
		S3AccessKey string
		S3SecretKey string
		S3Bucket    string
		S3UseSSL    bool
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")

	// Auth defaults. The signing secret deliberately has no default:
	// startup fails without JWT_SECRET.
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_expiry", "168h") // 7 days
	v.SetDefault("bcrypt_cost", 10)

	// Storage defaults
	v.SetDefault("storage_backend", "local")
	v.SetDefault("upload_dir", "./uploads/books")
	v.SetDefault("public_base_url", "")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_access_key", "")
	v.SetDefault("s3_secret_key", "")
	v.SetDefault("s3_bucket", "bookden")
	v.SetDefault("s3_use_ssl", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("port"),
			Host: v.GetString("host"),
		},
		Database: Database{
			Driver: v.GetString("database_driver"),
			Path:   v.GetString("database_path"),
			DSN:    v.GetString("database_dsn"),
		},
		Auth: Auth{
			TokenSecret: v.GetString("jwt_secret"),
			TokenExpiry: v.GetDuration("token_expiry"),
			BcryptCost:  v.GetInt("bcrypt_cost"),
		},
		Storage: Storage{
			Backend:       StorageBackend(v.GetString("storage_backend")),
			UploadDir:     v.GetString("upload_dir"),
			PublicBaseURL: v.GetString("public_base_url"),
			S3Endpoint:    v.GetString("s3_endpoint"),
			S3AccessKey:   v.GetString("s3_access_key"),
			S3SecretKey:   v.GetString("s3_secret_key"),
			S3Bucket:      v.GetString("s3_bucket"),
			S3UseSSL:      v.GetBool("s3_use_ssl"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
	}
}
