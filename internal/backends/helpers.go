package backends

import (
	"clientbook/internal/backends/ddb"
	"clientbook/internal/backends/file"
	"clientbook/internal/backends/memory"
	"clientbook/internal/backends/postgres"
	"clientbook/internal/backends/s3"
	"clientbook/internal/backends/sqlite"
	"clientbook/internal/ports"
	"clientbook/internal/types"
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	redisbackend "clientbook/internal/backends/redis"
)

const (
	SlotBackendEnvKey = "SLOT_BACKEND"
	SlotNameEnvKey    = "SLOT_NAME"
	SlotCompressKey   = "SLOT_COMPRESS"
	DefaultSlotName   = "crm_clients"

	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendDDB      = "ddb"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"

	FileSlotDirKey = "FILE_SLOT_DIR"

	DDBEndpointKey = "DDB_ENDPOINT"
	DDBTableKey    = "DDB_TABLE"

	RedisHost  = "REDIS_HOST"
	RedisPort  = "REDIS_PORT"
	RedisUser  = "REDIS_USER"
	RedisPass  = "REDIS_PASS"
	RedisTLS   = "REDIS_SSL"
	RedisDBNum = "REDIS_DB_NUM"

	SQLitePathKey  = "SQLITE_PATH"
	PostgresDSNKey = "POSTGRES_DSN"

	S3BucketKey    = "S3_BUCKET"
	S3RegionKey    = "S3_REGION"
	S3EndpointKey  = "S3_ENDPOINT"
	S3PathStyleKey = "S3_PATH_STYLE"
)

// SlotBackendFromEnv constructs the client slot based on environment variables.
// It first checks "SLOT_BACKEND" to pick the backend (default "file"), then reads the
// backend's own variables. "SLOT_COMPRESS=zstd" wraps the result in a CompressedSlot.
// An unknown backend name yields types.ErrInvalidBackend.
func SlotBackendFromEnv(ctx context.Context) (slot ports.SlotStore, err error) {
	backend := getenv(SlotBackendEnvKey, BackendFile)
	name := getenv(SlotNameEnvKey, DefaultSlotName)
	switch backend {
	case BackendMemory:
		slot = memory.NewSlot()

	case BackendFile:
		slot, err = file.NewSlot(getenv(FileSlotDirKey, "./data"), name)

	case BackendRedis:
		var redisClient *redis.Client
		redisClient, err = redisClientFromEnv(ctx)
		if err != nil {
			return nil, err
		}
		slot = redisbackend.NewSlot(redisClient, name)

	case BackendDDB:
		var ddbClient *dynamodb.Client
		ddbClient, err = ddbClientFromEnv(ctx)
		if err != nil {
			return nil, err
		}
		slot, err = ddb.NewSlot(ctx, getenv(DDBTableKey, "clientbook"), name, ddbClient)

	case BackendSQLite:
		slot, err = sqlite.Open(getenv(SQLitePathKey, "./data/clientbook.db"), name)

	case BackendPostgres:
		dsn := os.Getenv(PostgresDSNKey)
		if dsn == "" {
			return nil, types.Err(types.ErrInvalidBackend, nil, "%s required for postgres backend", PostgresDSNKey)
		}
		slot, err = postgres.Open(ctx, dsn, name)

	case BackendS3:
		slot, err = s3.New(ctx, s3.Config{
			Region:          getenv(S3RegionKey, getenv("AWS_REGION", "us-east-1")),
			Bucket:          os.Getenv(S3BucketKey),
			Key:             name + ".json",
			Endpoint:        os.Getenv(S3EndpointKey),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			PathStyle:       parseBoolean(getenv(S3PathStyleKey, "false")),
		})

	default:
		return nil, types.Err(types.ErrInvalidBackend, nil, "unknown slot backend %q", backend)
	}
	if err != nil {
		return nil, types.Err(types.ErrInvalidBackend, err, "open %s slot", backend)
	}
	if strings.EqualFold(os.Getenv(SlotCompressKey), "zstd") {
		slot = Compressed(slot)
	}
	log.WithFields(log.Fields{"backend": backend, "slot": name}).Info("client slot ready")
	return slot, nil
}

// Close releases the slot's connections, if it holds any.
func Close(slot ports.SlotStore) error {
	if cl, ok := slot.(ports.SlotCloser); ok {
		return cl.Close()
	}
	return nil
}

// FileSlot returns the file slot behind slot, looking through compression.
func FileSlot(slot ports.SlotStore) (*file.Slot, bool) {
	if c, ok := slot.(*CompressedSlot); ok {
		slot = c.Unwrap()
	}
	f, ok := slot.(*file.Slot)
	return f, ok
}

// ddbClientFromEnv creates a DynamoDB client from environment variables, if any.
func ddbClientFromEnv(ctx context.Context) (*dynamodb.Client, error) {
	var ddbEndpoint *string
	de := os.Getenv(DDBEndpointKey)
	if de != "" {
		ddbEndpoint = aws.String(de)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	ddbClient := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if ddbEndpoint != nil {
			// This is used for testing only locally
			o.BaseEndpoint = ddbEndpoint
			o.Region = getenv("AWS_REGION", "us-east-1")
			o.Credentials = credentials.NewStaticCredentialsProvider(
				getenv("AWS_ACCESS_KEY_ID", "x"),
				getenv("AWS_SECRET_ACCESS_KEY", "x"),
				"",
			)
		}
	})
	return ddbClient, nil
}

// redisClientFromEnv creates a Redis client from environment variables and pings it.
func redisClientFromEnv(ctx context.Context) (*redis.Client, error) {
	host := getenv(RedisHost, "localhost")
	port := getenv(RedisPort, "6379")
	dbNum, err := strconv.Atoi(getenv(RedisDBNum, "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid Redis DB number: %w", err)
	}

	var tlsConfig *tls.Config
	if parseBoolean(getenv(RedisTLS, "false")) {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:      fmt.Sprintf("%s:%s", host, port),
		Username:  os.Getenv(RedisUser),
		Password:  os.Getenv(RedisPass),
		DB:        dbNum,
		TLSConfig: tlsConfig,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return redisClient, nil
}

// getenv retrieves the value of the environment variable named by the key.
func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func parseBoolean(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
