package infra

import (
	"context"
	"log"

	"github.com/cloudstore-app/cloudstore-service/config"
	"github.com/cloudstore-app/cloudstore-service/infra/produce"
	"github.com/cloudstore-app/cloudstore-service/storage"
)

type Infra struct {
	Postgres    *PostgresClient
	Redis       *RedisClient
	Logger      *LoggerClient
	Metrics     *MetricsClient
	RabbitMQ    *RabbitMQClient
	Produce     *produce.Produce
	Blob        *storage.BlobStore
	Thumbnailer storage.Thumbnailer
	Metadata    *storage.MetadataExtractor
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	env := cfg.EnvConfig

	logger := InitLoggerClient(env)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	metrics := InitMetricsClient(env)

	postgres := InitPostgresClient(env)
	if postgres == nil {
		panic("Failed to initialize Postgres service")
	}

	redis := InitRedisClient(env)
	if redis == nil {
		panic("Failed to initialize Redis service")
	}

	rabbitMQ := InitRabbitMQClient(env)
	if rabbitMQ == nil {
		panic("Failed to initialize RabbitMQ service")
	}

	produceService := produce.InitProduce(rabbitMQ.Channel)
	if produceService == nil {
		panic("Failed to initialize Produce service")
	}

	blob, err := storage.NewBlobStore(env.Storage.Root)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	thumbnailer := storage.NewThumbnailer(blob, env.Storage.Thumbnailer, env.Storage.ThumbnailSize)

	// Metadata probing is optional infrastructure: without exiftool the
	// extractor degrades to filesystem stat.
	var extractor *storage.MetadataExtractor
	if probe, ok := storage.DetectExifTool(); ok {
		extractor = storage.NewMetadataExtractor(probe)
		log.Println("Metadata probe: exiftool")
	} else {
		extractor = storage.NewMetadataExtractor(nil)
		log.Println("Metadata probe: exiftool not found, using file stat only")
	}

	infraInstance = &Infra{
		Postgres:    postgres,
		Redis:       redis,
		Logger:      logger,
		Metrics:     metrics,
		RabbitMQ:    rabbitMQ,
		Produce:     produceService,
		Blob:        blob,
		Thumbnailer: thumbnailer,
		Metadata:    extractor,
	}

	return infraInstance
}

// Shutdown flushes telemetry and closes the broker connection.
func (i *Infra) Shutdown(ctx context.Context) {
	if i.RabbitMQ != nil {
		i.RabbitMQ.Close()
	}
	if i.Metrics != nil {
		if err := i.Metrics.Shutdown(ctx); err != nil {
			log.Printf("Metrics shutdown: %v", err)
		}
	}
	if i.Logger != nil {
		if err := i.Logger.Shutdown(ctx); err != nil {
			log.Printf("Logger shutdown: %v", err)
		}
	}
}

func GetClient() *Infra {
	if infraInstance == nil {
		panic("Infra not initialized. Call InitInfra() first.")
	}
	return infraInstance
}
