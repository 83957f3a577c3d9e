// @title           Document Ingestion API
// @version         1.0
// @description     This API handles asynchronous document ingestion into a per-topic vector index
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/data/blob"
	"github.com/akolanti/IngestAPI/internal/data/store"
	jobmodel "github.com/akolanti/IngestAPI/internal/domain/jobModel"
	"github.com/akolanti/IngestAPI/internal/handlers"
	"github.com/akolanti/IngestAPI/internal/job"
	"github.com/akolanti/IngestAPI/internal/pipeline"
	"github.com/akolanti/IngestAPI/internal/pipeline/embedding/googleEmbedding"
	"github.com/akolanti/IngestAPI/internal/pipeline/fetch"
	"github.com/akolanti/IngestAPI/internal/pipeline/vectorDB/qdrantDB"
	"github.com/akolanti/IngestAPI/internal/pipeline/vision"
	"github.com/akolanti/IngestAPI/internal/server"
	"github.com/akolanti/IngestAPI/internal/worker"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	config.LoadEnv()
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.IngestionJob, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and stores
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	redisJobStore := store.GetRedisJobStore(serviceContext)
	redisDocStore := store.GetRedisDocumentStore(serviceContext)
	redisTopicStore := store.GetRedisTopicStore(serviceContext)

	if redisJobStore == nil || redisDocStore == nil || redisTopicStore == nil {
		if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
			logger.Error("Redis stores are offline. Shutting down.")
			return
		}
		logger.Error("Redis stores are offline, using in-memory stores")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.DocumentStore = store.InitInMemoryDocumentStore()
		serviceConfig.TopicStore = store.InitInMemoryTopicStore()
	} else {
		serviceConfig.JobStore = redisJobStore
		serviceConfig.DocumentStore = redisDocStore
		serviceConfig.TopicStore = redisTopicStore
	}
	service := job.InitJobService(serviceConfig)

	vectorDB := qdrantDB.GetQuadrantClient(serviceContext)
	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleEmbeddingAPIKey)
	visionService := vision.GetVisionClient(serviceContext, config.VisionModelName, config.OpenAIAPIKey)

	if vectorDB == nil || embeddingService == nil || visionService == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "VisionService", visionService != nil)
		return
	}

	reporter := pipeline.NewStoreReporter(serviceConfig.DocumentStore)
	pipelineService := pipeline.NewService(fetch.NewHTTPFetcher(), visionService, embeddingService, vectorDB, serviceConfig.DocumentStore, reporter)

	handlers.InitJobHandler(service, pipelineService, blob.GetSupabaseUploader())

	//init worker pool
	worker.InitServices(service, pipelineService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
