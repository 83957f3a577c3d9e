package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	//embeddings - dimension is shared with the vector index, change both together
	EmbeddingOutputDimensionality int32 = 1536
	GoogleEmbeddingModel                = "gemini-embedding-001"
	EmbeddingBatchSize                  = 100
	EmbeddingMaxChars                   = 32000 //~8k tokens at 4 chars per token

	//vision
	VisionModelName      = "gpt-4o"
	VisionMaxTokens      = 300
	VisionTemperature    = 0.3
	VisionContextChars   = 500
	MinMeaningfulImageKB = 10 //skip icons and decorative images below this

	//chunking
	MaxChunkSize        = 1500
	CombineTextUnder    = 500
	SectionTitleMaxLen  = 100

	//retry policy for embedding and vector store stages
	MaxRetryAttempts = 3
	RetryBaseDelay   = 2 * time.Second

	MaxWorkerCount    int64 = 10
	MinWorkerCount    int64 = 1
	IdleWorkerTimeout       = 1 * time.Minute

	//one ingestion run gets this long before the run context expires
	PipelineRunTimeout = 10 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//blob fetch
	FetchTimeout     = 2 * time.Minute
	MaxDocumentBytes = 64 << 20 //64mb

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false //set for https
	QdrantPoolSize          = 1     //2-5 is preferred for prod according to documentation
	UpsertBatchSize         = 100

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisDocumentStore = 1
	RedisTopicStore    = 2

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour

	//supabase storage
	StorageBucket = "documents"
)
