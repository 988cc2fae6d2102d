package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ewintr.nl/tubescribe/fetcher"
	"ewintr.nl/tubescribe/handler"
	"ewintr.nl/tubescribe/process"
	"ewintr.nl/tubescribe/session"
	"ewintr.nl/tubescribe/storage"
	"ewintr.nl/tubescribe/summary"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
	"google.golang.org/api/youtube/v3"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("unable to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpTimeout, err := time.ParseDuration(getParam("HTTP_TIMEOUT", "30s"))
	if err != nil {
		logger.Error("unable to parse http timeout", slog.String("error", err.Error()))
		os.Exit(1)
	}
	httpClient := &http.Client{Timeout: httpTimeout}

	// storage
	var (
		settings  storage.SettingsRepository
		videoRepo storage.VideoRelRepository
		vecRepo   storage.VideoVecRepository
	)
	if pgHost := getParam("POSTGRES_HOST", ""); pgHost != "" {
		postgres, err := storage.NewPostgres(storage.PostgresInfo{
			Host:     pgHost,
			Port:     getParam("POSTGRES_PORT", "5432"),
			User:     getParam("POSTGRES_USER", "tubescribe"),
			Password: getParam("POSTGRES_PASSWORD", "tubescribe"),
			Database: getParam("POSTGRES_DB", "tubescribe"),
		})
		if err != nil {
			logger.Error("unable to connect to postgres", slog.String("error", err.Error()))
			os.Exit(1)
		}
		settings = storage.NewPostgresSettingsRepository(postgres)
		videoRepo = storage.NewPostgresVideoRepository(postgres)
		logger.Info("using postgres storage", slog.String("host", pgHost))
	} else {
		mem := storage.NewMemory(getIntParam(logger, "MEMORY_CAPACITY", 100))
		settings, videoRepo = mem, mem
		logger.Info("using memory storage")
	}

	if wvHost := getParam("WEAVIATE_HOST", ""); wvHost != "" {
		wv, err := storage.NewWeaviate(storage.WeaviateInfo{
			Scheme:       getParam("WEAVIATE_SCHEME", "https"),
			Host:         wvHost,
			ApiKey:       getParam("WEAVIATE_API_KEY", ""),
			OpenaiApiKey: getParam("OPENAI_API_KEY", ""),
		})
		if err != nil {
			logger.Error("unable to create weaviate client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if getBoolParam(logger, "WEAVIATE_RESET_SCHEMA", false) {
			if err := wv.ResetSchema(ctx); err != nil {
				logger.Error("unable to reset weaviate schema", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
		vecRepo = wv
		logger.Info("indexing summaries in weaviate", slog.String("host", wvHost))
	}

	// metadata
	var (
		mdFetcher fetcher.MetadataFetcher
		checker   fetcher.PlayabilityChecker
	)
	if ytKey := getParam("YOUTUBE_API_KEY", ""); ytKey != "" {
		ytHTTP, _, err := htransport.NewClient(ctx, option.WithAPIKey(ytKey))
		if err != nil {
			logger.Error("unable to create youtube http client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		ytHTTP.Timeout = httpTimeout
		ytClient, err := youtube.NewService(ctx, option.WithHTTPClient(ytHTTP))
		if err != nil {
			logger.Error("unable to create youtube service", slog.String("error", err.Error()))
			os.Exit(1)
		}
		yt := fetcher.NewYoutube(ytClient)
		mdFetcher, checker = yt, yt
	} else {
		oe := fetcher.NewOEmbed(fetcher.OEmbedInfo{Client: httpClient})
		mdFetcher, checker = oe, oe
	}
	if !getBoolParam(logger, "PLAYABILITY_CHECK", false) {
		checker = nil
	}

	// summary
	style := fetcher.PromptStyle(getParam("PROMPT_STYLE", string(fetcher.PromptOutline)))
	var sumFetcher fetcher.SummaryFetcher
	switch provider := getParam("SUMMARY_PROVIDER", "gemini"); provider {
	case "gemini":
		sumFetcher = fetcher.NewGemini(fetcher.GeminiInfo{
			Endpoint: getParam("GEMINI_ENDPOINT", fetcher.DefaultGeminiEndpoint),
			Style:    style,
			Client:   httpClient,
		})
	case "openai":
		sumFetcher = fetcher.NewOpenAI(fetcher.OpenAIInfo{
			BaseURL: getParam("OPENAI_BASE_URL", fetcher.DefaultOpenAIBaseURL),
			Model:   getParam("OPENAI_MODEL", fetcher.DefaultOpenAIModel),
			Style:   style,
			Client:  httpClient,
		})
	default:
		logger.Error("unknown summary provider", slog.String("provider", provider))
		os.Exit(1)
	}

	pipeline := process.NewPipeline(process.NewProcessors(checker, mdFetcher, sumFetcher), videoRepo, vecRepo, logger)
	segmenter := summary.NewSegmenter(summary.Options{
		Permissive: getBoolParam(logger, "SEGMENT_PERMISSIVE", false),
	})
	defaultAPIKey := getParam("GEMINI_API_KEY", "")
	subs := handler.NewSubmissions(pipeline, session.NewTracker(segmenter, getIntParam(logger, "SESSION_CAPACITY", 1000)), settings, defaultAPIKey, logger)

	// feeds
	switch mflxEndpoint := getParam("MINIFLUX_ENDPOINT", ""); {
	case mflxEndpoint == "":
	case defaultAPIKey == "":
		logger.Error("feed reader needs GEMINI_API_KEY, not starting it", slog.String("endpoint", mflxEndpoint))
	default:
		fetchInterval, err := time.ParseDuration(getParam("FETCH_INTERVAL", "1m"))
		if err != nil {
			logger.Error("unable to parse fetch interval", slog.String("error", err.Error()))
			os.Exit(1)
		}
		mflx := fetcher.NewMiniflux(fetcher.MinifluxInfo{
			Endpoint:   mflxEndpoint,
			ApiKey:     getParam("MINIFLUX_APIKEY", ""),
			CategoryID: int64(getIntParam(logger, "MINIFLUX_CATEGORY", 0)),
		})
		go fetcher.NewFetcher(mflx, pipeline, defaultAPIKey, fetchInterval, logger).Run(ctx)
		logger.Info("feed reader started", slog.String("interval", fetchInterval.String()))
	}

	port := getIntParam(logger, "API_PORT", 8080)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler.NewServer(subs, settings, videoRepo, logger),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      2*httpTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
			stop()
		}
	}()
	logger.Info("http server started", slog.Int("port", port))

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
		_ = srv.Close()
	}

	logger.Info("service stopped")
}

func getParam(param, def string) string {
	if val, ok := os.LookupEnv(param); ok {
		return val
	}
	return def
}

func getIntParam(logger *slog.Logger, param string, def int) int {
	val, err := strconv.Atoi(getParam(param, strconv.Itoa(def)))
	if err != nil {
		logger.Error("invalid integer parameter", slog.String("param", param), slog.String("error", err.Error()))
		os.Exit(1)
	}
	return val
}

func getBoolParam(logger *slog.Logger, param string, def bool) bool {
	val, err := strconv.ParseBool(getParam(param, strconv.FormatBool(def)))
	if err != nil {
		logger.Error("invalid boolean parameter", slog.String("param", param), slog.String("error", err.Error()))
		os.Exit(1)
	}
	return val
}
