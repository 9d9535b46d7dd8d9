package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Arwei0/line-chatbot/internal/api"
	"github.com/Arwei0/line-chatbot/internal/assets"
	"github.com/Arwei0/line-chatbot/internal/genai"
	"github.com/Arwei0/line-chatbot/internal/imgsearch"
	"github.com/Arwei0/line-chatbot/internal/line"
	"github.com/Arwei0/line-chatbot/internal/lockfile"
	"github.com/Arwei0/line-chatbot/internal/util"
	"github.com/joho/godotenv"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for line-chatbot state data
	DefaultStateDir = "/var/lib/line-chatbot"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	if *flags.channelToken == "" || *flags.channelSecret == "" {
		slog.Error("LINE channel credentials are required", "token_set", *flags.channelToken != "", "secret_set", *flags.channelSecret != "")
		os.Exit(1)
	}

	// Ensure the state directory exists before locking it
	if err := os.MkdirAll(*flags.stateDir, 0755); err != nil {
		slog.Error("Failed to create state directory", "error", err, "state_dir", *flags.stateDir)
		os.Exit(1)
	}

	// Hold the state directory lock for the lifetime of the process
	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		slog.Error("Failed to acquire state directory lock", "error", err, "state_dir", *flags.stateDir)
		os.Exit(1)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			slog.Warn("Failed to release state directory lock", "error", err)
		}
	}()

	// Build module options
	lineOpts := buildLINEOptions(flags)
	genaiCfg := genai.ResolveConfig(*flags.openaiKey, *flags.geminiKey)
	imgOpts := buildImageSearchOptions(flags)
	assetOpts := buildAssetOptions(flags)
	apiOpts := buildAPIOptions(flags)

	// Start the service
	slog.Info("Bootstrapping line-chatbot with configured modules")
	slog.Debug("Final configuration", "state_dir", *flags.stateDir, "api_addr", *flags.apiAddr, "engine", genaiCfg.Backend)
	if err := api.Run(lineOpts, genaiCfg, imgOpts, assetOpts, apiOpts); err != nil {
		slog.Error("line-chatbot failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("line-chatbot exited successfully")
}

// Config holds environment configuration
type Config struct {
	ChannelToken   string
	ChannelSecret  string
	OpenAIKey      string
	GeminiKey      string
	PixabayKey     string
	StateDir       string
	APIAddr        string
	BaseURL        string
	FallbackImage  string
	NoticeDelay    time.Duration
	AssetRetention time.Duration
	PurgeSchedule  string
}

// Flags holds command line flag values
type Flags struct {
	channelToken   *string
	channelSecret  *string
	openaiKey      *string
	geminiKey      *string
	pixabayKey     *string
	stateDir       *string
	apiAddr        *string
	baseURL        *string
	fallbackImage  *string
	purgeSchedule  *string
	noticeDelay    *time.Duration
	assetRetention *time.Duration
}

// initializeLogger sets up structured logging. Debug level is enabled via
// $LINEBOT_DEBUG.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("LINEBOT_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		ChannelToken:   os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		ChannelSecret:  os.Getenv("LINE_CHANNEL_SECRET"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		GeminiKey:      os.Getenv("GEMINI_API_KEY"),
		PixabayKey:     os.Getenv("PIXABAY_API_KEY"),
		StateDir:       os.Getenv("LINEBOT_STATE_DIR"),
		APIAddr:        os.Getenv("API_ADDR"),
		BaseURL:        os.Getenv("PUBLIC_BASE_URL"),
		FallbackImage:  os.Getenv("FALLBACK_IMAGE_URL"),
		NoticeDelay:    util.ParseDurationEnv("NOTICE_DELAY", 0),
		AssetRetention: util.ParseDurationEnv("ASSET_RETENTION", 0),
		PurgeSchedule:  os.Getenv("PURGE_SCHEDULE"),
	}

	// Set default state directory if not specified
	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No LINEBOT_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	slog.Debug("environment variables loaded",
		"LINE_CHANNEL_ACCESS_TOKEN_SET", config.ChannelToken != "",
		"LINE_CHANNEL_SECRET_SET", config.ChannelSecret != "",
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"GEMINI_API_KEY_SET", config.GeminiKey != "",
		"PIXABAY_API_KEY_SET", config.PixabayKey != "",
		"LINEBOT_STATE_DIR", config.StateDir,
		"API_ADDR", config.APIAddr,
		"PUBLIC_BASE_URL", config.BaseURL)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		channelToken:   flag.String("channel-token", config.ChannelToken, "LINE channel access token (overrides $LINE_CHANNEL_ACCESS_TOKEN)"),
		channelSecret:  flag.String("channel-secret", config.ChannelSecret, "LINE channel secret (overrides $LINE_CHANNEL_SECRET)"),
		openaiKey:      flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		geminiKey:      flag.String("gemini-api-key", config.GeminiKey, "Gemini API key (overrides $GEMINI_API_KEY)"),
		pixabayKey:     flag.String("pixabay-api-key", config.PixabayKey, "Pixabay API key for image search (overrides $PIXABAY_API_KEY)"),
		stateDir:       flag.String("state-dir", config.StateDir, "state directory for line-chatbot data (overrides $LINEBOT_STATE_DIR)"),
		apiAddr:        flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		baseURL:        flag.String("base-url", config.BaseURL, "public base URL for hosted assets (overrides $PUBLIC_BASE_URL)"),
		fallbackImage:  flag.String("fallback-image", config.FallbackImage, "image URL used when image search yields nothing (overrides $FALLBACK_IMAGE_URL)"),
		purgeSchedule:  flag.String("purge-schedule", config.PurgeSchedule, "cron expression for the asset retention purge (overrides $PURGE_SCHEDULE)"),
		noticeDelay:    flag.Duration("notice-delay", config.NoticeDelay, "delay before the working notice fires (overrides $NOTICE_DELAY)"),
		assetRetention: flag.Duration("asset-retention", config.AssetRetention, "how long stored attachments are kept (overrides $ASSET_RETENTION)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"channelTokenSet", *flags.channelToken != "",
		"channelSecretSet", *flags.channelSecret != "",
		"openaiKeySet", *flags.openaiKey != "",
		"geminiKeySet", *flags.geminiKey != "",
		"pixabayKeySet", *flags.pixabayKey != "",
		"stateDir", *flags.stateDir,
		"apiAddr", *flags.apiAddr,
		"baseURL", *flags.baseURL)

	return flags
}

// buildLINEOptions constructs LINE client configuration options
func buildLINEOptions(flags Flags) []line.Option {
	return []line.Option{
		line.WithChannelToken(*flags.channelToken),
		line.WithChannelSecret(*flags.channelSecret),
	}
}

// buildImageSearchOptions constructs image search configuration options
func buildImageSearchOptions(flags Flags) []imgsearch.Option {
	var imgOpts []imgsearch.Option
	if *flags.pixabayKey != "" {
		imgOpts = append(imgOpts, imgsearch.WithAPIKey(*flags.pixabayKey))
	}
	return imgOpts
}

// buildAssetOptions constructs asset host configuration options
func buildAssetOptions(flags Flags) []assets.Option {
	assetOpts := []assets.Option{
		assets.WithDir(filepath.Join(*flags.stateDir, "assets")),
	}
	if *flags.baseURL != "" {
		assetOpts = append(assetOpts, assets.WithBaseURL(*flags.baseURL))
	}
	return assetOpts
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	if *flags.noticeDelay > 0 {
		apiOpts = append(apiOpts, api.WithNoticeDelay(*flags.noticeDelay))
	}
	if *flags.fallbackImage != "" {
		apiOpts = append(apiOpts, api.WithFallbackImage(*flags.fallbackImage))
	}
	if *flags.purgeSchedule != "" {
		apiOpts = append(apiOpts, api.WithPurgeSchedule(*flags.purgeSchedule))
	}
	if *flags.assetRetention > 0 {
		apiOpts = append(apiOpts, api.WithAssetRetention(*flags.assetRetention))
	}
	return apiOpts
}
