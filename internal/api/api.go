// Package api provides the HTTP surface and the main server wiring for the
// LINE chatbot.
//
// It exposes the webhook callback endpoints, a health check, the static
// asset host, and an asset listing endpoint, and composes the bot core from
// the configured modules.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Arwei0/line-chatbot/internal/assets"
	"github.com/Arwei0/line-chatbot/internal/bot"
	"github.com/Arwei0/line-chatbot/internal/genai"
	"github.com/Arwei0/line-chatbot/internal/imgsearch"
	"github.com/Arwei0/line-chatbot/internal/line"
	"github.com/Arwei0/line-chatbot/internal/messaging"
	"github.com/Arwei0/line-chatbot/internal/models"
	"github.com/Arwei0/line-chatbot/internal/scheduler"
	"github.com/Arwei0/line-chatbot/internal/session"
)

// Server defaults.
const (
	// DefaultAddr is the default API server listen address.
	DefaultAddr = ":5000"
	// DefaultPurgeSchedule runs the asset retention purge once a day.
	DefaultPurgeSchedule = "@daily"
	// DefaultAssetRetention is how long stored attachments are kept.
	DefaultAssetRetention = 30 * 24 * time.Hour
	// DefaultReadHeaderTimeout bounds header reads on the listener.
	DefaultReadHeaderTimeout = 10 * time.Second
)

// Opts holds configuration options for the API server.
type Opts struct {
	Addr           string
	NoticeDelay    time.Duration
	FallbackImage  string
	PurgeSchedule  string
	AssetRetention time.Duration
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the server listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithNoticeDelay sets the speculative notice delay.
func WithNoticeDelay(d time.Duration) Option {
	return func(o *Opts) { o.NoticeDelay = d }
}

// WithFallbackImage sets the image used when image search yields nothing.
func WithFallbackImage(url string) Option {
	return func(o *Opts) { o.FallbackImage = url }
}

// WithPurgeSchedule sets the cron expression for the asset retention purge.
func WithPurgeSchedule(expr string) Option {
	return func(o *Opts) { o.PurgeSchedule = expr }
}

// WithAssetRetention sets how long stored attachments are kept.
func WithAssetRetention(d time.Duration) Option {
	return func(o *Opts) { o.AssetRetention = d }
}

// WebhookParser converts an authenticated callback request into bot events.
type WebhookParser interface {
	ParseRequest(r *http.Request) ([]models.Event, error)
}

// EventHandler processes one inbound event end to end.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev models.Event)
}

// Server holds the HTTP handler dependencies.
type Server struct {
	parser  WebhookParser
	handler EventHandler
	assets  *assets.Host
}

// NewServer creates a Server. assets may be nil to disable the asset
// endpoints.
func NewServer(parser WebhookParser, handler EventHandler, assetHost *assets.Host) *Server {
	return &Server{parser: parser, handler: handler, assets: assetHost}
}

// Routes builds the HTTP mux for the server.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.healthHandler)
	mux.HandleFunc("/callback", s.webhookHandler)
	mux.HandleFunc("/webhook", s.webhookHandler)
	if s.assets != nil {
		mux.Handle(assets.StaticPathPrefix, http.StripPrefix(assets.StaticPathPrefix,
			http.FileServer(http.Dir(s.assets.Dir()))))
		mux.HandleFunc("/assets", s.assetsHandler)
	}
	return mux
}

// Run composes all modules from the provided options and serves until the
// listener fails. It is the composition root called by cmd/line-chatbot.
func Run(lineOpts []line.Option, genaiCfg genai.Config, imgOpts []imgsearch.Option, assetOpts []assets.Option, opts []Option) error {
	cfg := Opts{
		Addr:           DefaultAddr,
		NoticeDelay:    messaging.DefaultNoticeDelay,
		PurgeSchedule:  DefaultPurgeSchedule,
		AssetRetention: DefaultAssetRetention,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	lineClient, err := line.NewClient(lineOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize LINE client: %w", err)
	}

	assetHost, err := assets.NewHost(lineClient, assetOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize asset host: %w", err)
	}
	defer assetHost.Close()

	responder := genai.NewClient(genaiCfg)
	images := imgsearch.NewClient(imgOpts...)
	sessions := session.NewStore()
	notifier := messaging.NewNotifier(lineClient, cfg.NoticeDelay)
	guard := messaging.NewGuard(lineClient)
	router := bot.NewRouter(sessions, responder, images, cfg.FallbackImage)
	handler := bot.NewHandler(router, notifier, guard, assetHost)

	sched := scheduler.NewScheduler()
	defer sched.Stop()
	if err := sched.AddJob(cfg.PurgeSchedule, func() {
		if _, err := assetHost.PurgeOlderThan(cfg.AssetRetention); err != nil {
			slog.Error("asset purge job failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule asset purge: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewServer(lineClient, handler, assetHost).Routes(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}
	slog.Info("API server listening", "addr", cfg.Addr, "engine", responder.Engine())
	return server.ListenAndServe()
}
