// equitybrief serves company reference data and enriched news for stock symbols.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/equitybrief/api"
	"github.com/seenimoa/equitybrief/internal/config"
	"github.com/seenimoa/equitybrief/internal/extract"
	"github.com/seenimoa/equitybrief/internal/feed"
	"github.com/seenimoa/equitybrief/internal/inference"
	"github.com/seenimoa/equitybrief/internal/logger"
	"github.com/seenimoa/equitybrief/internal/pipeline"
	"github.com/seenimoa/equitybrief/internal/store"
	"github.com/seenimoa/equitybrief/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "equitybrief",
	Short: "Company reference data and enriched news for stock symbols",
	Long: `equitybrief serves company financial reference data from a document
store and enriches recent stock news with sentiment classification and
abstractive summarization.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("equitybrief %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()

		st, err := store.Connect(ctx, cfg.Mongo)
		if err != nil {
			return fmt.Errorf("document store unavailable: %w", err)
		}
		defer st.Close(context.Background()) //nolint:errcheck

		pipe, err := buildPipeline(ctx)
		if err != nil {
			return err
		}

		srv := api.NewServer(cfg, st, pipe)
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		logger.Log.WithField("addr", addr).Info("starting API server")
		return srv.ListenAndServe(addr)
	},
}

// --- News Command (one-shot pipeline run) ---

var newsCmd = &cobra.Command{
	Use:   "news [symbol]",
	Short: "Fetch and enrich recent news for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := utils.NormalizeSymbol(args[0])

		pipe, err := buildPipeline(cmd.Context())
		if err != nil {
			return err
		}

		items, err := pipe.LatestNews(cmd.Context(), symbol)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Printf("No recent news for %s\n", symbol)
			return nil
		}

		for _, item := range items {
			fmt.Printf("[%s] %s (%s)\n", item.Sentiment, item.Title, utils.FormatISO(item.Published))
			fmt.Printf("    %s\n", item.Summary)
			if item.Link != "" {
				fmt.Printf("    %s\n", item.Link)
			}
			fmt.Println()
		}
		return nil
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and secret status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("equitybrief %s (%s)\n\n", version, commit)

		fmt.Println("Configuration:")
		fmt.Printf("  Sentiment Model:   %s\n", cfg.Inference.SentimentModel)
		fmt.Printf("  Summarizer Model:  %s\n", cfg.Inference.SummarizerModel)
		fmt.Printf("  Inference Server:  %s\n", cfg.Inference.BaseURL)
		fmt.Printf("  Feed Source:       %s (window: %dd)\n", cfg.News.FeedBaseURL, cfg.News.WindowDays)
		fmt.Printf("  Max Entries:       %d\n", cfg.News.MaxEntries)
		fmt.Printf("  API Server:        %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		fmt.Println("Secrets:")
		for _, s := range config.CheckSecrets(cfg) {
			status := "not set"
			if s.IsSet {
				status = fmt.Sprintf("set (%s: %s)", s.Source, s.Masked)
			}
			fmt.Printf("  %-20s %s\n", s.Name+":", status)
		}
		return nil
	},
}

// buildPipeline constructs the news pipeline with both model capabilities
// verified. A failed model ping aborts bring-up; no partial startup.
func buildPipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	client := inference.NewClient(cfg.Inference.BaseURL,
		inference.WithAPIKey(cfg.Inference.APIKey),
		inference.WithTimeout(time.Duration(cfg.Inference.TimeoutSec)*time.Second),
	)
	classifier := inference.NewClassifier(client, cfg.Inference.SentimentModel)
	summarizer := inference.NewSummarizer(client, cfg.Inference.SummarizerModel)

	logger.Log.Info("verifying sentiment and summarization models")
	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Inference.TimeoutSec)*time.Second)
	defer cancel()
	if err := classifier.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("sentiment model %s failed to load: %w", classifier.Model(), err)
	}
	if err := summarizer.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("summarizer model %s failed to load: %w", summarizer.Model(), err)
	}

	fetcher := feed.NewFetcher(cfg.News.FeedBaseURL,
		feed.WithWindowDays(cfg.News.WindowDays),
		feed.WithLocale(cfg.News.Language, cfg.News.Region),
	)
	extractor := extract.NewExtractor(time.Duration(cfg.News.StageTimeoutSec) * time.Second)

	return pipeline.New(fetcher, extractor, classifier, summarizer, pipeline.Config{
		MaxEntries:      cfg.News.MaxEntries,
		MinArticleChars: cfg.News.MinArticleChars,
		SummaryMinLen:   cfg.News.SummaryMinLen,
		SummaryMaxLen:   cfg.News.SummaryMaxLen,
		RequestTimeout:  time.Duration(cfg.News.RequestTimeoutSec) * time.Second,
		StageTimeout:    time.Duration(cfg.News.StageTimeoutSec) * time.Second,
	}), nil
}
