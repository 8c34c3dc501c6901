// Command snapshot fetches live search result pages and stores them as parser
// fixtures, reporting which parse strategy matched each one. A query that no
// longer matches the primary strategy means the site markup has drifted.
//
// No language model is used, so ASSIST_LLM_PROVIDER=none is enough to run it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/botkyrka/assist/config"
	"github.com/botkyrka/assist/logger"
	"github.com/botkyrka/assist/search"
	"github.com/botkyrka/assist/slug"
	"github.com/botkyrka/assist/storage"
)

var defaultQueries = []string{"grundskolor", "förskola", "bygglov", "bibliotek", "parkering"}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", os.Getenv("ASSIST_CONFIG"), "Path to a YAML config file")
	dryRun := flag.Bool("dry-run", false, "Fetch and parse without storing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	queries := flag.Args()
	if len(queries) == 0 {
		queries = defaultQueries
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := openStore(ctx, cfg.Fixtures)
	if err != nil {
		return err
	}

	client := search.New(search.Config{
		BaseURL:     cfg.Search.BaseURL,
		HTTPTimeout: cfg.Search.Timeout,
	}, log)

	drifted := 0
	for _, q := range queries {
		page, err := client.Raw(ctx, q)
		if err != nil {
			log.Error("fetch failed", zap.String("query", q), zap.Error(err))
			continue
		}

		results, strategy, err := client.ParsePage(page)
		if err != nil {
			log.Warn("no results parsed", zap.String("query", q), zap.Error(err))
		}
		if strategy != search.Strategies[0].Name {
			drifted++
		}

		location := ""
		if !*dryRun {
			if _, err := store.Save(ctx, slug.FromQuery(q), page); err != nil {
				return fmt.Errorf("store snapshot for %q: %w", q, err)
			}
			location = store.Location(slug.FromQuery(q))
		}

		log.Info("snapshot",
			zap.String("query", q),
			zap.String("strategy", strategy),
			zap.Int("results", len(results)),
			zap.String("location", location),
		)
	}

	if drifted > 0 {
		log.Warn("search markup drift detected", zap.Int("queries", drifted))
	}
	return nil
}

func openStore(ctx context.Context, cfg config.FixturesConfig) (storage.Store, error) {
	switch cfg.Backend {
	case "s3":
		s3, err := storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Prefix:          "snapshots/search",
			AccessKeyID:     cfg.S3.AccessKey,
			SecretAccessKey: cfg.S3.SecretKey,
			UsePathStyle:    cfg.S3.Endpoint != "",
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	default:
		fs, err := storage.New(storage.Config{BasePath: cfg.Path})
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
}
