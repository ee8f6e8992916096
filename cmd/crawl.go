package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tgcrawl/tgcrawl/internal/clock/system"
	"github.com/tgcrawl/tgcrawl/internal/crawler"
	"github.com/tgcrawl/tgcrawl/internal/hash/sha256"
	"github.com/tgcrawl/tgcrawl/internal/id/uuid"
)

// newCrawlCmd creates the 'crawl' subcommand, which runs a snapshot
// batch for one or all of the tracked link lists.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Snapshots the tracked URL lists",
		Long: `Fetches every URL in the configured tracked-link lists concurrently,
normalizes the responses and mirrors them into the output tree. The
mode selects which lists run: all, web, web_res, or web_tr.`,

		RunE: runCrawlCommand,
	}
	cmd.Flags().String("mode", "", "run mode: all, web, web_res, web_tr (overrides config)")
	_ = viper.BindPFlag("crawl.mode", cmd.Flags().Lookup("mode"))
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	cfg, err := crawler.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load crawl config: %w", err)
	}

	runID, err := uuid.NewGenerator().NewID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}

	clk := system.New()
	engine := crawler.NewEngine(
		cfg,
		crawler.NewCollyFetcher(cfg, logger),
		appInstance.GetStorage(),
		sha256.New(),
		clk,
		logger,
		runID,
	)

	logger.Info("Start crawling content of tracked urls",
		zap.String("mode", cfg.Mode),
		zap.String("run_id", runID),
	)
	start := clk.Now()

	if err := runMode(cmd.Context(), cfg.Mode, engine); err != nil {
		return fmt.Errorf("run crawl: %w", err)
	}

	logger.Info("Stop crawling content",
		zap.String("mode", cfg.Mode),
		zap.Duration("elapsed", clk.Now().Sub(start)),
	)
	return nil
}

func runMode(ctx context.Context, mode string, engine *crawler.Engine) error {
	switch mode {
	case crawler.ModeAll:
		group, ctx := errgroup.WithContext(ctx)
		group.Go(func() error { return engine.CrawlPages(ctx) })
		group.Go(func() error { return engine.CrawlResources(ctx) })
		group.Go(func() error { return engine.CrawlTranslations(ctx) })
		return group.Wait()
	case crawler.ModeWeb:
		return engine.CrawlPages(ctx)
	case crawler.ModeResources:
		return engine.CrawlResources(ctx)
	case crawler.ModeTranslations:
		return engine.CrawlTranslations(ctx)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}
