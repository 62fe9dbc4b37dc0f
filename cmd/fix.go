package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ifnest/internal/disposition"
	"github.com/gnolang/ifnest/internal/pyast"
	tt "github.com/gnolang/ifnest/internal/types"
	"github.com/gnolang/ifnest/lint"
)

var autoAccept bool

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Review every nested if chain and decide what to do with it",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		config, err := lint.LoadConfig(cfgFile)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}

		if err := runReview(ctx, logger, args, config.Rewrite, autoAccept, os.Stdin, os.Stdout); err != nil {
			logger.Error("Error reviewing chains", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	fixCmd.Flags().BoolVar(&autoAccept, "auto", false, "Accept the first exact and verified rewrite of every chain without prompting")
}

func runReview(
	ctx context.Context,
	logger *zap.Logger,
	paths []string,
	opts tt.RewriteConfig,
	auto bool,
	in io.Reader,
	out io.Writer,
) error {
	items, err := collectItems(ctx, logger, paths, opts)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No nested if chains found")
		return nil
	}

	review := disposition.NewReviewLog(out)
	driver := disposition.NewDriver(in, out, review, logger)
	driver.Auto = auto
	if err := driver.Run(ctx, items); err != nil {
		return err
	}

	if len(review.Decisions()) > 0 {
		fmt.Fprintln(out, review.Summary())
	}
	return nil
}

func collectItems(ctx context.Context, logger *zap.Logger, paths []string, opts tt.RewriteConfig) ([]disposition.Item, error) {
	var items []disposition.Item
	for _, path := range paths {
		files, err := lint.SourceFiles(path)
		if err != nil {
			return nil, err
		}
		for _, filename := range files {
			source, err := os.ReadFile(filename)
			if err != nil {
				return nil, fmt.Errorf("error reading file: %w", err)
			}
			file, err := pyast.Parse(ctx, source)
			if err != nil {
				return nil, fmt.Errorf("error parsing %s: %w", filename, err)
			}
			found := disposition.Collect(filename, file, opts)
			logger.Debug("Collected chains", zap.String("file", filename), zap.Int("chains", len(found)))
			items = append(items, found...)
		}
	}
	return items, nil
}
