package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ifnest/formatter"
	"github.com/gnolang/ifnest/internal"
	tt "github.com/gnolang/ifnest/internal/types"
)

var watchMode string

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-lint Python files whenever they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		// the timeout does not apply here; watching ends on interrupt
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, err := newEngine(watchMode, false)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		watcher := internal.NewWatcher(engine, logger, watchReporter(os.Stdout, logger))
		if err := watcher.Start(ctx, args...); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		fmt.Printf("Watching %d path(s), press Ctrl+C to stop\n", len(args))
		watcher.Wait()
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchMode, "mode", "", "Detection mode: tree or tokens (default from config)")
}

func watchReporter(w io.Writer, logger *zap.Logger) internal.ReportFunc {
	return func(filename string, issues []tt.Issue) {
		if len(issues) == 0 {
			fmt.Fprintf(w, "%s: no nested if chains\n", filename)
			return
		}
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
			return
		}
		fmt.Fprintln(w, formatter.GenerateFormattedIssue(issues, sourceCode))
	}
}
