package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ifnest/formatter"
	"github.com/gnolang/ifnest/internal"
	tt "github.com/gnolang/ifnest/internal/types"
	"github.com/gnolang/ifnest/lint"
)

const (
	formatText  = "text"
	formatLines = "lines"
	formatJSON  = "json"
	formatTable = "table"
)

var errUnknownFormat = errors.New("unknown output format")

var (
	ignoreRules string
	ignorePaths string
	lintMode    string
	lintFormat  string
	outPath     string
	noRewrite   bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Report nested if chains",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := newEngine(lintMode, noRewrite)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}
		applyIgnores(engine, ignoreRules, ignorePaths)

		runNormalLintProcess(ctx, logger, engine, args, lintFormat, outPath)
	},
}

func init() {
	lintCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of lint rules to ignore")
	lintCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	lintCmd.Flags().StringVar(&lintMode, "mode", "", "Detection mode: tree or tokens (default from config)")
	lintCmd.Flags().StringVar(&lintFormat, "format", formatText, "Output format: text, lines, json or table")
	lintCmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the report to a file instead of stdout")
	lintCmd.Flags().BoolVar(&noRewrite, "no-rewrite", false, "Do not derive rewrite candidates")
}

// newEngine loads the configuration file and applies command line
// overrides on top of it.
func newEngine(mode string, disableRewrite bool) (*internal.Engine, error) {
	config, err := lint.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if mode != "" {
		config.Mode = mode
	}
	if disableRewrite {
		config.Rewrite.Enabled = false
	}
	return lint.NewWithConfig(config)
}

func applyIgnores(engine lint.LintEngine, rules, paths string) {
	for _, rule := range splitList(rules) {
		engine.IgnoreRule(rule)
	}
	for _, path := range splitList(paths) {
		engine.IgnorePath(path)
	}
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func runNormalLintProcess(ctx context.Context, logger *zap.Logger, engine lint.LintEngine, paths []string, format string, output string) {
	issues, err := lint.ProcessFiles(ctx, logger, engine, paths, lint.ProcessFile)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		os.Exit(1)
	}

	if err := writeReport(logger, issues, format, output); err != nil {
		logger.Error("Error writing report", zap.Error(err))
		os.Exit(1)
	}

	if len(issues) > 0 {
		os.Exit(1)
	}
}

func writeReport(logger *zap.Logger, issues []tt.Issue, format string, output string) error {
	if output == "" {
		return printIssues(os.Stdout, logger, issues, format)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer f.Close()
	return printIssues(f, logger, issues, format)
}

func printIssues(w io.Writer, logger *zap.Logger, issues []tt.Issue, format string) error {
	switch format {
	case formatText, "":
		issuesByFile, sortedFiles := groupByFile(issues)
		for _, filename := range sortedFiles {
			sourceCode, err := internal.ReadSourceCode(filename)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
				continue
			}
			fmt.Fprintln(w, formatter.GenerateFormattedIssue(issuesByFile[filename], sourceCode))
		}
	case formatLines:
		fmt.Fprint(w, formatter.FormatLines(issues))
	case formatTable:
		if len(issues) > 0 {
			fmt.Fprintln(w, formatter.RenderSummary(issues))
		}
	case formatJSON:
		issuesByFile, _ := groupByFile(issues)
		d, err := json.Marshal(issuesByFile)
		if err != nil {
			return fmt.Errorf("error marshalling issues to JSON: %w", err)
		}
		fmt.Fprintln(w, string(d))
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
	return nil
}

func groupByFile(issues []tt.Issue) (map[string][]tt.Issue, []string) {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)
	return issuesByFile, sortedFiles
}
