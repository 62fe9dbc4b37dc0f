package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/ifnest/internal"
	tt "github.com/gnolang/ifnest/internal/types"
	"github.com/gnolang/ifnest/scanner"
)

const maxShowRecentFiles = 25

// ErrInputKind is returned for an explicitly named file that is not
// Python source. Directory walks skip such files silently.
var ErrInputKind = errors.New("not a python source file")

// Progress is where directory walks draw the progress bar and the list
// of recently processed files.
var Progress io.Writer = os.Stderr

type LintEngine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
}

// New loads the configuration at configurationPath and builds an engine
// from it. A missing file gives the default configuration.
func New(configurationPath string) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(config)
}

// NewWithConfig builds an engine from an already loaded configuration.
func NewWithConfig(config Config) (*internal.Engine, error) {
	return internal.NewEngine(config.Rules, internal.Options{
		Mode:    config.Mode,
		Rewrite: config.Rewrite,
	})
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	sources [][]byte,
	processor func(LintEngine, []byte) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allIssues, err
		}
		issues, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

type fileResult struct {
	issues []tt.Issue
	err    error
}

func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasDesiredExtension(path) {
			return nil, fmt.Errorf("%w: %s", ErrInputKind, path)
		}
		fileIssues, err := processor(engine, path)
		if err != nil {
			return []tt.Issue{}, err
		}
		return fileIssues, nil
	}

	files, err := walkSources(path)
	if err != nil {
		return nil, err
	}

	// mutex for recent files
	var recentFilesMutex sync.Mutex
	recentFiles := make([]string, maxShowRecentFiles)

	// make space for recent files
	for range maxShowRecentFiles + 1 {
		fmt.Fprintln(Progress)
	}
	fmt.Fprintf(Progress, "\033[%dA", maxShowRecentFiles+1)

	results := make(chan fileResult, len(files))

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(Progress),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	// update recent files
	updateRecentFiles := func(filename string) {
		recentFilesMutex.Lock()
		defer recentFilesMutex.Unlock()

		// update the list
		for j := maxShowRecentFiles - 1; j > 0; j-- {
			recentFiles[j] = recentFiles[j-1]
		}
		recentFiles[0] = filename

		// move the cursor up
		fmt.Fprintf(Progress, "\033[%dA", maxShowRecentFiles)

		// print the list
		for j := range recentFiles {
			if recentFiles[j] != "" {
				// \033[2k: clear the line
				// \r: move the cursor to the beginning of the line
				fmt.Fprintf(Progress, "\033[2K\r%s\n", recentFiles[j])
			} else {
				fmt.Fprintf(Progress, "\033[2K\r\n")
			}
		}
	}

	// for each file, run a goroutine
	started := 0
	var cancelErr error
dispatch:
	for _, filePath := range files {
		if err := ctx.Err(); err != nil {
			cancelErr = err
			break
		}
		select {
		case <-ctx.Done():
			cancelErr = ctx.Err()
			break dispatch
		case sem <- struct{}{}:
		}
		started++
		go func(fp string) {
			defer func() { <-sem }()

			// show the start of file processing
			updateRecentFiles(filepath.Base(fp))

			fileIssues, err := processor(engine, fp)
			if err != nil && logger != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			}
			results <- fileResult{issues: fileIssues, err: err}
			bar.Add(1)
		}(filePath)
	}

	// collect the results of every started worker
	issues := []tt.Issue{}
	var firstErr error
	for range started {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		issues = append(issues, res.issues...)
	}

	fmt.Fprintln(Progress)
	if cancelErr != nil {
		return issues, cancelErr
	}
	return issues, firstErr
}

// SourceFiles lists the Python files named by path. A directory is
// walked recursively; a single file must carry a Python extension.
func SourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		if !hasDesiredExtension(path) {
			return nil, fmt.Errorf("%w: %s", ErrInputKind, path)
		}
		return []string{path}, nil
	}
	return walkSources(path)
}

func walkSources(root string) ([]string, error) {
	files, err := scanner.New(root, ".py", ".pyi").Paths()
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", root, err)
	}
	return files, nil
}

func ProcessFile(engine LintEngine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine LintEngine, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(source)
}

var desiredExtensions = map[string]bool{
	".py":  true,
	".pyi": true,
}

func hasDesiredExtension(path string) bool {
	return desiredExtensions[filepath.Ext(path)]
}
