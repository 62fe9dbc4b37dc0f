// Package internal hosts the lint engine that runs the nested conditional
// rules over Python sources.
//
// Engine parses a file once with pyast and runs every enabled LintRule
// over the result in parallel. Issues are filtered through "# nolint"
// comments and sorted by position. Two rules are registered:
//
//	nested-if-chain  tree mode, chains of sole if statements with rewrites
//	nested-if-rows   token mode, runs of consecutive rows holding "if"
//
// Options.Mode picks which of them is on by default. Severities come from
// the configuration file.
//
// Watcher re-runs the engine on files that change under a set of
// directories, skipping writes that leave the content unchanged.
//
// Usage:
//
//	engine, err := internal.NewEngine(nil, internal.DefaultOptions())
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("path/to/file.py")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range issues {
//	    fmt.Printf("%s: %s\n", issue.Start, issue.Message)
//	}
package internal
