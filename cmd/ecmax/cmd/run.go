package cmd

import (
	"fmt"
	"os"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/values"
	"github.com/ecmax-lang/ecmax/pkg/esvm"
	"github.com/spf13/cobra"
)

var (
	evalExpr     string
	asModule     bool
	featureFlags []string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an ecmax script or module",
	Long: `Execute an ECMAScript program from a file or inline expression.

Examples:
  # Run a script file
  ecmax run script.js

  # Evaluate an inline expression
  ecmax run -e "console.log('Hello, World!')"

  # Run as a module
  ecmax run --module app.mjs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&asModule, "module", false, "parse and evaluate as a module rather than a script")
	runCmd.Flags().StringArrayVar(&featureFlags, "feature", nil, "enable a named stage-3-class feature flag (repeatable)")
}

func runScript(cmd *cobra.Command, args []string) error {
	var source, specifier string
	switch {
	case evalExpr != "":
		source, specifier = evalExpr, "<eval>"
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		source, specifier = string(content), args[0]
	default:
		return fmt.Errorf("either provide a file path or use -e flag for inline code")
	}

	features, err := loadFeatures()
	if err != nil {
		return err
	}
	for _, f := range featureFlags {
		features[f] = true
	}

	ag, err := esvm.NewAgent(features)
	if err != nil {
		return err
	}
	rlm := esvm.NewRealm(ag.Enter(), esvm.RealmOptions{})

	if asModule {
		return runAsModule(rlm, specifier, source)
	}
	return runAsScript(rlm, specifier, source)
}

func runAsScript(rlm *esvm.Realm, specifier, source string) error {
	c := rlm.EvaluateScript(source, specifier)
	if c.IsAbrupt() {
		return reportUncaught(rlm, c)
	}
	return nil
}

func runAsModule(rlm *esvm.Realm, specifier, source string) error {
	mod, err := rlm.CreateSourceTextModule(specifier, source)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", specifier, err)
	}
	if c := mod.Link(); c.IsAbrupt() {
		return reportUncaught(rlm, c)
	}
	prom := mod.Evaluate()
	pd, _ := ops.PromiseDataOf(prom)
	if pd != nil && pd.State == ops.PromiseRejected {
		return reportUncaught(rlm, completion.Thrown(pd.Result))
	}
	return nil
}

func reportUncaught(rlm *esvm.Realm, c completion.Completion) error {
	v, _ := c.Value.(values.Value)
	fmt.Fprintln(os.Stderr, "Uncaught", rlm.Inspect(v))
	return fmt.Errorf("execution failed")
}
