package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ecmax",
	Short: "ecmax runtime-semantics engine",
	Long: `ecmax is a spec-faithful ECMAScript runtime-semantics engine.

It implements the value model, completion protocol, property/descriptor
model, realm/intrinsics bootstrapping, the agent job queue, and a
tree-walking evaluator over scripts and modules.`,
	Version: Version,
}

// rcConfig is the shape of an optional .ecmaxrc.yaml: the Agent's
// feature-flag set (spec.md §6), which the teacher's CLI has no equivalent
// of — its flags are all plain cobra flags — so this is new ambient
// configuration machinery, not a teacher adaptation.
type rcConfig struct {
	Features map[string]bool `yaml:"features"`
}

// loadFeatures reads .ecmaxrc.yaml from the current directory if present,
// returning an empty set (not an error) when the file doesn't exist.
func loadFeatures() (map[string]bool, error) {
	data, err := os.ReadFile(".ecmaxrc.yaml")
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("reading .ecmaxrc.yaml: %w", err)
	}
	var cfg rcConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing .ecmaxrc.yaml: %w", err)
	}
	if cfg.Features == nil {
		cfg.Features = map[string]bool{}
	}
	return cfg.Features, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
