package cli

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/routes2swagger/internal/spec"
)

const defaultConfigName = "routes2swagger.yaml"

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample routes2swagger configuration file",
		Long:  "Scaffold a commented routes2swagger configuration file that documents the generate options.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			return initRunner(cmd.Context(), &InitConfig{OutputPath: out, Force: force}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("out", defaultConfigName, "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(_ context.Context, cfg *InitConfig, stdout io.Writer) error {
	path, err := filepath.Abs(cmp.Or(strings.TrimSpace(cfg.OutputPath), defaultConfigName))
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if _, err := os.Stat(path); err == nil && !cfg.Force {
		return newUsageError(fmt.Sprintf("init: %s exists; pass --force to replace it", path))
	}
	if err := spec.WriteAtomic(path, []byte(strings.TrimSpace(sampleConfigYAML)+"\n")); err != nil {
		return explain(err)
	}
	_, err = fmt.Fprintf(stdout, "Wrote sample config to %s\n", path)
	return err
}

// sampleConfigYAML is a commented example config documenting the generate options.
const sampleConfigYAML = `# routes2swagger configuration (YAML)
# Command-line flags and the positional locator override config values.

# Registered application to document, as listed by "routes2swagger apps".
# app: demo:petstore

# Template document (JSON or YAML) the generated paths and definitions are merged into.
# template: ./swagger-base.json

# Definitions file (bare name -> schema mapping, or wrapped under "definitions").
# Only applied together with a template.
# definitions: ./models.json

# Directory to write swagger.json to. Prints to stdout when omitted.
# outDir: ./docs

# Overrides applied after generation.
# host: api.example.com
# basePath: /v1
# version: 1.0.0

# Route placeholder convention: chi, mux, gorilla ({id}), gin, httprouter (:id) or flask (<id>).
# framework: chi

# Only document routes whose pattern starts with this prefix.
# prefix: /api

# Keyword redirecting a documentation block to a file ("swag_from: docs/get.yml").
# fromFileKeyword: swag_from

# Check the generated document and log findings as warnings.
# validate: false

# Enable debug logging.
# verbose: false
`
