package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/routes2swagger/internal/spec"
	"github.com/mark3labs/routes2swagger/routes"
	"github.com/mark3labs/routes2swagger/swagger"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	App             string `validate:"required"`
	Template        string
	OutDir          string
	Definitions     string
	Framework       string
	Prefix          string
	FromFileKeyword string
	ConfigPath      string
	Validate        bool
	Verbose         bool

	// Overrides apply only when set, so an empty host can still be forced.
	Host     *string
	BasePath *string
	Version  *string
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Framework: routes.DefaultFramework}
}

// streams are where a run prints the document and its log.
type streams struct {
	out, err io.Writer
}

var generateRunner = runGenerate

var validate = validator.New()

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [app]",
		Short: "Generate a Swagger 2.0 document from a registered application",
		Long: "Generate a Swagger 2.0 document by walking the routes of a registered application " +
			"and parsing the documentation blocks of its handlers. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  routes2swagger generate demo:petstore
  routes2swagger generate demo:petstore --template base.json --definitions models.json --out-dir ./docs
  routes2swagger --config routes2swagger.yaml generate --host api.example.com`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd, args)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg, streams{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()})
		},
	}

	flags := cmd.Flags()
	flags.StringP("template", "t", "", "Template document (JSON or YAML) to start from")
	flags.StringP("out-dir", "o", "", "Directory to write swagger.json to; prints to stdout when omitted")
	flags.String("definitions", "", "Definitions file merged into the template's definitions")
	flags.String("host", "", "Override the document's host")
	flags.String("base-path", "", "Override the document's basePath")
	flags.String("version", "", "Override info.version")
	flags.String("framework", "", "Route placeholder convention (chi|mux|gorilla|gin|httprouter|flask); defaults to chi")
	flags.String("prefix", "", "Only document routes starting with this prefix")
	flags.String("from-file-keyword", "", "Keyword redirecting a documentation block to a file")
	flags.Bool("validate", false, "Check the generated document and log findings")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command, args []string) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if len(args) > 0 {
		cfg.App = args[0]
	}
	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"template", &cfg.Template},
		{"out-dir", &cfg.OutDir},
		{"definitions", &cfg.Definitions},
		{"framework", &cfg.Framework},
		{"prefix", &cfg.Prefix},
		{"from-file-keyword", &cfg.FromFileKeyword},
	}
	for _, s := range strs {
		if !flags.Changed(s.name) {
			continue
		}
		value, err := flags.GetString(s.name)
		if err != nil {
			return err
		}
		*s.dst = strings.TrimSpace(value)
	}

	overrides := []struct {
		name string
		dst  **string
	}{
		{"host", &cfg.Host},
		{"base-path", &cfg.BasePath},
		{"version", &cfg.Version},
	}
	for _, o := range overrides {
		if !flags.Changed(o.name) {
			continue
		}
		value, err := flags.GetString(o.name)
		if err != nil {
			return err
		}
		value = strings.TrimSpace(value)
		*o.dst = &value
	}

	if flags.Changed("validate") {
		value, err := flags.GetBool("validate")
		if err != nil {
			return err
		}
		cfg.Validate = value
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.App = strings.TrimSpace(c.App)
	c.Template = strings.TrimSpace(c.Template)
	c.OutDir = strings.TrimSpace(c.OutDir)
	c.Definitions = strings.TrimSpace(c.Definitions)
	c.Framework = strings.ToLower(strings.TrimSpace(c.Framework))
	c.FromFileKeyword = strings.TrimSpace(c.FromFileKeyword)
}

func (c *GenerateConfig) validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "App" {
					return newUsageError("generate: an application locator is required (argument or \"app\" in the config file)")
				}
			}
		}
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runGenerate(ctx context.Context, cfg *GenerateConfig, std streams) error {
	logger := newLogger(std.err, cfg.Verbose)

	// 1) Resolve the application
	app, err := swagger.LookupApp(cfg.App)
	if err != nil {
		return explain(err)
	}

	parser, known := routes.ParserFor(cfg.Framework)
	if !known {
		logger.Debug("unknown framework, using brace placeholders", "framework", cfg.Framework)
	}
	opts := []swagger.Option{
		swagger.WithPrefix(cfg.Prefix),
		swagger.WithFromFileKeyword(cfg.FromFileKeyword),
		swagger.WithRuleParser(parser),
		swagger.WithLogger(logger),
	}

	// 2) Load the template, with the definitions file applied on top of it
	if cfg.Template != "" {
		tmpl, err := spec.LoadTemplate(cfg.Template)
		if err != nil {
			return explain(err)
		}
		if cfg.Definitions != "" {
			defs, err := spec.LoadDefinitions(cfg.Definitions)
			if err != nil {
				return explain(err)
			}
			tmpl.ApplyDefinitions(defs)
		}
		opts = append(opts, swagger.WithTemplate(tmpl))
	} else if cfg.Definitions != "" {
		logger.Debug("definitions file ignored without a template", "path", cfg.Definitions)
	}

	if cfg.Host != nil {
		opts = append(opts, swagger.WithHost(*cfg.Host))
	}
	if cfg.BasePath != nil {
		opts = append(opts, swagger.WithBasePath(*cfg.BasePath))
	}
	if cfg.Version != nil {
		opts = append(opts, swagger.WithVersion(*cfg.Version))
	}

	// 3) Walk the application
	doc, err := swagger.Generate(app, opts...)
	if err != nil {
		return explain(err)
	}

	if cfg.Validate {
		if err := swagger.Validate(ctx, doc); err != nil {
			var se *spec.SpecError
			if errors.As(err, &se) {
				logger.Warn("document does not validate", "error", se.Message, "pointer", se.JSONPointer)
			} else {
				logger.Warn("document does not validate", "error", err)
			}
		}
	}

	// 4) Print or write
	if cfg.OutDir == "" {
		return swagger.Encode(std.out, doc)
	}
	path, err := swagger.WriteFile(cfg.OutDir, doc)
	if err != nil {
		return explain(err)
	}
	logger.Info("wrote document", "path", path)
	return nil
}

// explainedError keeps the underlying error reachable for errors.Is/As while
// adding the location details of a SpecError to the message.
type explainedError struct {
	msg string
	err error
}

func (e *explainedError) Error() string { return e.msg }
func (e *explainedError) Unwrap() error { return e.err }

func explain(err error) error {
	var se *spec.SpecError
	if !errors.As(err, &se) {
		return err
	}
	msg := err.Error()
	if se.Location != "" && !strings.Contains(msg, se.Location) {
		msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
	}
	if se.JSONPointer != "" {
		msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
	}
	return &explainedError{msg: msg, err: err}
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		var err error
		switch normalizeKey(key) {
		case "app":
			cfg.App, err = valueAsString(value)
		case "template":
			cfg.Template, err = valueAsString(value)
		case "outdir":
			cfg.OutDir, err = valueAsString(value)
		case "definitions":
			cfg.Definitions, err = valueAsString(value)
		case "framework":
			cfg.Framework, err = valueAsString(value)
		case "prefix":
			cfg.Prefix, err = valueAsString(value)
		case "fromfilekeyword":
			cfg.FromFileKeyword, err = valueAsString(value)
		case "host":
			cfg.Host, err = valueAsOverride(value)
		case "basepath":
			cfg.BasePath, err = valueAsOverride(value)
		case "version":
			cfg.Version, err = valueAsOverride(value)
		case "validate":
			cfg.Validate, err = valueAsBool(value)
		case "verbose":
			cfg.Verbose, err = valueAsBool(value)
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

// valueAsOverride accepts numbers too, since YAML reads `version: 1.2` as a float.
func valueAsOverride(v any) (*string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		s := strings.TrimSpace(val)
		return &s, nil
	case int, int64, uint64, float64:
		s := fmt.Sprint(val)
		return &s, nil
	default:
		return nil, fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		case "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
