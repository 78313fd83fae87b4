package swagger

import (
	"io"
	"log/slog"

	"github.com/mark3labs/routes2swagger/internal/definitions"
	"github.com/mark3labs/routes2swagger/internal/docstring"
	"github.com/mark3labs/routes2swagger/routes"
)

// Option configures Generate.
type Option func(*options)

type options struct {
	template        Document
	prefix          string
	fromFileKeyword string
	processDoc      docstring.ProcessFunc
	ruleParser      routes.RuleParser
	registry        definitions.Registry
	docSource       docstring.Source
	logger          *slog.Logger

	host, basePath, version *string
}

func defaultOptions() options {
	return options{
		processDoc: docstring.Sanitize,
		ruleParser: routes.BraceRules,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithTemplate seeds the document. The template is copied, never modified.
func WithTemplate(template Document) Option {
	return func(o *options) { o.template = template }
}

// WithPrefix restricts generation to routes whose pattern starts with prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithFromFileKeyword enables "<keyword>: <path>" redirects in documentation
// blocks.
func WithFromFileKeyword(keyword string) Option {
	return func(o *options) { o.fromFileKeyword = keyword }
}

// WithProcessDoc replaces the summary and description sanitizer.
func WithProcessDoc(fn docstring.ProcessFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.processDoc = fn
		}
	}
}

// WithRuleParser sets how native route patterns become {name} templates.
func WithRuleParser(p routes.RuleParser) Option {
	return func(o *options) {
		if p != nil {
			o.ruleParser = p
		}
	}
}

// WithRegistry resolves import-style schema references.
func WithRegistry(r SchemaRegistry) Option {
	return func(o *options) { o.registry = r }
}

// WithDocSource replaces where handler documentation is read from.
func WithDocSource(src DocSource) Option {
	return func(o *options) { o.docSource = src }
}

// WithLogger sets the logger for debug events. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHost overrides the document's host after discovery.
func WithHost(host string) Option {
	return func(o *options) { o.host = &host }
}

// WithBasePath overrides the document's basePath after discovery.
func WithBasePath(basePath string) Option {
	return func(o *options) { o.basePath = &basePath }
}

// WithVersion overrides info.version after discovery.
func WithVersion(version string) Option {
	return func(o *options) { o.version = &version }
}
