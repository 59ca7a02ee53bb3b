// Package hgvs parses HGVS variant descriptions into the semantic model.
package hgvs

import (
	"errors"
	"fmt"
	"runtime"
	"slices"

	"go.uber.org/zap"

	"github.com/inodb/vibe-hgvs/internal/convert"
	"github.com/inodb/vibe-hgvs/internal/grammar"
	"github.com/inodb/vibe-hgvs/internal/model"
	"github.com/inodb/vibe-hgvs/internal/report"
	"github.com/inodb/vibe-hgvs/internal/syntax"
)

// BackendDescent is the recursive-descent grammar engine.
const BackendDescent = "descent"

// Backends lists the grammar engines NewParser accepts.
var Backends = []string{BackendDescent}

type config struct {
	startRule string
	backend   string
	workers   int
	logger    *zap.Logger
}

// Option configures a Parser.
type Option func(*config)

// WithStartRule sets the grammar rule input is parsed from. The default is
// "description".
func WithStartRule(rule string) Option {
	return func(c *config) { c.startRule = rule }
}

// WithBackend selects the grammar engine.
func WithBackend(name string) Option {
	return func(c *config) { c.backend = name }
}

// WithWorkers sets the worker count used by ConvertAll. Zero means
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Parser converts description text into model values. It is safe for
// concurrent use.
type Parser struct {
	engine  *grammar.Parser
	desc    *grammar.Parser
	workers int
	logger  *zap.Logger
}

// NewParser creates a parser. It fails with *report.NoParserDefinedError when
// the start rule is empty or unknown and with
// *report.UnsupportedParserTypeError for an unknown backend.
func NewParser(opts ...Option) (*Parser, error) {
	cfg := config{
		startRule: grammar.StartDescription,
		backend:   BackendDescent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if !slices.Contains(Backends, cfg.backend) {
		return nil, &report.UnsupportedParserTypeError{Type: cfg.backend, Supported: Backends}
	}
	if cfg.startRule == "" {
		return nil, &report.NoParserDefinedError{}
	}
	engine, err := grammar.New(cfg.startRule)
	if err != nil {
		return nil, &report.NoParserDefinedError{StartRule: cfg.startRule}
	}
	desc := engine
	if cfg.startRule != grammar.StartDescription {
		desc, _ = grammar.New(grammar.StartDescription)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.workers <= 0 {
		cfg.workers = runtime.NumCPU()
	}

	return &Parser{engine: engine, desc: desc, workers: cfg.workers, logger: cfg.logger}, nil
}

// SetLogger sets the logger for warning and debug messages.
func (p *Parser) SetLogger(l *zap.Logger) {
	p.logger = l
}

// StartRule returns the configured start rule.
func (p *Parser) StartRule() string {
	return p.engine.Start()
}

// Parse returns the syntax tree of text for the configured start rule.
func (p *Parser) Parse(text string) (*syntax.Node, error) {
	return parseWith(p.engine, text)
}

// Convert parses text from the configured start rule and returns the
// matching model value (see convert.Node).
func (p *Parser) Convert(text string) (any, error) {
	tree, err := p.Parse(text)
	if err != nil {
		return nil, err
	}
	v, err := convert.Node(tree)
	if err != nil {
		p.logInvariant(text, err)
		return nil, err
	}
	return v, nil
}

// Description parses a complete description regardless of the configured
// start rule.
func (p *Parser) Description(text string) (*model.Description, error) {
	tree, err := parseWith(p.desc, text)
	if err != nil {
		return nil, err
	}
	d, err := convert.Description(tree)
	if err != nil {
		p.logInvariant(text, err)
		return nil, err
	}
	return d, nil
}

func (p *Parser) logInvariant(text string, err error) {
	p.logger.Error("converter rejected syntax tree",
		zap.String("description", text),
		zap.Error(err))
}

func parseWith(engine *grammar.Parser, text string) (*syntax.Node, error) {
	tree, err := engine.Parse(text)
	if err != nil {
		return nil, translate(text, err)
	}
	return tree, nil
}

// translate maps grammar engine failures onto the report taxonomy.
func translate(text string, err error) error {
	var (
		uc  *grammar.UnexpectedCharacters
		eof *grammar.UnexpectedEOF
	)
	switch {
	case errors.As(err, &uc):
		return report.NewUnexpectedCharacter(text, uc.Pos, uc.Line, uc.Column, uc.Allowed)
	case errors.As(err, &eof):
		return report.NewUnexpectedEndOfInput(eof.Allowed)
	}
	return fmt.Errorf("parse %q: %w", text, err)
}

var defaultParser = mustNewParser()

func mustNewParser(opts ...Option) *Parser {
	p, err := NewParser(opts...)
	if err != nil {
		panic(fmt.Sprintf("hgvs: default parser: %v", err))
	}
	return p
}

// Parse converts a single description using the default configuration.
func Parse(text string) (*model.Description, error) {
	return defaultParser.Description(text)
}
