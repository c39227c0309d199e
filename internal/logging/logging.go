// Package logging builds the zap loggers used by kharcha.
package logging

import (
	"go.uber.org/zap"
)

// Field keys shared across components.
const (
	FieldComponent = "component"
	FieldExpenseID = "expense_id"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldJob       = "job"
)

// Options controls logger construction.
type Options struct {
	Level       string // debug, info, warn, error
	Development bool   // console encoder instead of JSON
	OutputPath  string // defaults to stderr
}

// New builds a logger from opts. An unparseable level falls back to info.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(opts.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = level

	if opts.OutputPath != "" {
		cfg.OutputPaths = []string{opts.OutputPath}
		cfg.ErrorOutputPaths = []string{opts.OutputPath}
	}

	cfg.InitialFields = map[string]interface{}{
		"service": "kharcha",
	}
	return cfg.Build()
}

// Component returns a child logger tagged with a component name.
func Component(l *zap.Logger, name string) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return l.With(zap.String(FieldComponent, name))
}
