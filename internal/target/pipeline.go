package target

import (
	"context"

	"go.uber.org/zap"

	"github.com/openmodbus/shmwrite/internal/engine"
)

// Pipeline ties the instruction parser to a write target and the optional
// script log. It is the single entry point for every input surface (stdin,
// terminal, HTTP).
type Pipeline struct {
	parser *engine.Parser
	target Target
	script *ScriptLog // nil when no script log is configured
	logger *zap.Logger
}

func NewPipeline(parser *engine.Parser, target Target, script *ScriptLog, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		parser: parser,
		target: target,
		script: script,
		logger: logger,
	}
}

// ApplyLine parses one input line and applies the resulting instructions.
// A rejected line produces no writes; the error says which token was at
// fault so the caller can log it and move on.
func (p *Pipeline) ApplyLine(ctx context.Context, line string) ([]engine.Instruction, error) {
	instructions, err := p.parser.Parse(line)
	if err != nil {
		return nil, err
	}

	if err := p.target.Apply(ctx, instructions); err != nil {
		return nil, err
	}

	if p.script != nil {
		if err := p.script.Record(instructions); err != nil {
			// the write itself succeeded; a broken script log is only
			// worth a warning
			p.logger.Warn("script log write failed", zap.Error(err))
		}
	}

	p.logger.Debug("line applied",
		zap.String("line", line),
		zap.Int("registers", len(instructions)))

	return instructions, nil
}

// Close releases the underlying target.
func (p *Pipeline) Close() error {
	return p.target.Close()
}
