package pipeline

import (
	"github.com/splatlang/splat/internal/diagnostics"
	"github.com/splatlang/splat/internal/token"
)

// PipelineContext carries one source unit through the processing stages.
type PipelineContext struct {
	FilePath    string
	SourceCode  string
	TokenStream []token.Token
	AstRoot     interface{} // *ast.Program once the parser has run
	Errors      []*diagnostics.Diagnostic
}

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages keep running after errors so that one pass
// collects diagnostics from every stage.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
