package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/splatlang/splat/internal/ast"
	"github.com/splatlang/splat/internal/config"
	"github.com/splatlang/splat/internal/diagnostics"
	"github.com/splatlang/splat/internal/evaluator"
	"github.com/splatlang/splat/internal/forward"
	"github.com/splatlang/splat/internal/lexer"
	"github.com/splatlang/splat/internal/parser"
	"github.com/splatlang/splat/internal/pipeline"
	"github.com/splatlang/splat/internal/prettyprinter"
)

func main() {
	configPath := flag.String("config", config.ConfigFileName, "path to the configuration file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	printOnly := flag.Bool("print", false, "pretty-print the parsed program instead of running it")
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, colorize("error: "+err.Error()))
		os.Exit(1)
	}

	if *verbose || cfg.Forward.Trace {
		logger, err := zap.NewDevelopment()
		if err == nil {
			forward.SetLogger(logger)
			defer logger.Sync()
		}
	}

	path := flag.Arg(0)
	if path == "" {
		path = cfg.Entry
	}
	if path == "" {
		usage()
		os.Exit(2)
	}
	if !isSourceFile(path) {
		fmt.Fprintln(os.Stderr, colorize(fmt.Sprintf("error: %s is not a %s source file", path, strings.Join(config.SourceFileExtensions, "/"))))
		os.Exit(2)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, colorize("error: "+err.Error()))
		os.Exit(1)
	}

	program, diags := parse(path, string(source))
	if len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, colorize(d.Error()))
		}
		os.Exit(1)
	}

	if *printOnly {
		fmt.Print(prettyprinter.NewCodePrinter().Print(program))
		return
	}

	if result := run(path, program, cfg); result != nil {
		if errObj, ok := result.(*evaluator.Error); ok {
			fmt.Fprintln(os.Stderr, colorize(errObj.Inspect()))
			os.Exit(1)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: splat [flags] <script%s>\n", config.SourceFileExt)
	flag.PrintDefaults()
}

func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func parse(path, source string) (*ast.Program, []*diagnostics.Diagnostic) {
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(&pipeline.PipelineContext{FilePath: path, SourceCode: source})
	if len(ctx.Errors) > 0 {
		return nil, ctx.Errors
	}
	return ctx.AstRoot.(*ast.Program), nil
}

func run(path string, program *ast.Program, cfg *config.Config) evaluator.Object {
	env := evaluator.NewEnvironment()
	reg := forward.NewRegistry()
	reg.SetMaxDepth(cfg.Forward.MaxDepth)
	forward.Install(env, reg)

	eval := evaluator.New()
	eval.CurrentFile = path
	return eval.Eval(program, env)
}

func colorize(msg string) string {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return msg
	}
	return "\x1b[31m" + msg + "\x1b[0m"
}
