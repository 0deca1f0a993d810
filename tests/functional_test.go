package tests

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/splatlang/splat/internal/ast"
	"github.com/splatlang/splat/internal/config"
	"github.com/splatlang/splat/internal/evaluator"
	"github.com/splatlang/splat/internal/forward"
	"github.com/splatlang/splat/internal/lexer"
	"github.com/splatlang/splat/internal/parser"
	"github.com/splatlang/splat/internal/pipeline"
)

// TestScripts runs every source file that has a matching .want file and
// compares the program's output, including a trailing error line when the
// program ends in one.
func TestScripts(t *testing.T) {
	var scripts []string
	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		for _, ext := range config.SourceFileExtensions {
			if strings.HasSuffix(path, ext) {
				if _, err := os.Stat(strings.TrimSuffix(path, ext) + ".want"); err == nil {
					scripts = append(scripts, path)
				}
				break
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(scripts) == 0 {
		t.Fatal("no scripts with .want files found")
	}

	for _, script := range scripts {
		t.Run(script, func(t *testing.T) {
			source, err := os.ReadFile(script)
			if err != nil {
				t.Fatal(err)
			}
			wantPath := strings.TrimSuffix(script, filepath.Ext(script)) + ".want"
			want, err := os.ReadFile(wantPath)
			if err != nil {
				t.Fatal(err)
			}

			got := runScript(t, script, string(source))
			if got != string(want) {
				t.Errorf("output mismatch.\ngot:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func runScript(t *testing.T, path, source string) string {
	t.Helper()
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(&pipeline.PipelineContext{FilePath: path, SourceCode: source})
	if len(ctx.Errors) > 0 {
		t.Fatalf("parse errors: %v", ctx.Errors)
	}

	env := evaluator.NewEnvironment()
	forward.Install(env, forward.NewRegistry())

	var buf bytes.Buffer
	eval := evaluator.New()
	eval.Out = &buf
	eval.CurrentFile = path

	result := eval.Eval(ctx.AstRoot.(*ast.Program), env)
	if errObj, ok := result.(*evaluator.Error); ok {
		buf.WriteString(errObj.Inspect() + "\n")
	}
	return buf.String()
}
