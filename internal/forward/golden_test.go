package forward_test

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/splatlang/splat/internal/evaluator"
	"github.com/splatlang/splat/internal/forward"
	"github.com/splatlang/splat/internal/prettyprinter"
)

var update = flag.Bool("update", false, "rewrite golden files with actual transform output")

// TestTransformGolden runs each testdata archive's input program through the
// decorator and compares the printed form of the transformed host function
// against the archived expectation.
func TestTransformGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no golden files under testdata/")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			archive, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}
			var input, want []byte
			for _, f := range archive.Files {
				switch f.Name {
				case "input.spl":
					input = f.Data
				case "transformed.spl":
					want = f.Data
				}
			}
			if input == nil {
				t.Fatalf("%s has no input.spl", path)
			}

			env := evaluator.NewEnvironment()
			forward.Install(env, forward.NewRegistry())
			result := evaluator.New().Eval(parseProgram(t, string(input)), env)
			if errObj, ok := result.(*evaluator.Error); ok {
				t.Fatalf("program failed: %s", errObj.Message)
			}
			obj, ok := env.Get("host")
			if !ok {
				t.Fatal("input program must define a function named host")
			}
			fn, ok := obj.(*evaluator.Function)
			if !ok {
				t.Fatalf("host is %T, want *evaluator.Function", obj)
			}
			got := []byte(prettyprinter.NewCodePrinter().PrintStatement(fn.Decl))

			if *update {
				for i := range archive.Files {
					if archive.Files[i].Name == "transformed.spl" {
						archive.Files[i].Data = got
					}
				}
				if err := os.WriteFile(path, txtar.Format(archive), 0o644); err != nil {
					t.Fatal(err)
				}
				return
			}
			if !bytes.Equal(got, want) {
				t.Errorf("transform mismatch.\ngot:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}
