// Command spwncore is a smoke-test driver for the evaluator core: since
// the source-text parser is out of scope (§1), it hand-assembles a small
// fixed AST (the expression `3 + 4`, the arithmetic half of §8 scenario
// S1), evaluates it, and prints the resulting Returns bag.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/LarsCG/spwn-core/internal/config"
	"github.com/LarsCG/spwn-core/internal/logging"
	"github.com/LarsCG/spwn-core/pkg/spwncore"
)

func main() {
	log := logging.Default()

	limitsPath := os.Getenv("SPWNCORE_LIMITS")
	limits := config.DefaultLimits()
	if limitsPath != "" {
		loaded, err := config.LoadLimits(limitsPath)
		if err != nil {
			log.Errorf("loading limits from %s: %v", limitsPath, err)
			os.Exit(1)
		}
		limits = loaded
	}

	sess := spwncore.New(limits)

	expr := sampleExpression()
	results, err := sess.Eval(expr)
	if err != nil {
		log.Errorf("evaluation failed: %v", err)
		os.Exit(1)
	}

	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	for i, r := range results {
		printResult(i, r, color)
	}

	fmt.Printf(
		"\n%s values live in the arena across %s result%s\n",
		humanize.Comma(int64(sess.LiveValueCount())),
		humanize.Comma(int64(len(results))),
		plural(len(results)),
	)
}

func printResult(i int, r spwncore.Result, color bool) {
	line := fmt.Sprintf("[%d] %+v (%s)", i, r.Value, r.TypeName)
	if color {
		fmt.Println("\033[36m" + line + "\033[39m")
		return
	}
	fmt.Println(line)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// sampleExpression builds `3 + 4` by hand (§8 scenario S1's arithmetic
// half), since no parser is wired up yet to produce `let x = 3; x + 4`
// as two statements.
func sampleExpression() *ast.Expression {
	left := &ast.Variable{Body: ast.NumberLit{Value: 3}}
	four := &ast.Variable{Body: ast.NumberLit{Value: 4}}
	return &ast.Expression{
		First: left,
		Rest:  []ast.OpValue{{Op: ast.Plus, Value: four}},
	}
}
