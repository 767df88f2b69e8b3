// Command minic compiles a single mini-language source file to IA-32
// assembly, wiring together the lexer, parser, and the four analysis
// and codegen passes under internal/.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/minilang/minic/internal/ast"
	"github.com/minilang/minic/internal/codegen/ia32"
	"github.com/minilang/minic/internal/diagnostics"
	"github.com/minilang/minic/internal/initcheck"
	"github.com/minilang/minic/internal/langversion"
	"github.com/minilang/minic/internal/lexer"
	"github.com/minilang/minic/internal/parser"
	"github.com/minilang/minic/internal/position"
	"github.com/minilang/minic/internal/scope"
	"github.com/minilang/minic/internal/simplify"
	"github.com/minilang/minic/internal/termwidth"
	"github.com/minilang/minic/internal/typecheck"
	"github.com/minilang/minic/internal/watch"
)

var buildVersion = "0.1.0"

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		watchMode   = flag.Bool("watch", false, "recompile whenever the input file changes")
		emitAST     = flag.Bool("emit-ast", false, "print the parsed and simplified AST instead of assembly")
		showLang    = flag.Bool("lang-version", false, "print the compiler version checked against #lang pragmas")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: minic [-watch] [-emit-ast] [-lang-version] [-version] <file.mini>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("minic %s\n", buildVersion)
		return
	}
	if *showLang {
		fmt.Printf("minic %s (lang %s)\n", buildVersion, langversion.CompilerVersion)
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(2)
	}
	filename := args[0]

	if *watchMode {
		runWatch(filename, *emitAST)
		return
	}

	if err := compile(filename, *emitAST, os.Stdout); err != nil {
		log.Fatalf("minic: %v", err)
	}
}

func runWatch(filename string, emitAST bool) {
	w, err := watch.New(filename)
	if err != nil {
		log.Fatalf("minic: watch: %v", err)
	}
	defer w.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT)

	recompile := func() {
		if err := compile(filename, emitAST, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "minic: %v\n", err)
		}
	}
	recompile()

	for {
		select {
		case <-w.Changed():
			recompile()
		case err := <-w.Errors():
			fmt.Fprintf(os.Stderr, "minic: watch: %v\n", err)
		case <-sig:
			return
		}
	}
}

// compile runs the full pipeline once: lang-version gate, lex, parse,
// scope/type/init analysis, simplification, codegen, writing the
// result to out. It returns a non-nil error whenever any diagnostic
// was raised (exit code non-zero per spec.md §6).
func compile(filename string, emitAST bool, out *os.File) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	text := string(content)
	if constraint, ok := langversion.Extract(text); ok {
		if err := langversion.Check(constraint); err != nil {
			return err
		}
		// Blank out the pragma line so the lexer never sees it, keeping
		// every later line number, column and offset unchanged.
		end := strings.IndexByte(text, '\n')
		if end < 0 {
			end = len(text)
		}
		text = strings.Repeat(" ", end) + text[end:]
	}

	src := position.NewSourceFile(filename, text)

	lx := lexer.New(src)
	p, err := parser.New(lx)
	if err != nil {
		return err
	}
	program, err := p.ParseProgram()
	if err != nil {
		return err
	}

	diags := diagnostics.NewCollector()

	scopeAnalyzer := scope.New()
	scopeAnalyzer.Diags = diags
	scopeAnalyzer.Analyze(program)
	if diags.HasErrors() {
		return reportAndFail(diags, src)
	}

	typeAnalyzer := typecheck.New(scopeAnalyzer.Env, diags)
	typeAnalyzer.Analyze(program)
	if diags.HasErrors() {
		return reportAndFail(diags, src)
	}

	initAnalyzer := initcheck.New(diags)
	initAnalyzer.Analyze(program)
	if diags.HasErrors() {
		return reportAndFail(diags, src)
	}

	simplify.Program(program)

	if emitAST {
		dumpProgram(out, program)
		return nil
	}

	gen := ia32.NewGenerator(scopeAnalyzer.Env)
	asm := gen.Generate(program)
	fmt.Fprint(out, asm)
	return nil
}

func reportAndFail(diags *diagnostics.Collector, src *position.SourceFile) error {
	width := termwidth.Get(os.Stderr)
	fmt.Fprint(os.Stderr, diagnostics.Format(diags.Diagnostics(), src, width))
	return fmt.Errorf("%d diagnostic(s)", len(diags.Diagnostics()))
}

// dumpProgram writes a plain indented text rendering of program, the
// CLI's -emit-ast output (text form, not a graph format).
func dumpProgram(out *os.File, program *ast.Block) {
	dumpStmt(out, program, 0)
}

func indent(out *os.File, depth int) {
	fmt.Fprint(out, strings.Repeat("  ", depth))
}

func dumpStmt(out *os.File, s ast.Stmt, depth int) {
	indent(out, depth)
	switch n := s.(type) {
	case *ast.Empty:
		fmt.Fprintln(out, "Empty")
	case *ast.Seq:
		fmt.Fprintln(out, "Seq")
		dumpStmt(out, n.First, depth+1)
		dumpStmt(out, n.Rest, depth+1)
	case *ast.If:
		fmt.Fprintln(out, "If")
		dumpExpr(out, n.Test, depth+1)
		dumpStmt(out, n.Then, depth+1)
		dumpStmt(out, n.Else, depth+1)
	case *ast.While:
		fmt.Fprintln(out, "While")
		dumpExpr(out, n.Test, depth+1)
		dumpStmt(out, n.Body, depth+1)
	case *ast.Print:
		fmt.Fprintln(out, "Print")
		dumpExpr(out, n.Exp, depth+1)
	case *ast.ExprStmt:
		fmt.Fprintln(out, "ExprStmt")
		dumpExpr(out, n.Exp, depth+1)
	case *ast.Block:
		fmt.Fprintln(out, "Block")
		for _, d := range n.Decls {
			dumpDecl(out, d, depth+1)
		}
		dumpStmt(out, n.Body, depth+1)
	case *ast.VarDecl:
		fmt.Fprintf(out, "VarDecl %s : %s\n", n.Name, n.DeclType)
		if n.Init != nil {
			dumpExpr(out, n.Init, depth+1)
		}
	default:
		fmt.Fprintln(out, "???")
	}
}

func dumpDecl(out *os.File, d *ast.VarDecl, depth int) {
	indent(out, depth)
	fmt.Fprintf(out, "VarDecl %s : %s\n", d.Name, d.DeclType)
	if d.Init != nil {
		dumpExpr(out, d.Init, depth+1)
	}
}

func dumpExpr(out *os.File, e ast.Expr, depth int) {
	indent(out, depth)
	switch n := e.(type) {
	case *ast.IntLit:
		fmt.Fprintf(out, "IntLit %d\n", n.Value)
	case *ast.BoolLit:
		fmt.Fprintf(out, "BoolLit %v\n", n.Value)
	case *ast.Id:
		fmt.Fprintf(out, "Id %s\n", n.Name)
	case *ast.Add:
		dumpBin(out, "Add", n.Left, n.Right, depth)
	case *ast.Sub:
		dumpBin(out, "Sub", n.Left, n.Right, depth)
	case *ast.Mul:
		dumpBin(out, "Mul", n.Left, n.Right, depth)
	case *ast.BAnd:
		dumpBin(out, "BAnd", n.Left, n.Right, depth)
	case *ast.BOr:
		dumpBin(out, "BOr", n.Left, n.Right, depth)
	case *ast.BXor:
		dumpBin(out, "BXor", n.Left, n.Right, depth)
	case *ast.LAnd:
		dumpBin(out, "LAnd", n.Left, n.Right, depth)
	case *ast.LOr:
		dumpBin(out, "LOr", n.Left, n.Right, depth)
	case *ast.Eq:
		dumpBin(out, "Eq", n.Left, n.Right, depth)
	case *ast.Neq:
		dumpBin(out, "Neq", n.Left, n.Right, depth)
	case *ast.Lt:
		dumpBin(out, "Lt", n.Left, n.Right, depth)
	case *ast.Le:
		dumpBin(out, "Le", n.Left, n.Right, depth)
	case *ast.Gt:
		dumpBin(out, "Gt", n.Left, n.Right, depth)
	case *ast.Ge:
		dumpBin(out, "Ge", n.Left, n.Right, depth)
	case *ast.Neg:
		fmt.Fprintln(out, "Neg")
		dumpExpr(out, n.X, depth+1)
	case *ast.BNot:
		fmt.Fprintln(out, "BNot")
		dumpExpr(out, n.X, depth+1)
	case *ast.LNot:
		fmt.Fprintln(out, "LNot")
		dumpExpr(out, n.X, depth+1)
	case *ast.Assign:
		fmt.Fprintln(out, "Assign")
		dumpExpr(out, n.LHS, depth+1)
		dumpExpr(out, n.RHS, depth+1)
	default:
		fmt.Fprintln(out, "???")
	}
}

func dumpBin(out *os.File, name string, l, r ast.Expr, depth int) {
	fmt.Fprintln(out, name)
	dumpExpr(out, l, depth+1)
	dumpExpr(out, r, depth+1)
}
