// Command sipc is the SIP compiler driver: build lexes, parses, infers, and
// lowers a source file to LLVM IR; check runs the front end only and prints
// inferred signatures; repl is a line-at-a-time type inspector. Modeled on
// the teacher's single flag-based cmd/ailang/main.go rather than a
// subcommand framework.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sipforge/sip/internal/config"
	"github.com/sipforge/sip/internal/parser"
	"github.com/sipforge/sip/internal/pipeline"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		outFlag    = flag.String("o", "", "output path for build (default: <file>.ll)")
		configFlag = flag.String("config", "sip.yaml", "path to compiler configuration")
		helpFlag   = flag.Bool("help", false, "show help")
	)
	flag.Parse()

	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	switch cmd := flag.Arg(0); cmd {
	case "build":
		if flag.NArg() < 2 {
			usage("sipc build <file.sip>")
		}
		build(flag.Arg(1), *outFlag, cfg)
	case "check":
		if flag.NArg() < 2 {
			usage("sipc check <file.sip>")
		}
		check(flag.Arg(1))
	case "repl":
		repl()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), cmd)
		printHelp()
		os.Exit(1)
	}
}

func usage(msg string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", red("Error"), msg)
	os.Exit(1)
}

func printHelp() {
	fmt.Println(bold("sipc - the SIP compiler"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sipc build <file.sip>   lex, parse, infer, and lower to LLVM IR")
	fmt.Println("  sipc check <file.sip>   type-check only, print inferred signatures")
	fmt.Println("  sipc repl               interactive type inspector")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func readSource(path string) []byte {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read file %q: %v\n", red("Error"), path, err)
		os.Exit(1)
	}
	if !strings.HasSuffix(path, ".sip") {
		fmt.Fprintf(os.Stderr, "%s: file should have a .sip extension\n", yellow("Warning"))
	}
	return content
}

func build(path, out string, cfg *config.Config) {
	content := readSource(path)
	r, errs := pipeline.Compile(content, path)
	if len(errs) > 0 {
		reportErrors(errs)
		os.Exit(1)
	}

	if cfg.Target.Triple != "" {
		r.Module.TargetTriple = cfg.Target.Triple
	}

	ir := r.Module.String()
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".ll"
	}
	if err := os.WriteFile(out, []byte(ir), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot write %q: %v\n", red("Error"), out, err)
		os.Exit(1)
	}
	fmt.Printf("%s %s\n", cyan("wrote"), out)
}

func check(path string) {
	content := readSource(path)
	prog, errs := parser.ParseProgram(content, path)
	if len(errs) > 0 {
		reportErrors(errs)
		os.Exit(1)
	}
	r, err := pipeline.Check(prog)
	if err != nil {
		reportErrors([]error{err})
		os.Exit(1)
	}

	for _, f := range r.Table.Functions() {
		fmt.Printf("%s : %s\n", bold(f.Name), r.Collector.TypeOf(f).String())
	}
}

func reportErrors(errs []error) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), e)
	}
}

func repl() {
	fmt.Printf("%s - type-checking REPL\n", bold("sipc"))
	fmt.Println("Type :quit to exit. Each line is wrapped in its own main() and checked.")
	fmt.Println()

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".sipc_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	for {
		input, err := line.Prompt("sip> ")
		if err != nil {
			fmt.Println(yellow("\nGoodbye!"))
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" {
			fmt.Println(yellow("Goodbye!"))
			return
		}
		line.AppendHistory(input)

		src := "main(){ " + input + " }"
		prog, errs := parser.ParseProgram([]byte(src), "repl")
		if len(errs) > 0 {
			reportErrors(errs)
			continue
		}
		r, err := pipeline.Check(prog)
		if err != nil {
			reportErrors([]error{err})
			continue
		}
		mainFn, _ := r.Table.GetFunction("main")
		fmt.Println(cyan(r.Collector.TypeOf(mainFn).String()))
	}
}
