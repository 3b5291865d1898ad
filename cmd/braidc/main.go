package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lhaig/braid/internal/compiler"
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/linter"
	"github.com/lhaig/braid/internal/webgl"
)

const usage = `braidc - staged WebGL backend for Braid IR

Usage:
  braidc build [options] <file.json>    Compile IR to a JavaScript unit (or GLSL)
  braidc check <file.json>              Run staging checks only
  braidc lint <file.json>               Report staging style warnings
  braidc dump <file.json>               Print the IR as a tree
  braidc runtime                        Print the WebGL runtime prelude

Options:
  -o <file>      Write output to <file> (default: <input>.js)
  --emit-glsl    Output the shader programs as GLSL instead of JavaScript
  --verbose      Report each step on stderr

Examples:
  braidc build scene.json               Write scene.js
  braidc build --emit-glsl scene.json   Write scene.glsl
  braidc check scene.json               Check for staging errors without emitting
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "build":
		handleBuild(os.Args[2:])
	case "check":
		handleCheck(os.Args[2:])
	case "lint":
		handleLint(os.Args[2:])
	case "dump":
		handleDump(os.Args[2:])
	case "runtime":
		fmt.Println(webgl.Runtime())
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func handleBuild(args []string) {
	target := "webgl"
	verbose := false
	var filePath, outPath string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--emit-glsl":
			target = "glsl"
		case "--verbose":
			verbose = true
		case "-o":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: -o requires a file name")
				os.Exit(1)
			}
			i++
			outPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
				os.Exit(1)
			}
			filePath = arg
		}
	}

	if filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}
	if outPath == "" {
		outPath = compiler.OutputPath(filePath, target)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Compiling %s for %s...\n", filePath, target)
		if c, err := compiler.Load(filePath); err == nil {
			for _, line := range compiler.Summary(c) {
				fmt.Fprintf(os.Stderr, "  %s\n", line)
			}
		}
	}
	if err := compiler.EmitToTarget(filePath, target, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", outPath)
}

func handleCheck(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	filePath := args[0]

	c, err := compiler.Load(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	diag := compiler.Check(c)
	if diag.HasErrors() {
		fmt.Fprintf(os.Stderr, "%s\n", diag.Format(filePath))
		os.Exit(1)
	}
	if diag.Count() > 0 {
		fmt.Println(diag.Format(filePath))
	}

	fmt.Println("No errors found.")
}

func handleLint(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	filePath := args[0]
	c, err := compiler.Load(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	diag := linter.Lint(c)
	if diag.Count() > 0 {
		fmt.Println(diag.Format(filePath))
		return
	}
	fmt.Println("No lint warnings.")
}

func handleDump(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	c, err := compiler.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	fmt.Print(ir.Print(c))
}
