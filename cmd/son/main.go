// Command son is the SON CLI: a REPL, a file runner, and the HTTP
// surface server, following the reference interpreter's own
// os.Args[1]-dispatch shape in cmd/smog/main.go.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kristofer/son/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		runREPL(context.Background(), config.Default())
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Println("son", version)
	case "help":
		printHelp()
	case "run":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: son run <file.son>")
			os.Exit(1)
		}
		cfg, err := config.Load("", os.Args[3:])
		if err != nil {
			fmt.Fprintln(os.Stderr, "son:", err)
			os.Exit(1)
		}
		if err := runFile(context.Background(), cfg, os.Args[2]); err != nil {
			fmt.Fprintln(os.Stderr, "son:", err)
			os.Exit(1)
		}
	case "serve":
		cfg, err := config.Load("", os.Args[2:])
		if err != nil {
			fmt.Fprintln(os.Stderr, "son:", err)
			os.Exit(1)
		}
		if err := runServe(context.Background(), cfg); err != nil {
			fmt.Fprintln(os.Stderr, "son:", err)
			os.Exit(1)
		}
	default:
		cfg, err := config.Load("", os.Args[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, "son:", err)
			os.Exit(1)
		}
		runREPL(context.Background(), cfg)
	}
}

func printHelp() {
	fmt.Println(`son - a live SON (Smalltalk Object Notation) environment

Usage:
  son                 start an interactive REPL
  son run <file.son>  evaluate a JSON AST file and print the result
  son serve           start the HTTP surface
  son version         print the version
  son help            print this message

Flags (for run/serve):
  -config <path>   YAML file of defaults, applied before the flags below
  -db <dsn>        sqlite3 datasource; omit for an in-memory store
  -addr <addr>     address for serve to listen on
  -log-level <lv>  debug, info, warn, error`)
}
