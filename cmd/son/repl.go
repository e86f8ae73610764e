package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kristofer/son/internal/config"
	"github.com/kristofer/son/pkg/evaluator"
	"github.com/kristofer/son/pkg/image"
	"github.com/kristofer/son/pkg/object"
)

// runREPL starts a persistent image and reads one JSON AST value per
// input, printing its result or error, following the reference
// interpreter's own persistent-VM REPL loop shape (cmd/smog/main.go's
// runREPL), adapted for JSON input instead of textual Smalltalk source —
// there is no lexer/parser/compiler stage here, so each line is decoded
// directly as a JSON value and evaluated.
func runREPL(ctx context.Context, cfg config.Config) {
	img, closer, err := openImage(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "son:", err)
		os.Exit(1)
	}
	defer closer()

	fmt.Println("son REPL — enter a JSON AST value per line, :quit to exit")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("son> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case ":quit", ":exit":
			return
		case ":help":
			fmt.Println("enter a JSON AST value, e.g. [1, \"+\", 2]; :quit to leave")
			continue
		}

		evalREPLLine(img, line)
	}
}

func evalREPLLine(img *image.Image, line string) {
	var node any
	if err := json.Unmarshal([]byte(line), &node); err != nil {
		fmt.Println("parse error:", err)
		return
	}

	result, err := evaluator.Evaluate(node, img.Root)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(object.PrintString(result))
}
