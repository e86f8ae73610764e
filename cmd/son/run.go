package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kristofer/son/internal/config"
	"github.com/kristofer/son/pkg/evaluator"
	"github.com/kristofer/son/pkg/object"
)

// runFile loads an image, decodes path as a single JSON AST value, and
// evaluates it as a top-level sequence, printing the result.
func runFile(ctx context.Context, cfg config.Config, path string) error {
	img, closer, err := openImage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var node any
	if err := json.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	var result object.Value
	if stmts, ok := node.([]any); ok {
		for _, stmt := range stmts {
			if result, err = evaluator.Evaluate(stmt, img.Root); err != nil {
				return fmt.Errorf("evaluate %s: %w", path, err)
			}
		}
	} else if result, err = evaluator.Evaluate(node, img.Root); err != nil {
		return fmt.Errorf("evaluate %s: %w", path, err)
	}

	fmt.Println(object.PrintString(result))
	return nil
}
