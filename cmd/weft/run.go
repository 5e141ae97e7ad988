package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"weft/css"
	"weft/dom"
	"weft/state"
	"weft/style"
)

// loadText reads a file and transcodes it to UTF-8. When no encoding was
// forced on the command line the charset is detected from a BOM or assumed
// UTF-8.
func loadText(env *state.LocalEnv, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read input '%s': %w", path, err)
	}

	var r io.Reader
	if env.CodePage != nil {
		r = env.CodePage.NewDecoder().Reader(bytes.NewReader(data))
	} else {
		r, err = charset.NewReader(bytes.NewReader(data), "")
		if err != nil {
			return nil, fmt.Errorf("unable to detect encoding of '%s': %w", path, err)
		}
	}
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to decode input '%s': %w", path, err)
	}
	env.Log.Debug("Loaded input", zap.String("file", path), zap.Int("bytes", len(text)))
	return text, nil
}

func sourceArg(cmd *cli.Command, env *state.LocalEnv) (string, error) {
	if cmd.Args().Len() == 0 {
		return "", fmt.Errorf("no source file specified")
	}
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	return cmd.Args().Get(0), nil
}

// runDump implements the dump subcommand: parse markup, print the tree.
func runDump(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	src, err := sourceArg(cmd, env)
	if err != nil {
		return err
	}
	text, err := loadText(env, src)
	if err != nil {
		return err
	}

	doc, err := dom.NewParser(env.Log).Parse(text)
	if err != nil {
		return fmt.Errorf("unable to parse '%s': %w", src, err)
	}

	if cmd.Bool("markup") {
		out := doc.ToEtree()
		out.Indent(2)
		if _, err := out.WriteTo(os.Stdout); err != nil {
			return fmt.Errorf("unable to write markup: %w", err)
		}
		return nil
	}

	fmt.Print(doc)
	return nil
}

// runStyle implements the style subcommand: parse markup and stylesheet,
// cascade and print the styled tree.
func runStyle(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	src, err := sourceArg(cmd, env)
	if err != nil {
		return err
	}
	htmlText, err := loadText(env, src)
	if err != nil {
		return err
	}
	cssPath := cmd.String("stylesheet")
	cssText, err := loadText(env, cssPath)
	if err != nil {
		return err
	}

	doc, err := dom.NewParser(env.Log).Parse(htmlText)
	if err != nil {
		return fmt.Errorf("unable to parse '%s': %w", src, err)
	}
	sheet, err := css.NewParser(env.Log).Parse(cssText)
	if err != nil {
		return fmt.Errorf("unable to parse '%s': %w", cssPath, err)
	}

	styled := style.NewResolver(env.Log).Apply(doc, sheet)
	fmt.Print(styled)
	return nil
}
