package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
)

const defaultEditor = "vi"

// editBindingsCommand implements [tea.ExecCommand] for the edit-decode-retry
// loop over the session bindings. It writes the bindings to a temp file as a
// YAML mapping, opens the user's editor, and decodes the result. On error
// the user is prompted to re-edit; declining keeps the previous bindings.
type editBindingsCommand struct {
	bindings *lang.Bindings
	value    ValueFunc
	ctxFunc  func() context.Context
	result   *lang.Bindings
	logger   log.Logger
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editBindingsCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editBindingsCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editBindingsCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. It returns [ErrEditDeclined] if the user
// declines to fix content that does not decode.
func (c *editBindingsCommand) Run() error {
	ctx := c.ctxFunc()

	content, err := encodeBindings(ctx, c.bindings)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(os.TempDir(), "formula-bindings-*.yaml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		if content, err = os.ReadFile(tmpPath); err != nil {
			return err
		}

		b, decodeErr := decodeBindings(ctx, content, c.value)
		c.logger.TraceContext(
			ctx,
			"editor decode attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.result = b

			return nil
		}

		fmt.Fprintf(c.stderr, "\nerror: %s\n", decodeErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}
	}
}

// encodeBindings renders b as a YAML mapping of names to numbers and
// sequences of numbers, in name order.
func encodeBindings(ctx context.Context, b *lang.Bindings) ([]byte, error) {
	var doc yaml.MapSlice

	for _, name := range b.Names() {
		v, _ := b.Get(name)

		var item any = v.Float()
		if v.Kind() == lang.KindVector {
			item = v.Floats()
		}

		doc = append(doc, yaml.MapItem{Key: name, Value: item})
	}

	if len(doc) == 0 {
		return []byte("# name: value\n"), nil
	}

	return yaml.MarshalContext(ctx, doc, yaml.Flow(false))
}

// decodeBindings parses a YAML mapping into new bindings. Empty content
// yields empty bindings.
func decodeBindings(ctx context.Context, content []byte, value ValueFunc) (*lang.Bindings, error) {
	var doc map[string]any
	if err := yaml.UnmarshalContext(ctx, content, &doc); err != nil {
		return nil, err
	}

	values := make(map[string]lang.Value, len(doc))

	for name, raw := range doc {
		v, err := value(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		values[name] = v
	}

	b := lang.NewBindings()
	if d := b.SetAll(values); !d.OK() {
		return nil, d
	}

	return b, nil
}

// runEditor runs the user's editor on the file at path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
