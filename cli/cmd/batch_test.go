package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/formula/lang"
)

func writeRows(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rows.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

const batchRows = `
- {x: 1, v: [1, 2]}
- {x: 2, v: [3]}
- {x: 3}
- {x: "{1}", v: [0]}
`

func TestBatch_Text(t *testing.T) {
	var buf bytes.Buffer

	b := Batch{
		Formula: "'x' * sum('v')",
		Rows:    writeRows(t, batchRows),
		Jobs:    2,
		w:       &buf,
	}

	if err := b.Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 4 {
		t.Fatalf("output:\n%s", buf.String())
	}

	for i, want := range []string{"0\t3", "1\t6"} {
		if string(lines[i]) != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}

	for _, i := range []int{2, 3} {
		if !bytes.Contains(lines[i], []byte("\terror: ")) {
			t.Errorf("line %d = %q, want error", i, lines[i])
		}
	}
}

func TestBatch_JSON(t *testing.T) {
	var buf bytes.Buffer

	b := Batch{
		Formula: "'x' / 0",
		Rows:    writeRows(t, `[{"x": 1}, {"x": 0}]`),
		Output:  OutputJSON,
		w:       &buf,
	}

	if err := b.Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}

	if len(got) != 2 || got[0]["value"] != "+Inf" || got[1]["value"] != "NaN" || got[1]["row"] != 1.0 {
		t.Errorf("json = %v", got)
	}
}

func TestBatch_CompileError(t *testing.T) {
	b := Batch{Formula: "IF(1,2)", Rows: writeRows(t, "[]")}

	if err := b.Run(t.Context()); !errors.Is(err, ErrCompile) {
		t.Errorf("error = %v, want ErrCompile", err)
	}
}

func TestEvaluate_Order(t *testing.T) {
	p := lang.MustCompile("'i' * 2", Cache().Registry())

	rows := make([]map[string]any, 100)
	for i := range rows {
		rows[i] = map[string]any{"i": float64(i)}
	}

	for _, jobs := range []int{0, 1, 7, 500} {
		results := Evaluate(t.Context(), p, rows, jobs)
		if len(results) != len(rows) {
			t.Fatalf("jobs %d: %d results", jobs, len(results))
		}

		for i, r := range results {
			if r.Row != i || r.Value != float64(2*i) || r.Error != "" {
				t.Errorf("jobs %d: result %d = %+v", jobs, i, r)

				break
			}
		}
	}

	if got := Evaluate(t.Context(), p, nil, 4); len(got) != 0 {
		t.Errorf("no rows: %v", got)
	}
}
