package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/lutgen/pkg"
)

// testContext returns a context reading stdin from input and capturing
// command output.
func testContext(t *testing.T, input string) (context.Context, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	ctx := WithOutput(context.Background(), &out)
	ctx = WithInput(ctx, strings.NewReader(input))

	return ctx, &out
}

// writeFile writes content to name in a new temporary directory and
// returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestUniqueSources(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	link := filepath.Join(dir, "link.yaml")

	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	missing := filepath.Join(dir, "missing.yaml")

	got := uniqueSources([]string{"-", a, link, b, "-", a, missing})
	want := []string{a, b, missing, "-"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("uniqueSources mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSource(t *testing.T) {
	ctx, _ := testContext(t, "from stdin")

	data, err := readSource(ctx, "-")
	if err != nil || string(data) != "from stdin" {
		t.Errorf("readSource(-) = %q, %v", data, err)
	}

	path := writeFile(t, "spec.lut", "from file")

	data, err = readSource(ctx, path)
	if err != nil || string(data) != "from file" {
		t.Errorf("readSource(file) = %q, %v", data, err)
	}

	_, err = readSource(ctx, filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, pkg.ErrReadInput) {
		t.Errorf("readSource(missing) error = %v, want ErrReadInput", err)
	}
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()

	if outputFrom(ctx) != os.Stdout {
		t.Error("outputFrom() default is not os.Stdout")
	}

	if inputFrom(ctx) != os.Stdin {
		t.Error("inputFrom() default is not os.Stdin")
	}

	if kongContextFrom(ctx) != nil {
		t.Error("kongContextFrom() default is not nil")
	}

	if got := kongVar(ctx, ConfigIdentifier); got != "" {
		t.Errorf("kongVar() = %q, want empty", got)
	}
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := ErrGenerate.Wrap(cause)

	if !errors.Is(err, ErrGenerate) || !errors.Is(err, cause) {
		t.Errorf("derived error %v does not match its sentinel and cause", err)
	}

	if errors.Is(err, ErrCheck) {
		t.Error("derived error matches an unrelated sentinel")
	}

	if got := err.Error(); got != "generate tables: boom" {
		t.Errorf("Error() = %q", got)
	}

	if got := ErrCheck.With().Error(); got != "check failed" {
		t.Errorf("Error() = %q", got)
	}

	in := err.In("tables.yaml")
	if got := in.Error(); got != "tables.yaml: generate tables: boom" {
		t.Errorf("Error() = %q", got)
	}

	if !errors.Is(in, ErrGenerate) || errors.Is(err, in) {
		t.Error("attributed error does not behave as a derived error")
	}

	if _, ok := in.Position(); ok {
		t.Error("Position() reported a position without a lang.Error cause")
	}
}
