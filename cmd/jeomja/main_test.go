package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/reoring/jeomja"
	"github.com/reoring/jeomja/internal/tabledata"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestEncodeDecode(t *testing.T) {
	code, out, stderr := runCLI(t, "", "encode", "안녕")
	if code != 0 {
		t.Fatalf("encode exit %d: %s", code, stderr)
	}
	bits := strings.TrimSpace(out)
	if bits != jeomja.Encode("안녕").Bits() {
		t.Fatalf("encode output %q", bits)
	}

	code, out, stderr = runCLI(t, bits, "decode", "-")
	if code != 0 {
		t.Fatalf("decode exit %d: %s", code, stderr)
	}
	if got := strings.TrimSpace(out); got != "안녕" {
		t.Fatalf("decode output %q", got)
	}
}

func TestEncodeFormats(t *testing.T) {
	code, out, _ := runCLI(t, "", "encode", "-format", "unicode", "abc")
	if code != 0 || strings.TrimSpace(out) != jeomja.Encode("abc").Unicode() {
		t.Fatalf("unicode: %d %q", code, out)
	}

	code, out, _ = runCLI(t, "", "encode", "-format", "json", "1")
	if code != 0 {
		t.Fatalf("json exit %d", code)
	}
	var res map[string]any
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("json output: %v\n%s", err, out)
	}
	if res["binary"] != jeomja.Encode("1").Bits() {
		t.Fatalf("json binary %v", res["binary"])
	}

	if code, _, _ = runCLI(t, "", "encode", "-format", "xml", "a"); code != 2 {
		t.Fatalf("unknown format exit %d", code)
	}
}

func TestDecodeMarkerLanguage(t *testing.T) {
	_, out, _ := runCLI(t, "", "decode", "-lang", "en", "-format", "dots", "236")
	if got := strings.TrimSpace(out); got != "[unknown braille: 011001]" {
		t.Fatalf("en marker %q", got)
	}
	_, out, _ = runCLI(t, "", "decode", "-format", "dots", "236")
	if got := strings.TrimSpace(out); got != "[알 수 없는 점자: 011001]" {
		t.Fatalf("ko marker %q", got)
	}
}

func TestValidate(t *testing.T) {
	if code, out, _ := runCLI(t, "", "validate", "100000 110000"); code != 0 || strings.TrimSpace(out) != "valid" {
		t.Fatalf("valid: %d %q", code, out)
	}
	code, out, _ := runCLI(t, "", "validate", "11011 001100")
	if code != 1 || !strings.Contains(out, "/0 invalid_width") {
		t.Fatalf("invalid: %d %q", code, out)
	}
}

func TestTables(t *testing.T) {
	if code, out, _ := runCLI(t, "", "tables"); code != 0 || !strings.Contains(out, "no conflicts") {
		t.Fatalf("embedded: %d %q", code, out)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	bad := strings.Replace(string(tabledata.Default()), "  \"b\": \"12\"\n", "  \"b\": \"1\"\n", 1)
	if err := os.WriteFile(path, []byte(bad), 0o600); err != nil {
		t.Fatal(err)
	}
	code, out, _ := runCLI(t, "", "tables", "-file", path)
	if code != 1 || !strings.Contains(out, jeomja.CodeDuplicateGlyph) {
		t.Fatalf("conflicting: %d %q", code, out)
	}
}

func TestRenderRecover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if code, _, stderr := runCLI(t, "", "render", "-o", path, "점자 abc"); code != 0 {
		t.Fatalf("render exit %d: %s", code, stderr)
	}
	code, out, stderr := runCLI(t, "", "recover", path)
	if code != 0 {
		t.Fatalf("recover exit %d: %s", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != jeomja.Encode("점자 abc").Bits() || lines[1] != "점자 abc" {
		t.Fatalf("recover output %q", out)
	}
}

func TestUsage(t *testing.T) {
	if code, _, _ := runCLI(t, ""); code != 2 {
		t.Fatalf("no args exit %d", code)
	}
	if code, _, _ := runCLI(t, "", "bogus"); code != 2 {
		t.Fatalf("unknown exit %d", code)
	}
	if code, _, _ := runCLI(t, "", "render", "a"); code != 2 {
		t.Fatalf("render without -o exit %d", code)
	}
}

func TestTablesCommonFlag(t *testing.T) {
	dir := t.TempDir()
	conflicting := filepath.Join(dir, "conflicting.yaml")
	bad := strings.Replace(string(tabledata.Default()), "  \"b\": \"12\"\n", "  \"b\": \"1\"\n", 1)
	if err := os.WriteFile(conflicting, []byte(bad), 0o600); err != nil {
		t.Fatal(err)
	}
	malformed := filepath.Join(dir, "malformed.yaml")
	if err := os.WriteFile(malformed, []byte("name: x\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	code, out, _ := runCLI(t, "", "tables", "-tables", conflicting)
	if code != 1 || !strings.Contains(out, jeomja.CodeDuplicateGlyph) {
		t.Fatalf("-tables conflicting: %d %q", code, out)
	}
	code, out, _ = runCLI(t, "", "tables", "-tables", malformed)
	if code != 1 || !strings.Contains(out, jeomja.CodeInvalidTable) {
		t.Fatalf("-tables malformed: %d %q", code, out)
	}
}

func TestServeConfigFlags(t *testing.T) {
	dir := t.TempDir()
	tables := filepath.Join(dir, "tables.yaml")
	if err := os.WriteFile(tables, tabledata.Default(), 0o600); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "jeomja.toml")
	if err := os.WriteFile(cfgPath, []byte("language = \"en\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := &cli{stdin: strings.NewReader(""), stdout: io.Discard, stderr: io.Discard}
	cfg, err := c.serveConfig([]string{"-config", cfgPath})
	if err != nil {
		t.Fatalf("serveConfig: %v", err)
	}
	if cfg.Language != "en" || cfg.Tables.Path != "" || cfg.Log.Level != "info" {
		t.Fatalf("file values not kept: %+v", cfg)
	}

	c = &cli{stdin: strings.NewReader(""), stdout: io.Discard, stderr: io.Discard}
	cfg, err = c.serveConfig([]string{"-config", cfgPath, "-lang", "ko", "-tables", tables, "-v"})
	if err != nil {
		t.Fatalf("serveConfig: %v", err)
	}
	if cfg.Language != "ko" || cfg.Tables.Path != tables || cfg.Log.Level != "debug" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestServeRejectsBadFlags(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	if code, _, stderr := runCLI(t, "", "serve", "-tables", missing); code != 1 || !strings.Contains(stderr, "tables.path") {
		t.Fatalf("missing tables: %d %q", code, stderr)
	}
	if code, _, stderr := runCLI(t, "", "serve", "-lang", "fr"); code != 1 || !strings.Contains(stderr, "language") {
		t.Fatalf("bad language: %d %q", code, stderr)
	}
}
