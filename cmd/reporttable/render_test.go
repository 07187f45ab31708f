package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/reporttable/internal/config"
	"github.com/nao1215/reporttable/internal/model"
)

const statusDoc = `
title: Status
columns:
  - title: Task
  - title: Effort
lines:
  - cells:
      - text: Build
      - text: 3d
`

const emptyDoc = `
title: Empty
columns: []
lines: []
`

// writeFile writes content to name inside dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// executeRender runs the render command and returns stdout and stderr.
// An empty configuration file is used unless args select one.
func executeRender(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()

	cfgPath := writeFile(t, dir, "empty.yaml", "defaults: {}\n")

	var stdout, stderr bytes.Buffer
	cmd := NewRenderCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"-c", cfgPath, "--db-dir", filepath.Join(dir, "db")}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// TestNewRenderCmd tests the render command creation.
func TestNewRenderCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRenderCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "render [files...]" {
			t.Errorf("expected use 'render [files...]', got %q", cmd.Use)
		}
	})

	t.Run("has flags", func(t *testing.T) {
		t.Parallel()

		flags := []struct {
			name      string
			shorthand string
			defValue  string
		}{
			{"format", "f", config.DefaultFormat},
			{"output", "o", ""},
			{"document", "d", "false"},
			{"title", "t", ""},
			{"delimiter", "", config.DefaultDelimiter},
			{"pretty", "p", "false"},
			{"batch", "b", "4"},
			{"config", "c", ""},
			{"save", "s", "false"},
			{"json-logs", "", "false"},
		}

		for _, f := range flags {
			flag := cmd.Flags().Lookup(f.name)
			if flag == nil {
				t.Errorf("expected %s flag", f.name)
				continue
			}
			if flag.Shorthand != f.shorthand {
				t.Errorf("%s: expected shorthand %q, got %q", f.name, f.shorthand, flag.Shorthand)
			}
			if flag.DefValue != f.defValue {
				t.Errorf("%s: expected default %q, got %q", f.name, f.defValue, flag.DefValue)
			}
		}
	})

	t.Run("requires a source", func(t *testing.T) {
		t.Parallel()

		c := NewRenderCmd()
		c.SetOut(&bytes.Buffer{})
		c.SetErr(&bytes.Buffer{})
		c.SetArgs([]string{})
		if err := c.Execute(); err == nil {
			t.Error("expected error without sources")
		}
	})
}

// TestRunRenderCmd tests rendering through the command.
func TestRunRenderCmd(t *testing.T) {
	t.Parallel()

	t.Run("renders csv to stdout", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "status.yaml", statusDoc)

		stdout, _, err := executeRender(t, dir, "-f", "csv", src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "Task,Effort\nBuild,3d\n" {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("uses delimiter", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "status.yaml", statusDoc)

		stdout, _, err := executeRender(t, dir, "-f", "csv", "--delimiter", ";", src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(stdout, "Task;Effort\n") {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("renders html page to file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "status.yaml", statusDoc)
		out := filepath.Join(dir, "out", "status.html")

		stdout, _, err := executeRender(t, dir, "--document", "-o", out, src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}

		content, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("expected output file: %v", err)
		}
		for _, want := range []string{"<!DOCTYPE html>", "<title>Status</title>", "<table"} {
			if !strings.Contains(string(content), want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("renders several documents into a directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := writeFile(t, dir, "a.yaml", statusDoc)
		b := writeFile(t, dir, "b.yaml", statusDoc)
		outDir := filepath.Join(dir, "out")

		if _, _, err := executeRender(t, dir, "-f", "markdown", "-o", outDir, a, b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, name := range []string{"a.md", "b.md"} {
			content, err := os.ReadFile(filepath.Join(outDir, name))
			if err != nil {
				t.Fatalf("expected %s: %v", name, err)
			}
			if !strings.Contains(string(content), "Build") {
				t.Errorf("%s: unexpected content %q", name, content)
			}
		}
	})

	t.Run("reports fatal documents", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		good := writeFile(t, dir, "good.yaml", statusDoc)
		bad := writeFile(t, dir, "bad.yaml", emptyDoc)

		stdout, stderr, err := executeRender(t, dir, "-f", "csv", good, bad)
		if err == nil {
			t.Fatal("expected error for fatal document")
		}
		if !strings.Contains(err.Error(), "1 of 2") {
			t.Errorf("unexpected error: %v", err)
		}
		if !strings.Contains(stderr, "bad.yaml") {
			t.Errorf("expected failure on stderr, got %q", stderr)
		}
		if !strings.Contains(stdout, "Build") {
			t.Errorf("expected good document on stdout, got %q", stdout)
		}
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "status.yaml", statusDoc)

		_, _, err := executeRender(t, dir, "-f", "pdf", src)
		if err == nil || !strings.Contains(err.Error(), "configuration error") {
			t.Errorf("expected configuration error, got %v", err)
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "status.yaml", statusDoc)

		cmd := NewRenderCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"-c", filepath.Join(dir, "missing.yaml"), src})
		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "config file not found") {
			t.Errorf("expected config file error, got %v", err)
		}
	})
}

// TestSourceSettings tests precedence between flags and the config file.
func TestSourceSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", `
defaults:
  format: markdown
sources:
  "*.csv.yaml":
    format: csv
    delimiter: ";"
    title: From file
`)

	t.Run("file settings apply", func(t *testing.T) {
		t.Parallel()

		cmd := NewRenderCmd()
		if err := cmd.ParseFlags([]string{"-c", cfgPath}); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildConfig(cmd, []string{"weekly.csv.yaml", "other.yaml"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s := sourceSettings(cmd, cfg, "reports/weekly.csv.yaml")
		if s.Format != "csv" || s.Delimiter != ";" || s.Title != "From file" {
			t.Errorf("unexpected settings: %+v", s)
		}

		s = sourceSettings(cmd, cfg, "other.yaml")
		if s.Format != "markdown" {
			t.Errorf("expected default format from file, got %q", s.Format)
		}
	})

	t.Run("changed flags win", func(t *testing.T) {
		t.Parallel()

		cmd := NewRenderCmd()
		if err := cmd.ParseFlags([]string{"-c", cfgPath, "-f", "json", "-t", "Flag"}); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildConfig(cmd, []string{"weekly.csv.yaml"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s := sourceSettings(cmd, cfg, "weekly.csv.yaml")
		if s.Format != "json" || s.Title != "Flag" {
			t.Errorf("expected flag values, got %+v", s)
		}
		if s.Delimiter != ";" {
			t.Errorf("expected delimiter from file, got %q", s.Delimiter)
		}
	})
}

// TestOutputNames tests output file naming.
func TestOutputNames(t *testing.T) {
	t.Parallel()

	t.Run("replaces extension", func(t *testing.T) {
		t.Parallel()

		jobs := []*model.Job{
			model.NewJob("docs/a.yaml", model.FormatHTML),
			model.NewJob("b.json", model.FormatCSV),
			model.NewJob("c", model.FormatText),
		}
		names, err := outputNames(jobs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"a.html", "b.csv", "c.txt"}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("names[%d] = %q, expected %q", i, names[i], want[i])
			}
		}
	})

	t.Run("detects collisions", func(t *testing.T) {
		t.Parallel()

		jobs := []*model.Job{
			model.NewJob("x/a.yaml", model.FormatHTML),
			model.NewJob("y/a.yaml", model.FormatHTML),
		}
		if _, err := outputNames(jobs); err == nil {
			t.Error("expected collision error")
		}
	})
}
