package config

import (
	"bytes"
	"testing"
)

func TestExitfUsesSeams(t *testing.T) {
	var buf bytes.Buffer
	var code int
	prevErr, prevExit := stderr, exit
	stderr = &buf
	exit = func(c int) { code = c }
	t.Cleanup(func() { stderr, exit = prevErr, prevExit })

	Exitf("open %s: %v", "data/safedrive.db", "locked")

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if got := buf.String(); got != "open data/safedrive.db: locked\n" {
		t.Fatalf("stderr = %q", got)
	}
}
