package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestCategoriesCmd(t *testing.T) {
	cmd := NewCategoriesCmd()
	cmd.SetArgs([]string{})

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	for _, want := range []string{"feature", "bugfix", "refactor", "testing", "ui", "other"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q: %q", want, out.String())
		}
	}
}
