package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintUsageListsAllCommands(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)

	out := buf.String()
	for _, cmd := range commands {
		if !strings.Contains(out, cmd.name) {
			t.Errorf("usage does not mention %q", cmd.name)
		}
		if !strings.Contains(out, cmd.short) {
			t.Errorf("usage does not mention %q", cmd.short)
		}
	}
}

func TestPrintCommandHelp(t *testing.T) {
	for _, cmd := range commands {
		var buf bytes.Buffer
		printCommandHelp(&buf, cmd.name)
		if !strings.Contains(buf.String(), cmd.usage) {
			t.Errorf("help for %q does not show its usage line", cmd.name)
		}
	}
}

func TestPrintCommandHelpUnknown(t *testing.T) {
	var buf bytes.Buffer
	printCommandHelp(&buf, "frobnicate")
	if !strings.Contains(buf.String(), "unknown command") {
		t.Errorf("help output: %s", buf.String())
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	err := dispatch([]string{"frobnicate"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "frobnicate") {
		t.Errorf("error does not name the command: %v", err)
	}
}

func TestDispatchHelp(t *testing.T) {
	if err := dispatch(nil); err != nil {
		t.Errorf("dispatch(): %v", err)
	}
	if err := dispatch([]string{"help"}); err != nil {
		t.Errorf("dispatch(help): %v", err)
	}
	if err := dispatch([]string{"help", "ask"}); err != nil {
		t.Errorf("dispatch(help ask): %v", err)
	}
}
