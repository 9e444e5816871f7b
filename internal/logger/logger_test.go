package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogAndTail(t *testing.T) {
	Clear()
	Log(Allow, "cpu", "reset")
	Logf(Allow, "ppu", "frame %d", 1)
	Log(Flag(false), "bus", "dropped")

	entries := Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	var buf bytes.Buffer
	Tail(&buf, 1)
	if got := buf.String(); got != "ppu: frame 1\n" {
		t.Errorf("unexpected tail output %q", got)
	}
}

func TestRepeatedEntriesFold(t *testing.T) {
	Clear()
	for i := 0; i < 3; i++ {
		Log(Allow, "bus", "nmi")
	}

	entries := Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 folded entry, got %d", len(entries))
	}
	if !strings.Contains(entries[0].String(), "repeat x3") {
		t.Errorf("expected repeat count in %q", entries[0].String())
	}
}

func TestLogIsBounded(t *testing.T) {
	Clear()
	for i := 0; i < MaxEntries+10; i++ {
		Logf(Allow, "test", "entry %d", i)
	}

	entries := Entries()
	if len(entries) != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, len(entries))
	}
	if entries[0].Detail != "entry 10" {
		t.Errorf("oldest entry should be dropped first, got %q", entries[0].Detail)
	}
}

func TestEcho(t *testing.T) {
	Clear()
	var buf bytes.Buffer
	SetEcho(&buf)
	defer SetEcho(nil)

	Log(Allow, "app", "hello")
	if buf.String() != "app: hello\n" {
		t.Errorf("unexpected echo %q", buf.String())
	}
}
