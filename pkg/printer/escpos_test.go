package printer

import (
	"bytes"
	"context"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Milk 1L", 20, "Milk 1L"},
		{"Basmati Rice Premium 5kg", 10, "Basmati R~"},
		{"Chai", 0, ""},
		{"Chai", 1, "~"},
		{"Café", 10, "Caf?"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestItemLineFitsWidth(t *testing.T) {
	doc := NewDocument(32)
	start := len(doc.Bytes())
	doc.ItemLine(3, "An extremely long product name that cannot fit", "174.00")

	line := bytes.TrimSuffix(doc.Bytes()[start:], []byte{LF})
	if len(line) != 32 {
		t.Fatalf("expected a 32 char line, got %d: %q", len(line), line)
	}
	if !bytes.HasSuffix(line, []byte("174.00")) {
		t.Fatalf("total should stay right-aligned: %q", line)
	}
}

func TestKeyValue(t *testing.T) {
	doc := NewDocument(20)
	start := len(doc.Bytes())
	doc.KeyValue("TOTAL:", "228.60")
	got := string(doc.Bytes()[start:])
	want := "TOTAL:        228.60\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNewDocumentDefaultsWidth(t *testing.T) {
	if w := NewDocument(0).Width(); w != 32 {
		t.Fatalf("expected default width 32, got %d", w)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"none", Config{Type: TypeNone}, false},
		{"empty", Config{}, false},
		{"usb", Config{Type: TypeUSB, USBPath: "/dev/usb/lp0"}, false},
		{"usb without path", Config{Type: TypeUSB}, true},
		{"network", Config{Type: TypeNetwork, Address: "127.0.0.1:9100"}, false},
		{"network without address", Config{Type: TypeNetwork}, true},
		{"unknown", Config{Type: "bluetooth"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p == nil {
				t.Fatal("expected a printer")
			}
		})
	}
}

func TestNullPrinter(t *testing.T) {
	p := NewNullPrinter()
	if err := p.Print(context.Background(), []byte("job")); err != nil {
		t.Fatal(err)
	}
	if p.IsConnected() {
		t.Fatal("null printer is never connected")
	}
}
