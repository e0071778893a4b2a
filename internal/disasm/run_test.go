package disasm_test

import (
	"testing"

	"github.com/keurnel/x86dis/internal/diagnostics"
	"github.com/keurnel/x86dis/internal/disasm"
)

func TestRunDecodesSequentialInstructions(t *testing.T) {
	// nop; mov rax, rcx
	buf := []byte{0x90, 0x48, 0x89, 0xC8}
	diag := diagnostics.NewContext("test")

	results := disasm.Run(buf, 0x1000, disasm.Mode64, diag)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Address != 0x1000 || len(results[0].Raw) != 1 {
		t.Errorf("first result = %+v", results[0])
	}
	if results[1].Address != 0x1001 || len(results[1].Raw) != 3 {
		t.Errorf("second result = %+v", results[1])
	}
	if diag.HasErrors() {
		t.Errorf("unexpected errors: %v", diag.Errors())
	}
}

func TestRunResynchronizesAfterFailure(t *testing.T) {
	// 0x0F with an unrecognized second byte (0xFF isn't wired), then a nop.
	buf := []byte{0x0F, 0xFF, 0x90}
	diag := diagnostics.NewContext("test")

	results := disasm.Run(buf, 0, disasm.Mode64, diag)
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].OK {
		t.Fatal("expected the first decode to fail")
	}
	if !diag.HasErrors() {
		t.Error("expected the failure to be recorded in diagnostics")
	}

	last := results[len(results)-1]
	if !last.OK {
		t.Errorf("expected resynchronization to eventually find the trailing nop, got %+v", last)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    disasm.Mode
		wantErr bool
	}{
		{"16", disasm.Mode16, false},
		{"32", disasm.Mode32, false},
		{"64", disasm.Mode64, false},
		{"8", 0, true},
	}
	for _, tt := range tests {
		got, err := disasm.ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
