package format_test

import (
	"testing"

	"github.com/keurnel/x86dis/internal/decode"
	"github.com/keurnel/x86dis/internal/format"
)

func TestInstructionRendersRegisterForm(t *testing.T) {
	instr, ok := decode.Decode64([]byte{0x48, 0x89, 0xC8}, 0) // mov rax, rcx
	if !ok {
		t.Fatal("decode failed")
	}
	got := format.Instruction(instr, format.Options{})
	want := "mov rax, rcx"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInstructionRendersLockPrefix(t *testing.T) {
	instr, ok := decode.Decode64([]byte{0xF0, 0x01, 0x08}, 0) // lock add [rax], ecx
	if !ok {
		t.Fatal("decode failed")
	}
	got := format.Instruction(instr, format.Options{})
	want := "lock add dword [rax], ecx"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInstructionSymbolAnnotation(t *testing.T) {
	instr, ok := decode.Decode64([]byte{0xE8, 0x00, 0x00, 0x00, 0x00}, 0x1000) // call +5
	if !ok {
		t.Fatal("decode failed")
	}
	table := format.NewSymbolTable()
	table.Add(format.Symbol{Identifier: "target_fn", Address: 0x1005})

	got := format.Instruction(instr, format.Options{Symbols: table})
	want := "call target_fn"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTemplateDirectives(t *testing.T) {
	instr, ok := decode.Decode64([]byte{0x90}, 0x400000) // nop
	if !ok {
		t.Fatal("decode failed")
	}
	got := format.Template("%8a  %2b  %8i%o", instr, []byte{0x90}, 0x400000, 8, format.Options{})
	want := "00400000  90    nop     "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
