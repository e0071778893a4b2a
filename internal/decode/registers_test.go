package decode_test

import (
	"testing"

	"github.com/keurnel/x86dis/internal/decode"
)

// TestRegisterByClassREX confirms the byte-register split: without REX,
// index 4-7 select AH/CH/DH/BH; with REX present (even REX.0000), they
// select SPL/BPL/SIL/DIL instead.
func TestRegisterByClassREX(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantReg decode.Register
	}{
		{"mov ah, al (no REX)", []byte{0x88, 0xC4}, decode.AH},
		{"mov spl, al (REX present)", []byte{0x40, 0x88, 0xC4}, decode.SPL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instr, ok := decode.Decode64(tt.input, 0)
			if !ok {
				t.Fatal("decode failed")
			}
			if instr.Operands[0].Reg != tt.wantReg {
				t.Errorf("dest reg = %v, want %v", instr.Operands[0].Reg, tt.wantReg)
			}
		})
	}
}

// TestRegisterByClassExtended confirms REX.R/B extend the 3-bit field
// into the r8-r15 range.
func TestRegisterByClassExtended(t *testing.T) {
	// REX.B(0x41) + mov r8, ecx-equivalent for 64-bit: 48+41 = REX.WB
	instr, ok := decode.Decode64([]byte{0x49, 0x89, 0xC8}, 0) // mov r8, rcx
	if !ok {
		t.Fatal("decode failed")
	}
	if instr.Operands[0].Reg != decode.R8 {
		t.Errorf("dest reg = %v, want R8", instr.Operands[0].Reg)
	}
	if instr.Operands[1].Reg != decode.RCX {
		t.Errorf("src reg = %v, want RCX", instr.Operands[1].Reg)
	}
}

// TestOperandSizeOverride confirms the 0x66 operand-size prefix selects
// the 16-bit register file.
func TestOperandSizeOverride(t *testing.T) {
	instr, ok := decode.Decode32([]byte{0x66, 0x89, 0xC8}, 0) // mov ax, cx
	if !ok {
		t.Fatal("decode failed")
	}
	if instr.Operands[0].Reg != decode.AX {
		t.Errorf("dest reg = %v, want AX", instr.Operands[0].Reg)
	}
	if instr.Flags&decode.FlagOpSizePrefix == 0 {
		t.Error("expected FlagOpSizePrefix to be set")
	}
}
