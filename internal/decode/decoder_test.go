package decode_test

import (
	"testing"

	"github.com/keurnel/x86dis/internal/decode"
)

// TestDecodeScenarios exercises the named end-to-end byte sequences: one
// fixed input per row, checked against its exact expected operation,
// operand shape, and instruction length.
func TestDecodeScenarios(t *testing.T) {
	tests := []struct {
		name      string
		mode      func([]byte, int64) (decode.Instruction, bool)
		addr      int64
		input     []byte
		wantOK    bool
		wantOp    decode.Operation
		wantLen   int
		checkOps  func(t *testing.T, ops [3]decode.InstructionOperand)
	}{
		{
			name:    "nop",
			mode:    decode.Decode64,
			input:   []byte{0x90},
			wantOK:  true,
			wantOp:  decode.NOP,
			wantLen: 1,
		},
		{
			name:    "mov rax, rcx",
			mode:    decode.Decode64,
			input:   []byte{0x48, 0x89, 0xC8},
			wantOK:  true,
			wantOp:  decode.MOV,
			wantLen: 3,
			checkOps: func(t *testing.T, ops [3]decode.InstructionOperand) {
				if ops[0].Kind != decode.OperandReg || ops[0].Reg != decode.RAX {
					t.Errorf("operand0 = %+v, want reg RAX", ops[0])
				}
				if ops[1].Kind != decode.OperandReg || ops[1].Reg != decode.RCX {
					t.Errorf("operand1 = %+v, want reg RCX", ops[1])
				}
			},
		},
		{
			name:    "mov eax, [0x12345678] with address-size override",
			mode:    decode.Decode64,
			input:   []byte{0x67, 0x8B, 0x04, 0x25, 0x78, 0x56, 0x34, 0x12},
			wantOK:  true,
			wantOp:  decode.MOV,
			wantLen: 8,
			checkOps: func(t *testing.T, ops [3]decode.InstructionOperand) {
				if ops[0].Kind != decode.OperandReg || ops[0].Reg != decode.EAX {
					t.Errorf("operand0 = %+v, want reg EAX", ops[0])
				}
				if ops[1].Kind != decode.OperandMem || ops[1].Immediate != 0x12345678 {
					t.Errorf("operand1 = %+v, want mem disp 0x12345678", ops[1])
				}
			},
		},
		{
			name:    "call rel32",
			mode:    decode.Decode64,
			addr:    0x1000,
			input:   []byte{0xE8, 0x00, 0x00, 0x00, 0x00},
			wantOK:  true,
			wantOp:  decode.CALLN,
			wantLen: 5,
			checkOps: func(t *testing.T, ops [3]decode.InstructionOperand) {
				if ops[0].Kind != decode.OperandImm || ops[0].Immediate != 0x1005 {
					t.Errorf("operand0 = %+v, want imm 0x1005", ops[0])
				}
			},
		},
		{
			name:    "lock add is legal",
			mode:    decode.Decode64,
			input:   []byte{0xF0, 0x83, 0x00, 0x01},
			wantOK:  true,
			wantOp:  decode.ADD,
			wantLen: 4,
		},
		{
			name:   "lock cmp is illegal",
			mode:   decode.Decode64,
			input:  []byte{0xF0, 0x39, 0xC1},
			wantOK: false,
		},
		{
			name:    "fld1",
			mode:    decode.Decode64,
			input:   []byte{0xD9, 0xE8},
			wantOK:  true,
			wantOp:  decode.FLD1,
			wantLen: 2,
		},
		{
			name:    "mov rax, imm64",
			mode:    decode.Decode64,
			input:   []byte{0x48, 0xB8, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88},
			wantOK:  true,
			wantOp:  decode.MOV,
			wantLen: 10,
		},
		{
			name:   "truncated rep movsb",
			mode:   decode.Decode64,
			input:  []byte{0xF3},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instr, ok := tt.mode(tt.input, tt.addr)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if instr.Operation != tt.wantOp {
				t.Errorf("operation = %v, want %v", instr.Operation, tt.wantOp)
			}
			if instr.Length != tt.wantLen {
				t.Errorf("length = %d, want %d", instr.Length, tt.wantLen)
			}
			if tt.checkOps != nil {
				tt.checkOps(t, instr.Operands)
			}
		})
	}
}

// TestMovImm64ExactValue checks the one non-sign-extended immediate path
// in the decoder: MOV r64, imm64 must read all eight bytes verbatim.
func TestMovImm64ExactValue(t *testing.T) {
	input := []byte{0x48, 0xB8, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}
	instr, ok := decode.Decode64(input, 0)
	if !ok {
		t.Fatal("decode failed")
	}
	want := uint64(0x8877665544332211)
	if uint64(instr.Operands[1].Immediate) != want {
		t.Errorf("immediate = %#x, want %#x", uint64(instr.Operands[1].Immediate), want)
	}
}

// TestInvariantOperandPadding confirms unused operand slots stay at the
// zero value (OperandNone) rather than leaking stale data.
func TestInvariantOperandPadding(t *testing.T) {
	instr, ok := decode.Decode64([]byte{0x90}, 0)
	if !ok {
		t.Fatal("decode failed")
	}
	for i, op := range instr.Operands {
		if op.Kind != decode.OperandNone {
			t.Errorf("operand[%d].Kind = %v, want OperandNone", i, op.Kind)
		}
	}
}

// TestInvariantLockRequiresMemoryOperand confirms LOCK is rejected when
// neither operand is memory, even for an otherwise lockable operation.
func TestInvariantLockRequiresMemoryOperand(t *testing.T) {
	// lock add eax, ecx — both operands are registers, no memory operand.
	_, ok := decode.Decode64([]byte{0xF0, 0x01, 0xC8}, 0)
	if ok {
		t.Fatal("expected LOCK without a memory operand to fail")
	}
}

// TestInvariantCSNotMovDestination confirms the narrow CS-as-destination
// rejection on the MOV-to-segment-register form, while leaving PUSH CS
// (whose sole operand legitimately is CS) valid. PUSH CS is decoded in
// 32-bit mode because opcode 0x0E is invalid in 64-bit mode.
func TestInvariantCSNotMovDestination(t *testing.T) {
	// mov cs, ax (reg field selects CS, the segment-register destination form)
	_, ok := decode.Decode64([]byte{0x8E, 0xC8}, 0)
	if ok {
		t.Fatal("expected mov cs, ax to fail")
	}

	instr, ok := decode.Decode32([]byte{0x0E}, 0)
	if !ok {
		t.Fatal("push cs should decode")
	}
	if instr.Operands[0].Reg != decode.CS {
		t.Errorf("push cs operand = %v, want CS", instr.Operands[0].Reg)
	}
}

// TestInvariantCallFarRequiresMemory confirms group 5's far call/jump
// forms require a memory operand (register forms are unencodable for
// far control transfers).
func TestInvariantCallFarRequiresMemory(t *testing.T) {
	// ff /3 with mod=3 selects a register operand, illegal for CALLF.
	_, ok := decode.Decode64([]byte{0xFF, 0xD8}, 0)
	if ok {
		t.Fatal("expected far call with register operand to fail")
	}
}

// TestInvariantLengthBound confirms a decode never reports a length
// exceeding the 15-byte architectural instruction limit.
func TestInvariantLengthBound(t *testing.T) {
	// REX + many redundant legacy prefixes followed by a valid opcode.
	input := make([]byte, 0, 20)
	for i := 0; i < 14; i++ {
		input = append(input, 0x66)
	}
	input = append(input, 0x90)
	instr, _ := decode.Decode64(input, 0)
	if instr.Length > 15 {
		t.Errorf("length = %d, exceeds 15-byte limit", instr.Length)
	}
}

// TestRIPRelativeFixup confirms a RIP-relative operand's immediate
// resolves to instruction_address + instruction_length + disp32.
func TestRIPRelativeFixup(t *testing.T) {
	// mov eax, [rip+0x10]
	instr, ok := decode.Decode64([]byte{0x8B, 0x05, 0x10, 0x00, 0x00, 0x00}, 0x1000)
	if !ok {
		t.Fatal("decode failed")
	}
	want := int64(0x1000 + 6 + 0x10)
	if instr.Operands[1].Immediate != want {
		t.Errorf("rip-relative address = %#x, want %#x", instr.Operands[1].Immediate, want)
	}
}

// TestInsOutsPortOperand confirms INS/OUTS decode to a DX port operand
// paired with the DI/SI-indexed memory string, not a stub.
func TestInsOutsPortOperand(t *testing.T) {
	// insb
	instr, ok := decode.Decode64([]byte{0x6C}, 0)
	if !ok {
		t.Fatal("insb failed to decode")
	}
	if instr.Operation != decode.INSB {
		t.Errorf("operation = %v, want INSB", instr.Operation)
	}
	if instr.Operands[1].Kind != decode.OperandReg || instr.Operands[1].Reg != decode.DX {
		t.Errorf("insb operand1 = %+v, want reg DX", instr.Operands[1])
	}
	if instr.Operands[0].Kind != decode.OperandMem {
		t.Errorf("insb operand0 = %+v, want mem", instr.Operands[0])
	}

	// outsb
	instr, ok = decode.Decode64([]byte{0x6E}, 0)
	if !ok {
		t.Fatal("outsb failed to decode")
	}
	if instr.Operation != decode.OUTSB {
		t.Errorf("operation = %v, want OUTSB", instr.Operation)
	}
	if instr.Operands[0].Kind != decode.OperandReg || instr.Operands[0].Reg != decode.DX {
		t.Errorf("outsb operand0 = %+v, want reg DX", instr.Operands[0])
	}
}

// TestSyscallValidIn64BitMode confirms 0F 05 decodes in 64-bit mode,
// where SYSCALL is actually used (it is the fInvalid64-flagged segment
// push/pops that are invalid there, not this opcode).
func TestSyscallValidIn64BitMode(t *testing.T) {
	instr, ok := decode.Decode64([]byte{0x0F, 0x05}, 0)
	if !ok {
		t.Fatal("syscall failed to decode in 64-bit mode")
	}
	if instr.Operation != decode.SYSCALL {
		t.Errorf("operation = %v, want SYSCALL", instr.Operation)
	}
}

// TestRepFlagsUnconditionalVsConditional confirms the REP-prefix flag
// reporting asymmetry: MOVS (unconditional) reports a single generic
// FlagRep for either F2 or F3, while SCAS (conditional) distinguishes
// FlagRepe from FlagRepne.
func TestRepFlagsUnconditionalVsConditional(t *testing.T) {
	// f2 movsb
	instr, ok := decode.Decode64([]byte{0xF2, 0xA4}, 0)
	if !ok {
		t.Fatal("f2 movsb failed to decode")
	}
	if instr.Flags&decode.FlagRep == 0 {
		t.Error("expected FlagRep for f2-prefixed movsb")
	}
	if instr.Flags&(decode.FlagRepe|decode.FlagRepne) != 0 {
		t.Error("movsb should not set FlagRepe/FlagRepne")
	}

	// f2 scasb
	instr, ok = decode.Decode64([]byte{0xF2, 0xAE}, 0)
	if !ok {
		t.Fatal("f2 scasb failed to decode")
	}
	if instr.Flags&decode.FlagRepne == 0 {
		t.Error("expected FlagRepne for f2-prefixed scasb")
	}

	// f3 scasb
	instr, ok = decode.Decode64([]byte{0xF3, 0xAE}, 0)
	if !ok {
		t.Fatal("f3 scasb failed to decode")
	}
	if instr.Flags&decode.FlagRepe == 0 {
		t.Error("expected FlagRepe for f3-prefixed scasb")
	}
}

// TestLockMovCRRetrofitsAsRexR confirms the AMD LOCK-MOV-CR trick: a LOCK
// prefix ahead of MOV to/from a control register is retracted by the
// handler (reinterpreted as REX.R, selecting CR8-CR15) rather than
// rejected by the generic LOCK-legality check, even though that check
// runs after the handler in the pipeline.
func TestLockMovCRRetrofitsAsRexR(t *testing.T) {
	// lock mov eax, cr0 -> retrofitted to mov eax, cr8
	instr, ok := decode.Decode64([]byte{0xF0, 0x0F, 0x22, 0xC0}, 0)
	if !ok {
		t.Fatal("expected lock-prefixed mov-to/from-CR to decode successfully")
	}
	if instr.Operation != decode.MOVCR {
		t.Errorf("operation = %v, want MOVCR", instr.Operation)
	}
	if instr.Flags&decode.FlagLock != 0 {
		t.Error("expected FlagLock to be retracted once retrofitted as REX.R")
	}
	if instr.Operands[1].Reg != decode.CR8 {
		t.Errorf("operand1 = %+v, want reg CR8 (REX.R-extended)", instr.Operands[1])
	}
}

// TestSIBBaseSegmentDefaultHonorsRexB confirms the SIB-addressing default
// segment (SS vs DS) is computed from the REX.B-extended base register,
// not the raw 3-bit SIB base field: base=R12 (raw field 4, REX.B=1) must
// not be mistaken for RSP and default to SS.
func TestSIBBaseSegmentDefaultHonorsRexB(t *testing.T) {
	// mov rax, [r12] -- REX.B=1, SIB base field 4 (raw) -> R12, not RSP
	instr, ok := decode.Decode64([]byte{0x49, 0x8B, 0x04, 0x24}, 0)
	if !ok {
		t.Fatal("decode failed")
	}
	if instr.Operands[1].Base != decode.R12 {
		t.Fatalf("operand1 base = %v, want R12", instr.Operands[1].Base)
	}
	if instr.Operands[1].Segment != decode.SegDS {
		t.Errorf("segment = %v, want SegDS (R12 is not the stack pointer)", instr.Operands[1].Segment)
	}

	// mov rax, [rsp] -- REX.B=0, SIB base field 4 -> RSP, defaults to SS
	instr, ok = decode.Decode64([]byte{0x48, 0x8B, 0x04, 0x24}, 0)
	if !ok {
		t.Fatal("decode failed")
	}
	if instr.Operands[1].Base != decode.RSP {
		t.Fatalf("operand1 base = %v, want RSP", instr.Operands[1].Base)
	}
	if instr.Operands[1].Segment != decode.SegSS {
		t.Errorf("segment = %v, want SegSS", instr.Operands[1].Segment)
	}
}

// TestSegmentPushPopForms confirms the segment push/pop forms, including
// FS/GS (two-byte opcodes), are wired. The one-byte ES/SS/DS forms are
// invalid in 64-bit mode, so they are decoded in 32-bit mode.
func TestSegmentPushPopForms(t *testing.T) {
	tests := []struct {
		name  string
		mode  func([]byte, int64) (decode.Instruction, bool)
		input []byte
		op    decode.Operation
		seg   decode.Register
	}{
		{"push es", decode.Decode32, []byte{0x06}, decode.PUSH, decode.ES},
		{"push ss", decode.Decode32, []byte{0x16}, decode.PUSH, decode.SS},
		{"push ds", decode.Decode32, []byte{0x1E}, decode.PUSH, decode.DS},
		{"push fs", decode.Decode64, []byte{0x0F, 0xA0}, decode.PUSH, decode.FS},
		{"pop fs", decode.Decode64, []byte{0x0F, 0xA1}, decode.POP, decode.FS},
		{"push gs", decode.Decode64, []byte{0x0F, 0xA8}, decode.PUSH, decode.GS},
		{"pop gs", decode.Decode64, []byte{0x0F, 0xA9}, decode.POP, decode.GS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instr, ok := tt.mode(tt.input, 0)
			if !ok {
				t.Fatalf("%s failed to decode", tt.name)
			}
			if instr.Operation != tt.op {
				t.Errorf("operation = %v, want %v", instr.Operation, tt.op)
			}
			if instr.Operands[0].Reg != tt.seg {
				t.Errorf("operand0 = %v, want %v", instr.Operands[0].Reg, tt.seg)
			}
		})
	}
}

// TestFarPointerAndBoundOperations confirms LES/LDS/LFS/LGS/LSS and
// BOUND are reachable from the opcode tables rather than dead handlers.
func TestFarPointerAndBoundOperations(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		op    decode.Operation
	}{
		{"les eax, [rax]", []byte{0xC4, 0x00}, decode.LES},
		{"lds eax, [rax]", []byte{0xC5, 0x00}, decode.LDS},
		{"lss eax, [rax]", []byte{0x0F, 0xB2, 0x00}, decode.LSS},
		{"lfs eax, [rax]", []byte{0x0F, 0xB4, 0x00}, decode.LFS},
		{"lgs eax, [rax]", []byte{0x0F, 0xB5, 0x00}, decode.LGS},
		{"bound eax, [rax]", []byte{0x62, 0x00}, decode.BOUND},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instr, ok := decode.Decode64(tt.input, 0)
			if !ok {
				t.Fatalf("%s failed to decode", tt.name)
			}
			if instr.Operation != tt.op {
				t.Errorf("operation = %v, want %v", instr.Operation, tt.op)
			}
		})
	}
}

// TestDecodeDeterministic confirms decoding the same bytes twice
// produces identical results (no hidden mutable global state).
func TestDecodeDeterministic(t *testing.T) {
	input := []byte{0x48, 0x01, 0xD8}
	first, ok1 := decode.Decode64(input, 0x2000)
	second, ok2 := decode.Decode64(input, 0x2000)
	if ok1 != ok2 || first != second {
		t.Errorf("decode not deterministic: %+v vs %+v", first, second)
	}
}
