package decode

// mainOpcodeMap is the primary single-byte opcode table. Unassigned
// entries default to invalidEntry.
var mainOpcodeMap [256]opEntry

// aluFamily fills the six non-prefix slots of one arithmetic opcode
// block (Eb,Gb / Ev,Gv / Gb,Eb / Gv,Ev / AL,ib / eAX,iz) starting at base.
func aluFamily(base byte, op Operation) {
	mainOpcodeMap[base+0] = entry(op, handleRegRM, fLockAllowed|fByteOperand)
	mainOpcodeMap[base+1] = entry(op, handleRegRM, fLockAllowed)
	mainOpcodeMap[base+2] = entry(op, handleRegRM, fLockAllowed|fByteOperand|fFlip)
	mainOpcodeMap[base+3] = entry(op, handleRegRM, fLockAllowed|fFlip)
	mainOpcodeMap[base+4] = entry(op, handleAccImm, fByteOperand)
	mainOpcodeMap[base+5] = entry(op, handleAccImm, 0)
}

func init() {
	for i := range mainOpcodeMap {
		mainOpcodeMap[i] = invalidEntry
	}

	aluFamily(0x00, ADD)
	mainOpcodeMap[0x06] = entry(PUSH, handleSegPushPop(ES), fInvalid64)
	mainOpcodeMap[0x07] = entry(POP, handleSegPushPop(ES), fInvalid64)

	aluFamily(0x08, OR)
	mainOpcodeMap[0x0E] = entry(PUSH, handleSegPushPop(CS), fInvalid64)
	// 0x0F is the two-byte escape, installed by the dispatcher directly.

	aluFamily(0x10, ADC)
	mainOpcodeMap[0x16] = entry(PUSH, handleSegPushPop(SS), fInvalid64)
	mainOpcodeMap[0x17] = entry(POP, handleSegPushPop(SS), fInvalid64)

	aluFamily(0x18, SBB)
	mainOpcodeMap[0x1E] = entry(PUSH, handleSegPushPop(DS), fInvalid64)
	mainOpcodeMap[0x1F] = entry(POP, handleSegPushPop(DS), fInvalid64)

	aluFamily(0x20, AND)
	aluFamily(0x28, SUB)
	aluFamily(0x30, XOR)
	aluFamily(0x38, CMP)

	for r := byte(0); r < 8; r++ {
		mainOpcodeMap[0x50+r] = entry(PUSH, pushRegHandler, 0)
		mainOpcodeMap[0x58+r] = entry(POP, popRegHandler, 0)
	}

	mainOpcodeMap[0x62] = entry(BOUND, handleBOUND, 0)
	mainOpcodeMap[0x63] = entry(MOVSX, handleMovsxd, 0) // MOVSXD: dword r/m sign-extended to operand size

	mainOpcodeMap[0x68] = entry(PUSH, handlePushImm, 0)
	mainOpcodeMap[0x69] = entry(IMUL, handleRMRegImm8, 0)
	mainOpcodeMap[0x6A] = entry(PUSH, handlePushImm, fByteOperand)
	mainOpcodeMap[0x6B] = entry(IMUL, handleRMRegImm8, fByteOperand)

	mainOpcodeMap[0x6C] = entry(INSB, handlePortStringOp(true), fByteOperand|fRepAllowed)
	mainOpcodeMap[0x6D] = entry(INSW, handlePortStringOp(true), fRepAllowed|fOpSizeDependent)
	mainOpcodeMap[0x6E] = entry(OUTSB, handlePortStringOp(false), fByteOperand|fRepAllowed)
	mainOpcodeMap[0x6F] = entry(OUTSW, handlePortStringOp(false), fRepAllowed|fOpSizeDependent)

	jccOps := [16]Operation{JO, JNO, JB, JAE, JE, JNE, JBE, JA, JS, JNS, JP, JNP, JL, JGE, JLE, JG}
	for i, op := range jccOps {
		mainOpcodeMap[0x70+byte(i)] = entry(op, handleRelImm, fByteOperand)
	}

	mainOpcodeMap[0x80] = entry(INVALID, handleGroup1(0), fLockAllowed|fByteOperand)
	mainOpcodeMap[0x81] = entry(INVALID, handleGroup1(1), fLockAllowed)
	mainOpcodeMap[0x82] = entry(INVALID, handleGroup1(0), fLockAllowed|fByteOperand|fInvalid64)
	mainOpcodeMap[0x83] = entry(INVALID, handleGroup1(2), fLockAllowed)

	mainOpcodeMap[0x84] = entry(TEST, handleRegRM, fByteOperand)
	mainOpcodeMap[0x85] = entry(TEST, handleRegRM, 0)
	mainOpcodeMap[0x86] = entry(XCHG, handleRegRM, fLockAllowed|fByteOperand)
	mainOpcodeMap[0x87] = entry(XCHG, handleRegRM, fLockAllowed)
	mainOpcodeMap[0x88] = entry(MOV, handleRegRM, fByteOperand)
	mainOpcodeMap[0x89] = entry(MOV, handleRegRM, 0)
	mainOpcodeMap[0x8A] = entry(MOV, handleRegRM, fByteOperand|fFlip)
	mainOpcodeMap[0x8B] = entry(MOV, handleRegRM, fFlip)
	mainOpcodeMap[0x8C] = entry(MOV, handleMovToFromSeg(false), 0)
	mainOpcodeMap[0x8D] = entry(LEA, handleLEA, 0)
	mainOpcodeMap[0x8E] = entry(MOV, handleMovToFromSeg(true), 0)
	mainOpcodeMap[0x8F] = entry(POP, handleMovImmRMPop, 0)

	mainOpcodeMap[0x90] = entry(NOP, handleSimple, 0)
	for r := byte(1); r < 8; r++ {
		mainOpcodeMap[0x90+r] = entry(XCHG, xchgRegHandler, 0)
	}

	mainOpcodeMap[0x98] = entry(CBW, handleSimple, fOpSizeDependent) // CBW/CWDE/CDQE
	mainOpcodeMap[0x99] = entry(CWD, handleSimple, fOpSizeDependent) // CWD/CDQ/CQO
	mainOpcodeMap[0x9C] = entry(PUSHF, handleSimple, 0)
	mainOpcodeMap[0x9D] = entry(POPF, handleSimple, 0)

	mainOpcodeMap[0xA0] = entry(MOV, handleMovMoffs, fByteOperand)
	mainOpcodeMap[0xA1] = entry(MOV, handleMovMoffs, 0)
	mainOpcodeMap[0xA2] = entry(MOV, handleMovMoffs, fByteOperand|fFlip)
	mainOpcodeMap[0xA3] = entry(MOV, handleMovMoffs, fFlip)

	mainOpcodeMap[0xA4] = entry(MOVSB, handleStringOp(true, true, false), fByteOperand|fRepAllowed)
	mainOpcodeMap[0xA5] = entry(MOVSW, handleStringOp(true, true, false), fRepAllowed|fOpSizeDependent)
	mainOpcodeMap[0xA6] = entry(CMPSB, handleStringOp(true, true, false), fByteOperand|fRepConditional)
	mainOpcodeMap[0xA7] = entry(CMPSW, handleStringOp(true, true, false), fRepConditional|fOpSizeDependent)

	mainOpcodeMap[0xA8] = entry(TEST, handleTestAccImm, fByteOperand)
	mainOpcodeMap[0xA9] = entry(TEST, handleTestAccImm, 0)

	mainOpcodeMap[0xAA] = entry(STOSB, handleStringOp(true, false, true), fByteOperand|fRepAllowed)
	mainOpcodeMap[0xAB] = entry(STOSW, handleStringOp(true, false, true), fRepAllowed|fOpSizeDependent)
	mainOpcodeMap[0xAC] = entry(LODSB, handleStringOp(false, true, true), fByteOperand|fRepAllowed)
	mainOpcodeMap[0xAD] = entry(LODSW, handleStringOp(false, true, true), fRepAllowed|fOpSizeDependent)
	mainOpcodeMap[0xAE] = entry(SCASB, handleStringOp(true, false, true), fByteOperand|fRepConditional)
	mainOpcodeMap[0xAF] = entry(SCASW, handleStringOp(true, false, true), fRepConditional|fOpSizeDependent)

	for r := byte(0); r < 8; r++ {
		mainOpcodeMap[0xB0+r] = entry(MOV, movRegImmHandler, fByteOperand)
		mainOpcodeMap[0xB8+r] = entry(MOV, movRegImmHandler, fDefault64)
	}

	mainOpcodeMap[0xC0] = entry(INVALID, handleShiftGroup2(2), fByteOperand)
	mainOpcodeMap[0xC1] = entry(INVALID, handleShiftGroup2(2), 0)
	mainOpcodeMap[0xC2] = entry(RET, handleRetImm, 0)
	mainOpcodeMap[0xC3] = entry(RET, handleSimple, 0)
	mainOpcodeMap[0xC4] = entry(LES, handleFarPointerRM, 0)
	mainOpcodeMap[0xC5] = entry(LDS, handleFarPointerRM, 0)
	mainOpcodeMap[0xC6] = entry(MOV, handleMovImmRM, fByteOperand)
	mainOpcodeMap[0xC7] = entry(MOV, handleMovImmRM, 0)
	mainOpcodeMap[0xC9] = entry(LEAVE, handleSimple, 0)
	mainOpcodeMap[0xCC] = entry(INT3, handleSimple, 0)
	mainOpcodeMap[0xCD] = entry(INT, handleINT, 0)
	mainOpcodeMap[0xCF] = entry(IRET, handleSimple, 0)

	mainOpcodeMap[0xD0] = entry(INVALID, handleShiftGroup2(0), fByteOperand)
	mainOpcodeMap[0xD1] = entry(INVALID, handleShiftGroup2(0), 0)
	mainOpcodeMap[0xD2] = entry(INVALID, handleShiftGroup2(1), fByteOperand)
	mainOpcodeMap[0xD3] = entry(INVALID, handleShiftGroup2(1), 0)

	for row := byte(0); row < 8; row++ {
		mainOpcodeMap[0xD8+row] = entry(INVALID, fpuDispatchHandler(row), 0)
	}

	mainOpcodeMap[0xE4] = entry(IN, handleINOUT(false, false), fByteOperand)
	mainOpcodeMap[0xE5] = entry(IN, handleINOUT(false, false), 0)
	mainOpcodeMap[0xE6] = entry(OUT, handleINOUT(true, false), fByteOperand)
	mainOpcodeMap[0xE7] = entry(OUT, handleINOUT(true, false), 0)

	mainOpcodeMap[0xE8] = entry(CALLN, handleRelImm, 0)
	mainOpcodeMap[0xE9] = entry(JMPN, handleRelImm, 0)
	mainOpcodeMap[0xEB] = entry(JMPN, handleRelImm, fByteOperand)

	mainOpcodeMap[0xEC] = entry(IN, handleINOUT(false, true), fByteOperand)
	mainOpcodeMap[0xED] = entry(IN, handleINOUT(false, true), 0)
	mainOpcodeMap[0xEE] = entry(OUT, handleINOUT(true, true), fByteOperand)
	mainOpcodeMap[0xEF] = entry(OUT, handleINOUT(true, true), 0)

	mainOpcodeMap[0xE3] = entry(JCXZ, handleRelImm, fByteOperand|fAddrSizeJump)

	mainOpcodeMap[0xF4] = entry(HLT, handleSimple, 0)
	mainOpcodeMap[0xF5] = entry(CMC, handleSimple, 0)
	mainOpcodeMap[0xF6] = entry(INVALID, handleGroup3, fByteOperand|fLockAllowed)
	mainOpcodeMap[0xF7] = entry(INVALID, handleGroup3, fLockAllowed)
	mainOpcodeMap[0xF8] = entry(CLC, handleSimple, 0)
	mainOpcodeMap[0xF9] = entry(STC, handleSimple, 0)
	mainOpcodeMap[0xFA] = entry(CLI, handleSimple, 0)
	mainOpcodeMap[0xFB] = entry(STI, handleSimple, 0)
	mainOpcodeMap[0xFC] = entry(CLD, handleSimple, 0)
	mainOpcodeMap[0xFD] = entry(STD, handleSimple, 0)
	mainOpcodeMap[0xFE] = entry(INVALID, handleGroup4, fLockAllowed|fByteOperand)
	mainOpcodeMap[0xFF] = entry(INVALID, handleGroup5, fLockAllowed)
}

// handleMovImmRMPop implements the 0x8F POP r/m form (group 1A: only
// reg field 0 is a valid POP).
func handleMovImmRMPop(s *decodeState, e *opEntry) {
	size := s.finalOpSize
	if s.using64 && !s.opPrefixSeen {
		size = 8
	}
	mod, reg, rm := s.readModRM()
	if reg != 0 {
		s.fail()
		return
	}
	rmOp := s.resolveModRM(mod, rm, size)
	s.instr.Operands[0] = rmOp
}

// handleRetImm implements RET imm16 (opcode 0xC2).
func handleRetImm(s *decodeState, e *opEntry) {
	imm := s.r.read16()
	s.instr.Operands[0] = InstructionOperand{Kind: OperandImm, Immediate: int64(imm), Size: 2}
}

// handleMovToFromSeg implements MOV Ev,Sw (0x8C) and MOV Sw,Ev (0x8E).
// The latter must reject CS as a destination: the reg field would
// otherwise place CS where only ES/SS/DS/FS/GS may be written.
func handleMovToFromSeg(toSeg bool) handlerFunc {
	return func(s *decodeState, e *opEntry) {
		mod, reg, rm := s.readModRM()
		if reg > 5 {
			s.fail()
			return
		}
		rmOp := s.resolveModRM(mod, rm, s.finalOpSize)
		segOp := InstructionOperand{Kind: OperandReg, Reg: segRegister(int(reg)), Size: 2}
		if toSeg {
			if reg == 1 { // CS
				s.fail()
				return
			}
			s.setOperands(segOp, rmOp)
		} else {
			s.setOperands(rmOp, segOp)
		}
	}
}
