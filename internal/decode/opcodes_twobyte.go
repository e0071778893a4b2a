package decode

// twoByteOpcodeMap is entered via the 0x0F escape prefix.
var twoByteOpcodeMap [256]opEntry

func handleBTDirect(s *decodeState, e *opEntry) {
	handleRegRM(s, e)
}

func handleBTImm8(op Operation) handlerFunc {
	return func(s *decodeState, e *opEntry) {
		size := s.finalOpSize
		mod, _, rm := s.readModRM()
		rmOp := s.resolveModRM(mod, rm, size)
		imm := s.r.read8()
		s.instr.Operation = op
		s.instr.Operands[0] = rmOp
		s.instr.Operands[1] = InstructionOperand{Kind: OperandImm, Immediate: int64(imm), Size: 1}
	}
}

// btGroup8Ops resolves the 0F BA group (BT/BTS/BTR/BTC imm8 forms) by
// ModR/M reg field; reg 0-3 are reserved.
var btGroup8Ops = [8]Operation{INVALID, INVALID, INVALID, INVALID, BT, BTS, BTR, BTC}

func handleGroup8(s *decodeState, e *opEntry) {
	size := s.finalOpSize
	mod, reg, rm := s.readModRM()
	if reg < 4 {
		s.fail()
		return
	}
	rmOp := s.resolveModRM(mod, rm, size)
	imm := s.r.read8()
	s.instr.Operation = btGroup8Ops[reg]
	s.instr.Operands[0] = rmOp
	s.instr.Operands[1] = InstructionOperand{Kind: OperandImm, Immediate: int64(imm), Size: 1}
}

func init() {
	for i := range twoByteOpcodeMap {
		twoByteOpcodeMap[i] = invalidEntry
	}

	twoByteOpcodeMap[0x00] = entry(INVALID, handleGroup6, 0)
	twoByteOpcodeMap[0x01] = entry(INVALID, handleGroup7, fLockAllowed)
	twoByteOpcodeMap[0x05] = entry(SYSCALL, handleSimple, 0)
	twoByteOpcodeMap[0x1F] = entry(NOP, handleNopRM, 0)

	twoByteOpcodeMap[0x20] = entry(MOVCR, handleMovCRDR(true, false), 0)
	twoByteOpcodeMap[0x21] = entry(MOVDR, handleMovCRDR(true, true), 0)
	twoByteOpcodeMap[0x22] = entry(MOVCR, handleMovCRDR(false, false), fFlip)
	twoByteOpcodeMap[0x23] = entry(MOVDR, handleMovCRDR(false, true), fFlip)

	jccOps := [16]Operation{JO, JNO, JB, JAE, JE, JNE, JBE, JA, JS, JNS, JP, JNP, JL, JGE, JLE, JG}
	for i, op := range jccOps {
		twoByteOpcodeMap[0x80+byte(i)] = entry(op, handleRelImm, 0)
	}
	setccOps := [16]Operation{SETO, SETNO, SETB, SETAE, SETE, SETNE, SETBE, SETA, SETS, SETNS, SETP, SETNP, SETL, SETGE, SETLE, SETG}
	for i, op := range setccOps {
		twoByteOpcodeMap[0x90+byte(i)] = entry(op, handleSETcc, 0)
	}

	twoByteOpcodeMap[0xA0] = entry(PUSH, handleSegPushPop(FS), 0)
	twoByteOpcodeMap[0xA1] = entry(POP, handleSegPushPop(FS), 0)
	twoByteOpcodeMap[0xA2] = entry(CPUID, handleSimple, 0)
	twoByteOpcodeMap[0xA3] = entry(BT, handleBTDirect, fFlip)
	twoByteOpcodeMap[0xA8] = entry(PUSH, handleSegPushPop(GS), 0)
	twoByteOpcodeMap[0xA9] = entry(POP, handleSegPushPop(GS), 0)
	twoByteOpcodeMap[0xAB] = entry(BTS, handleBTDirect, fFlip|fLockAllowed)
	twoByteOpcodeMap[0xAF] = entry(IMUL, handleRegRM, fFlip)
	twoByteOpcodeMap[0xB0] = entry(CMPXCHG, handleCMPXCHG, fLockAllowed|fByteOperand)
	twoByteOpcodeMap[0xB1] = entry(CMPXCHG, handleCMPXCHG, fLockAllowed)
	twoByteOpcodeMap[0xB2] = entry(LSS, handleFarPointerRM, 0)
	twoByteOpcodeMap[0xB3] = entry(BTR, handleBTDirect, fFlip|fLockAllowed)
	twoByteOpcodeMap[0xB4] = entry(LFS, handleFarPointerRM, 0)
	twoByteOpcodeMap[0xB5] = entry(LGS, handleFarPointerRM, 0)
	twoByteOpcodeMap[0xB6] = entry(MOVZX, handleMOVZXMOVSX, fByteOperand)
	twoByteOpcodeMap[0xB7] = entry(MOVZX, handleMOVZXMOVSX, fForce16)
	twoByteOpcodeMap[0xBA] = entry(INVALID, handleGroup8, fLockAllowed)
	twoByteOpcodeMap[0xBB] = entry(BTC, handleBTDirect, fFlip|fLockAllowed)
	twoByteOpcodeMap[0xBE] = entry(MOVSX, handleMOVZXMOVSX, fByteOperand)
	twoByteOpcodeMap[0xBF] = entry(MOVSX, handleMOVZXMOVSX, fForce16)
	twoByteOpcodeMap[0xC0] = entry(XADD, handleXADD, fLockAllowed|fByteOperand)
	twoByteOpcodeMap[0xC1] = entry(XADD, handleXADD, fLockAllowed)
	twoByteOpcodeMap[0xC7] = entry(INVALID, handleCMPXCHG8B16B, fLockAllowed)

	twoByteOpcodeMap[0x10] = entry(MOVUPS, handleMovUpsStub, 0)
	twoByteOpcodeMap[0x11] = entry(MOVUPS, handleMovUpsStub, 0)
	twoByteOpcodeMap[0x12] = entry(MOVLPS, handleMovUpsStub, 0)
	twoByteOpcodeMap[0x13] = entry(MOVLPS, handleMovUpsStub, 0)
	twoByteOpcodeMap[0x16] = entry(MOVHPS, handleMovUpsStub, 0)
	twoByteOpcodeMap[0x17] = entry(MOVHPS, handleMovUpsStub, 0)

	twoByteOpcodeMap[0x0F] = entry(INVALID, handle3DNow, fByteOperand)
}

// handleNopRM implements the multi-byte NOP r/m form (0F 1F); the
// operand is decoded but otherwise discarded since NOP carries none.
func handleNopRM(s *decodeState, e *opEntry) {
	mod, _, rm := s.readModRM()
	s.resolveModRM(mod, rm, s.finalOpSize)
}
