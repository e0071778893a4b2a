package decode

// lockableOps is the set of operations LOCK may legally prefix. CMP is
// deliberately absent even though it shares group 1's table shape with
// ADD/SUB/etc.
var lockableOps = map[Operation]bool{
	ADD: true, OR: true, ADC: true, SBB: true, AND: true, SUB: true, XOR: true,
	NOT: true, NEG: true, INC: true, DEC: true, XCHG: true, XADD: true,
	CMPXCHG: true, CMPXCH8B: true, CMPXCH16B: true,
	BTS: true, BTR: true, BTC: true,
}

// decodeOne runs the full pipeline: prefixes, opcode lookup, encoding
// resolution, handler dispatch, post-validation, and length finalization.
func decodeOne(buf []byte, addr int64, addrSize, opSize byte, using64 bool) (Instruction, bool) {
	var instr Instruction
	s := newDecodeState(buf, addr, addrSize, opSize, using64)
	s.instr = &instr

	s.processPrefixes()
	if s.failed() {
		instr.Length = s.r.consumed()
		return instr, false
	}

	opcodeByte := s.r.read8()
	if s.failed() {
		instr.Length = s.r.consumed()
		return instr, false
	}

	var e *opEntry
	if opcodeByte == 0x0F {
		s.twoByteEsc = true
		second := s.r.read8()
		if s.failed() {
			instr.Length = s.r.consumed()
			return instr, false
		}
		s.opcodeByte = second
		e = &twoByteOpcodeMap[second]
	} else {
		s.opcodeByte = opcodeByte
		e = &mainOpcodeMap[opcodeByte]
	}

	if e.flags&fInvalid64 != 0 && using64 {
		s.fail()
	}

	op := e.op
	if e.flags&fOpSizeDependent != 0 {
		switch s.opSizeFor(e) {
		case 4:
			op += 1
		case 8:
			op += 2
		}
	}
	if op != INVALID {
		instr.Operation = op
	}

	if e.flags&fRepAllowed != 0 {
		if s.rep != repNone {
			instr.Flags |= FlagRep
		}
	} else if e.flags&fRepConditional != 0 {
		switch s.rep {
		case repRepe:
			instr.Flags |= FlagRepe
		case repRepne:
			instr.Flags |= FlagRepne
		}
	}

	if s.opPrefixSeen {
		instr.Flags |= FlagOpSizePrefix
	}
	if s.addrPrefixSeen {
		instr.Flags |= FlagAddrSizePrefix
	}

	if !s.failed() && e.handler != nil {
		e.handler(s, e)
	}

	// s.lock is read only now: handleMovCRDR retracts a LOCK prefix it
	// reinterpreted as REX.R (the AMD MOV-to-CR8-15 encoding), and that
	// retraction must be visible here before FlagLock is set.
	if s.lock {
		instr.Flags |= FlagLock
	}

	if !s.failed() {
		instr.Segment = s.segOverride
	}

	postValidate(s, &instr)

	instr.Length = s.r.consumed()

	if !s.failed() {
		for i := range instr.Operands {
			if instr.Operands[i].ripRelative {
				instr.Operands[i].Immediate += s.address + int64(instr.Length)
			}
		}
	}

	if s.failed() {
		return instr, false
	}
	return instr, true
}

func postValidate(s *decodeState, instr *Instruction) {
	if s.failed() {
		return
	}
	if instr.Operation == INVALID {
		s.fail()
		return
	}
	if instr.Flags&FlagLock != 0 {
		if !lockableOps[instr.Operation] {
			s.fail()
			return
		}
		if instr.Operands[0].Kind != OperandMem && instr.Operands[1].Kind != OperandMem {
			s.fail()
			return
		}
	}
}

// Decode16 decodes one instruction assuming 16-bit real/virtual-8086 mode.
func Decode16(buf []byte, addr int64) (Instruction, bool) {
	return decodeOne(buf, addr, 2, 2, false)
}

// Decode32 decodes one instruction assuming 32-bit protected mode.
func Decode32(buf []byte, addr int64) (Instruction, bool) {
	return decodeOne(buf, addr, 4, 4, false)
}

// Decode64 decodes one instruction assuming 64-bit long mode.
func Decode64(buf []byte, addr int64) (Instruction, bool) {
	return decodeOne(buf, addr, 8, 4, true)
}
