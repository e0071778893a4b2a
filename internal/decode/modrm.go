package decode

// modrm16Table gives the (base, index) register pair for each r/m field
// under 16-bit addressing, plus whether SS is the default segment.
var modrm16Base = [8]Register{BX, BX, BP, BP, RegNone, RegNone, BP, BX}
var modrm16Index = [8]Register{SI, DI, SI, DI, SI, DI, RegNone, RegNone}
var modrm16DefaultSS = [8]bool{false, false, true, true, false, false, true, false}

// readModRM reads the ModR/M byte and splits it into its three fields.
func (s *decodeState) readModRM() (mod, reg, rm byte) {
	b := s.r.read8()
	return b >> 6, (b >> 3) & 7, b & 7
}

// resolveReg turns a raw 3-bit reg field plus REX.R into a concrete
// register of the given size class.
func (s *decodeState) resolveReg(reg byte, size byte) Register {
	idx := int(reg)
	if s.rex.r {
		idx |= 8
	}
	return registerByClass(size, idx, s.sawRex)
}

// resolveModRM decodes the r/m operand (register or memory) for the
// given mod/rm fields and register-size class, honoring the current
// address size, SIB, and RIP-relative fixups.
func (s *decodeState) resolveModRM(mod, rm byte, size byte) InstructionOperand {
	if mod == 3 {
		idx := int(rm)
		if s.rex.b {
			idx |= 8
		}
		return InstructionOperand{Kind: OperandReg, Reg: registerByClass(size, idx, s.sawRex), Size: size}
	}

	if s.addrSize == 2 {
		return s.resolveModRM16(mod, rm, size)
	}
	return s.resolveModRM3264(mod, rm, size)
}

func (s *decodeState) resolveModRM16(mod, rm byte, size byte) InstructionOperand {
	op := InstructionOperand{Kind: OperandMem, Size: size}

	if mod == 0 && rm == 6 {
		op.Immediate = int64(uint16(s.r.read16()))
		op.Segment = s.effectiveSegment(false)
		return op
	}

	op.Base = modrm16Base[rm]
	op.Index = modrm16Index[rm]
	op.Scale = 1

	switch mod {
	case 1:
		op.Immediate = s.r.readSigned8()
	case 2:
		op.Immediate = int64(uint16(s.r.read16()))
	}

	op.Segment = s.effectiveSegment(modrm16DefaultSS[rm])
	return op
}

func (s *decodeState) resolveModRM3264(mod, rm byte, size byte) InstructionOperand {
	op := InstructionOperand{Kind: OperandMem, Size: size}
	addrRegSize := s.addrSize

	var base, index Register
	var haveBase, haveIndex bool
	scale := byte(1)
	defaultSS := false

	if rm == 4 {
		sib := s.r.read8()
		sibScale := sib >> 6
		sibIndex := (sib >> 3) & 7
		sibBase := sib & 7

		extIndex := int(sibIndex)
		if s.rex.x {
			extIndex |= 8
		}
		if extIndex != 4 {
			haveIndex = true
			index = registerByClass(addrRegSize, extIndex, s.sawRex)
			scale = 1 << sibScale
		}

		if mod == 0 && sibBase == 5 {
			op.Immediate = s.r.readSigned32()
		} else {
			extBase := int(sibBase)
			if s.rex.b {
				extBase |= 8
			}
			haveBase = true
			base = registerByClass(addrRegSize, extBase, s.sawRex)
			defaultSS = extBase == 4 || extBase == 5
		}
	} else if mod == 0 && rm == 5 {
		disp := s.r.readSigned32()
		op.Immediate = disp
		if s.using64 {
			op.ripRelative = true
		}
	} else {
		extBase := int(rm)
		if s.rex.b {
			extBase |= 8
		}
		haveBase = true
		base = registerByClass(addrRegSize, extBase, s.sawRex)
		defaultSS = (rm & 7) == 5
	}

	switch mod {
	case 1:
		op.Immediate += s.r.readSigned8()
	case 2:
		op.Immediate += s.r.readSigned32()
	}

	if haveBase {
		op.Base = base
	}
	if haveIndex {
		op.Index = index
		op.Scale = scale
	}
	op.Segment = s.effectiveSegment(defaultSS)
	return op
}

// effectiveSegment applies the "explicit override always wins" rule.
func (s *decodeState) effectiveSegment(defaultSS bool) Segment {
	if s.segOverride != SegDefault {
		return s.segOverride
	}
	if defaultSS {
		return SegSS
	}
	return SegDS
}
