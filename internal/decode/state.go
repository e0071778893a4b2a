package decode

// repKind distinguishes which repeat prefix, if any, preceded the opcode.
type repKind int

const (
	repNone repKind = iota
	repRepne
	repRepe
)

// rexBits is the decoded REX nibble, valid only when present is true.
type rexBits struct {
	present bool
	w       bool
	r       bool
	x       bool
	b       bool
}

// decodeState is the scratch space threaded through one decode call. It
// never outlives the call that created it.
type decodeState struct {
	r *reader

	using64 bool
	opSize  byte // 2 or 4: the mode's nominal operand size before prefixes
	addrSize byte // 2, 4, or 8

	opPrefixSeen   bool
	addrPrefixSeen bool
	sawRex         bool // any REX byte was present, even if later nullified
	rex            rexBits

	rep  repKind
	lock bool

	segOverride Segment

	finalOpSize byte

	instr   *Instruction
	invalid bool

	address int64

	// Reg-field captures recorded by the group handlers. postValidate does
	// not read them: it judges LOCK legality from the resolved operation.
	group3Reg byte
	group4Reg byte
	group5Reg byte
	group6Reg byte
	group7Reg byte

	opcodeByte  byte
	twoByteEsc  bool
}

func newDecodeState(buf []byte, addr int64, addrSize, opSize byte, using64 bool) *decodeState {
	return &decodeState{
		r:        newReader(buf),
		using64:  using64,
		opSize:   opSize,
		addrSize: addrSize,
		address:  addr,
	}
}

func (s *decodeState) fail() {
	s.invalid = true
	s.r.invalid = true
}

func (s *decodeState) failed() bool {
	return s.invalid || s.r.invalid
}
