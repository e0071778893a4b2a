// Package decode implements the x86 instruction decoder: given a byte
// buffer and a target operating mode, it parses one instruction and
// produces a structured Instruction record.
package decode

// Operation identifies the decoded mnemonic. INVALID marks a decode that
// never reached a final, recognized instruction.
type Operation int

const (
	INVALID Operation = iota
	NOP

	ADD
	OR
	ADC
	SBB
	AND
	SUB
	XOR
	CMP

	MOV
	MOVZX
	MOVSX
	LEA
	XCHG
	TEST
	NOT
	NEG
	MUL
	IMUL
	DIV
	IDIV
	INC
	DEC

	PUSH
	POP
	PUSHF
	POPF

	CALLN
	CALLF
	JMPN
	JMPF
	RET
	RETF
	LEAVE
	IRET

	JO
	JNO
	JB
	JAE
	JE
	JNE
	JBE
	JA
	JS
	JNS
	JP
	JNP
	JL
	JGE
	JLE
	JG
	JCXZ
	JECXZ
	JRCXZ

	SETO
	SETNO
	SETB
	SETAE
	SETE
	SETNE
	SETBE
	SETA
	SETS
	SETNS
	SETP
	SETNP
	SETL
	SETGE
	SETLE
	SETG

	SHL
	SHR
	SAR
	ROL
	ROR
	RCL
	RCR

	CBW
	CWDE
	CDQE
	CWD
	CDQ
	CQO

	MOVSB
	MOVSW
	MOVSD
	MOVSQ
	CMPSB
	CMPSW
	CMPSD
	CMPSQ
	STOSB
	STOSW
	STOSD
	STOSQ
	LODSB
	LODSW
	LODSD
	LODSQ
	SCASB
	SCASW
	SCASD
	SCASQ
	INSB
	INSW
	INSD
	OUTSB
	OUTSW
	OUTSD

	IN
	OUT

	INT
	INT3
	INTO
	HLT
	CLC
	STC
	CLI
	STI
	CLD
	STD
	CMC

	CPUID
	SYSCALL
	BT
	BTS
	BTR
	BTC
	XADD
	CMPXCHG
	CMPXCH8B
	CMPXCH16B

	LES
	LDS
	LFS
	LGS
	LSS
	BOUND

	MOVCR
	MOVDR

	INVLPG
	SLDT
	STR
	LLDT
	LTR
	VERR
	VERW
	SGDT
	SIDT
	LGDT
	LIDT
	SMSW
	LMSW
	SWAPGS

	FLD1
	FLDL2T
	FLDL2E
	FLDPI
	FLDLG2
	FLDLN2
	FLDZ
	FCHS
	FABS
	FTST
	FXAM
	F2XM1
	FYL2X
	FPTAN
	FPATAN
	FXTRACT
	FPREM1
	FDECSTP
	FINCSTP
	FPREM
	FYL2XP1
	FSQRT
	FSINCOS
	FRNDINT
	FSCALE
	FSIN
	FCOS
	FNOP
	FLD
	FST
	FSTP
	FLDCW
	FSTCW
	FSTSW

	PFCMPGE
	PFCMPGT
	PFCMPEQ
	PFMIN
	PFMAX
	PFMUL
	PFADD
	PFSUB
	PFSUBR
	PFACC
	PFRCP
	PFRSQRT
	PFRCPIT1
	PFRSQIT1
	PFRCPIT2
	PF2ID
	PI2FD
	PFNACC
	PFPNACC
	PFCPIT1
	PSWAPD
	PAVGUSB
	PMULHRW

	MOVUPS
	MOVLPS
	MOVHPS
)

// OperandKind tags what InstructionOperand.Immediate/Reg/Base/Index mean.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandImm
	OperandMem
	OperandReg
)

// Flags is a bit set over instruction-level prefixes and decode outcomes.
type Flags uint32

const (
	FlagLock Flags = 1 << iota
	FlagRep
	FlagRepe
	FlagRepne
	FlagOpSizePrefix
	FlagAddrSizePrefix
)

// Segment names an explicit or resolved segment override.
type Segment int

const (
	SegDefault Segment = iota
	SegES
	SegCS
	SegSS
	SegDS
	SegFS
	SegGS
)

// InstructionOperand is one decoded operand slot.
type InstructionOperand struct {
	Kind      OperandKind
	Reg       Register
	Base      Register
	Index     Register
	Scale     byte
	Immediate int64
	Size      byte
	Segment   Segment

	// ripRelative marks a MEM operand whose Immediate still holds only
	// the raw displacement; the dispatcher adds address+length once the
	// instruction's total length is known.
	ripRelative bool
}

// Instruction is the decoded record produced by one Decode call.
type Instruction struct {
	Operation Operation
	Operands  [3]InstructionOperand
	Flags     Flags
	Segment   Segment
	Length    int
}

func (i *Instruction) reset() {
	*i = Instruction{}
}
