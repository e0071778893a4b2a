// Package format renders a decode.Instruction as text, following the
// printf-like template language the decoder's structured output was
// designed to feed.
package format

import "github.com/keurnel/x86dis/internal/decode"

var mnemonicNames = map[decode.Operation]string{
	decode.NOP: "nop", decode.ADD: "add", decode.OR: "or", decode.ADC: "adc",
	decode.SBB: "sbb", decode.AND: "and", decode.SUB: "sub", decode.XOR: "xor",
	decode.CMP: "cmp", decode.MOV: "mov", decode.MOVZX: "movzx", decode.MOVSX: "movsx",
	decode.LEA: "lea", decode.XCHG: "xchg", decode.TEST: "test", decode.NOT: "not",
	decode.NEG: "neg", decode.MUL: "mul", decode.IMUL: "imul", decode.DIV: "div",
	decode.IDIV: "idiv", decode.INC: "inc", decode.DEC: "dec", decode.PUSH: "push",
	decode.POP: "pop", decode.PUSHF: "pushf", decode.POPF: "popf",
	decode.CALLN: "call", decode.CALLF: "callf", decode.JMPN: "jmp", decode.JMPF: "jmpf",
	decode.RET: "ret", decode.RETF: "retf", decode.LEAVE: "leave", decode.IRET: "iret",
	decode.JO: "jo", decode.JNO: "jno", decode.JB: "jb", decode.JAE: "jae",
	decode.JE: "je", decode.JNE: "jne", decode.JBE: "jbe", decode.JA: "ja",
	decode.JS: "js", decode.JNS: "jns", decode.JP: "jp", decode.JNP: "jnp",
	decode.JL: "jl", decode.JGE: "jge", decode.JLE: "jle", decode.JG: "jg",
	decode.JCXZ: "jcxz", decode.JECXZ: "jecxz", decode.JRCXZ: "jrcxz",
	decode.SETO: "seto", decode.SETNO: "setno", decode.SETB: "setb", decode.SETAE: "setae",
	decode.SETE: "sete", decode.SETNE: "setne", decode.SETBE: "setbe", decode.SETA: "seta",
	decode.SETS: "sets", decode.SETNS: "setns", decode.SETP: "setp", decode.SETNP: "setnp",
	decode.SETL: "setl", decode.SETGE: "setge", decode.SETLE: "setle", decode.SETG: "setg",
	decode.SHL: "shl", decode.SHR: "shr", decode.SAR: "sar", decode.ROL: "rol",
	decode.ROR: "ror", decode.RCL: "rcl", decode.RCR: "rcr",
	decode.CBW: "cbw", decode.CWDE: "cwde", decode.CDQE: "cdqe",
	decode.CWD: "cwd", decode.CDQ: "cdq", decode.CQO: "cqo",
	decode.MOVSB: "movsb", decode.MOVSW: "movsw", decode.MOVSD: "movsd", decode.MOVSQ: "movsq",
	decode.CMPSB: "cmpsb", decode.CMPSW: "cmpsw", decode.CMPSD: "cmpsd", decode.CMPSQ: "cmpsq",
	decode.STOSB: "stosb", decode.STOSW: "stosw", decode.STOSD: "stosd", decode.STOSQ: "stosq",
	decode.LODSB: "lodsb", decode.LODSW: "lodsw", decode.LODSD: "lodsd", decode.LODSQ: "lodsq",
	decode.SCASB: "scasb", decode.SCASW: "scasw", decode.SCASD: "scasd", decode.SCASQ: "scasq",
	decode.INSB: "insb", decode.INSW: "insw", decode.INSD: "insd",
	decode.OUTSB: "outsb", decode.OUTSW: "outsw", decode.OUTSD: "outsd",
	decode.IN: "in", decode.OUT: "out",
	decode.INT: "int", decode.INT3: "int3", decode.INTO: "into", decode.HLT: "hlt",
	decode.CLC: "clc", decode.STC: "stc", decode.CLI: "cli", decode.STI: "sti",
	decode.CLD: "cld", decode.STD: "std", decode.CMC: "cmc",
	decode.CPUID: "cpuid", decode.SYSCALL: "syscall", decode.BT: "bt", decode.BTS: "bts",
	decode.BTR: "btr", decode.BTC: "btc", decode.XADD: "xadd", decode.CMPXCHG: "cmpxchg",
	decode.CMPXCH8B: "cmpxchg8b", decode.CMPXCH16B: "cmpxchg16b",
	decode.LES: "les", decode.LDS: "lds", decode.LFS: "lfs", decode.LGS: "lgs",
	decode.LSS: "lss", decode.BOUND: "bound",
	decode.MOVCR: "mov", decode.MOVDR: "mov", decode.INVLPG: "invlpg",
	decode.FLD1: "fld1", decode.FLDL2T: "fldl2t", decode.FLDL2E: "fldl2e", decode.FLDPI: "fldpi",
	decode.FLDLG2: "fldlg2", decode.FLDLN2: "fldln2", decode.FLDZ: "fldz",
	decode.FCHS: "fchs", decode.FABS: "fabs", decode.FTST: "ftst", decode.FXAM: "fxam",
	decode.FNOP: "fnop", decode.FLD: "fld", decode.FST: "fst", decode.FSTP: "fstp",
	decode.FLDCW: "fldcw", decode.FSTCW: "fstcw", decode.FSTSW: "fstsw",
	decode.SLDT: "sldt", decode.STR: "str", decode.LLDT: "lldt", decode.LTR: "ltr",
	decode.VERR: "verr", decode.VERW: "verw", decode.SGDT: "sgdt", decode.SIDT: "sidt",
	decode.LGDT: "lgdt", decode.LIDT: "lidt", decode.SMSW: "smsw", decode.LMSW: "lmsw",
	decode.SWAPGS: "swapgs",
	decode.MOVUPS: "movups", decode.MOVLPS: "movlps", decode.MOVHPS: "movhps",
	decode.PFCMPGE: "pfcmpge", decode.PFCMPGT: "pfcmpgt", decode.PFCMPEQ: "pfcmpeq",
	decode.PFMIN: "pfmin", decode.PFMAX: "pfmax", decode.PFMUL: "pfmul", decode.PFADD: "pfadd",
	decode.PFSUB: "pfsub", decode.PFSUBR: "pfsubr", decode.PFACC: "pfacc", decode.PFRCP: "pfrcp",
	decode.PFRSQRT: "pfrsqrt", decode.PFRCPIT1: "pfrcpit1", decode.PFRSQIT1: "pfrsqit1",
	decode.PFRCPIT2: "pfrcpit2", decode.PF2ID: "pf2id", decode.PI2FD: "pi2fd",
	decode.PSWAPD: "pswapd", decode.PAVGUSB: "pavgusb", decode.PMULHRW: "pmulhrw",
}

var registerNames = map[decode.Register]string{
	decode.AL: "al", decode.CL: "cl", decode.DL: "dl", decode.BL: "bl",
	decode.AH: "ah", decode.CH: "ch", decode.DH: "dh", decode.BH: "bh",
	decode.SPL: "spl", decode.BPL: "bpl", decode.SIL: "sil", decode.DIL: "dil",
	decode.R8B: "r8b", decode.R9B: "r9b", decode.R10B: "r10b", decode.R11B: "r11b",
	decode.R12B: "r12b", decode.R13B: "r13b", decode.R14B: "r14b", decode.R15B: "r15b",

	decode.AX: "ax", decode.CX: "cx", decode.DX: "dx", decode.BX: "bx",
	decode.SP: "sp", decode.BP: "bp", decode.SI: "si", decode.DI: "di",
	decode.R8W: "r8w", decode.R9W: "r9w", decode.R10W: "r10w", decode.R11W: "r11w",
	decode.R12W: "r12w", decode.R13W: "r13w", decode.R14W: "r14w", decode.R15W: "r15w",

	decode.EAX: "eax", decode.ECX: "ecx", decode.EDX: "edx", decode.EBX: "ebx",
	decode.ESP: "esp", decode.EBP: "ebp", decode.ESI: "esi", decode.EDI: "edi",
	decode.R8D: "r8d", decode.R9D: "r9d", decode.R10D: "r10d", decode.R11D: "r11d",
	decode.R12D: "r12d", decode.R13D: "r13d", decode.R14D: "r14d", decode.R15D: "r15d",

	decode.RAX: "rax", decode.RCX: "rcx", decode.RDX: "rdx", decode.RBX: "rbx",
	decode.RSP: "rsp", decode.RBP: "rbp", decode.RSI: "rsi", decode.RDI: "rdi",
	decode.R8: "r8", decode.R9: "r9", decode.R10: "r10", decode.R11: "r11",
	decode.R12: "r12", decode.R13: "r13", decode.R14: "r14", decode.R15: "r15",

	decode.ES: "es", decode.CS: "cs", decode.SS: "ss", decode.DS: "ds",
	decode.FS: "fs", decode.GS: "gs",

	decode.MM0: "mm0", decode.MM1: "mm1", decode.MM2: "mm2", decode.MM3: "mm3",
	decode.MM4: "mm4", decode.MM5: "mm5", decode.MM6: "mm6", decode.MM7: "mm7",

	decode.ST0: "st0", decode.ST1: "st1", decode.ST2: "st2", decode.ST3: "st3",
	decode.ST4: "st4", decode.ST5: "st5", decode.ST6: "st6", decode.ST7: "st7",
}

func mnemonicFor(op decode.Operation) string {
	if name, ok := mnemonicNames[op]; ok {
		return name
	}
	return "(bad)"
}

func registerName(r decode.Register) string {
	if name, ok := registerNames[r]; ok {
		return name
	}
	return "?"
}

func sizeKeyword(size byte) string {
	switch size {
	case 1:
		return "byte "
	case 2:
		return "word "
	case 4:
		return "dword "
	case 6:
		return "fword "
	case 8:
		return "qword "
	case 10:
		return "tword "
	case 16:
		return "oword "
	default:
		return ""
	}
}

func segmentName(s decode.Segment) string {
	switch s {
	case decode.SegES:
		return "es"
	case decode.SegCS:
		return "cs"
	case decode.SegSS:
		return "ss"
	case decode.SegDS:
		return "ds"
	case decode.SegFS:
		return "fs"
	case decode.SegGS:
		return "gs"
	default:
		return ""
	}
}
