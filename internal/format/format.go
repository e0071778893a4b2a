package format

import (
	"fmt"
	"strings"

	"github.com/keurnel/x86dis/internal/decode"
)

// Symbol is a named position in the disassembled address space, used to
// annotate branch targets and RIP-relative references the way a label
// marks a jump destination in assembly source.
//
// For example, disassembling a call to address 0x401020 is more useful
// printed as "call main" than "call 0x401020" once a Symbol named "main"
// at offset 0x401020 is registered.
type Symbol struct {
	Identifier string
	Address    int64
}

// SymbolTable resolves addresses to names for annotation. It is safe to
// share a single table across every instruction in a disassembly run.
type SymbolTable struct {
	byAddress map[int64]string
}

// NewSymbolTable returns an empty table ready for Add calls.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byAddress: make(map[int64]string)}
}

// Add registers a symbol at the given address, overwriting any symbol
// already registered there.
func (t *SymbolTable) Add(sym Symbol) {
	t.byAddress[sym.Address] = sym.Identifier
}

// Lookup returns the symbol name at addr, if one was registered.
func (t *SymbolTable) Lookup(addr int64) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.byAddress[addr]
	return name, ok
}

// Options controls how an Instruction is rendered to text.
type Options struct {
	// Symbols annotates branch targets and RIP-relative operands when
	// non-nil. A nil table falls back to raw hex addresses.
	Symbols *SymbolTable
	// UppercaseMnemonic renders "MOV" instead of "mov".
	UppercaseMnemonic bool
}

// Instruction renders one decoded instruction as assembly-like text,
// e.g. "mov rax, rcx" or "lock add dword [rbx+0x10], 0x1".
func Instruction(instr decode.Instruction, opts Options) string {
	var b strings.Builder

	if instr.Flags&decode.FlagLock != 0 {
		b.WriteString("lock ")
	}
	if instr.Flags&decode.FlagRepne != 0 {
		b.WriteString("repne ")
	} else if instr.Flags&decode.FlagRep != 0 {
		b.WriteString("rep ")
	} else if instr.Flags&decode.FlagRepe != 0 {
		b.WriteString("repe ")
	}

	mnemonic := mnemonicFor(instr.Operation)
	if opts.UppercaseMnemonic {
		mnemonic = strings.ToUpper(mnemonic)
	}
	b.WriteString(mnemonic)

	var rendered []string
	for _, op := range instr.Operands {
		if op.Kind == decode.OperandNone {
			break
		}
		rendered = append(rendered, renderOperand(op, opts))
	}
	if len(rendered) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(rendered, ", "))
	}
	return b.String()
}

func renderOperand(op decode.InstructionOperand, opts Options) string {
	switch op.Kind {
	case decode.OperandReg:
		return registerName(op.Reg)
	case decode.OperandImm:
		return renderImmediate(op.Immediate, opts)
	case decode.OperandMem:
		return renderMemory(op, opts)
	default:
		return ""
	}
}

func renderImmediate(value int64, opts Options) string {
	if name, ok := opts.Symbols.Lookup(value); ok {
		return name
	}
	if value < 0 {
		return fmt.Sprintf("-0x%x", -value)
	}
	return fmt.Sprintf("0x%x", value)
}

func renderMemory(op decode.InstructionOperand, opts Options) string {
	var b strings.Builder
	b.WriteString(sizeKeyword(op.Size))

	if seg := segmentName(op.Segment); seg != "" && needsExplicitSegment(op) {
		b.WriteString(seg)
		b.WriteString(":")
	}

	b.WriteString("[")
	wrote := false

	if op.Base != decode.RegNone {
		b.WriteString(registerName(op.Base))
		wrote = true
	}
	if op.Index != decode.RegNone {
		if wrote {
			b.WriteString("+")
		}
		b.WriteString(registerName(op.Index))
		if op.Scale > 1 {
			b.WriteString(fmt.Sprintf("*%d", op.Scale))
		}
		wrote = true
	}

	if op.Immediate != 0 || !wrote {
		if wrote {
			if op.Immediate < 0 {
				b.WriteString(fmt.Sprintf("-%s", shortHex(-op.Immediate)))
			} else {
				b.WriteString(fmt.Sprintf("+%s", shortHex(op.Immediate)))
			}
		} else if name, ok := opts.Symbols.Lookup(op.Immediate); ok {
			b.WriteString(name)
		} else {
			b.WriteString(shortHex(op.Immediate))
		}
	}

	b.WriteString("]")
	return b.String()
}

// shortHex renders small displacements the way a human writes them by
// hand (0x7f, not 0x0000007f) while still zero-padding to eight digits
// once a value no longer fits a signed byte, matching how the rest of
// the corpus's disassembly output favors the common case over rigid
// field widths.
func shortHex(v int64) string {
	if v >= -0x80 && v <= 0x7f {
		return fmt.Sprintf("0x%x", v)
	}
	return fmt.Sprintf("0x%08x", uint32(v))
}

func needsExplicitSegment(op decode.InstructionOperand) bool {
	switch op.Segment {
	case decode.SegFS, decode.SegGS, decode.SegES, decode.SegCS:
		return true
	default:
		return false
	}
}
