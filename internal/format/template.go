package format

import (
	"fmt"
	"strings"

	"github.com/keurnel/x86dis/internal/decode"
)

// Template expands a printf-like format string against one decoded
// instruction. Recognized directives:
//
//	%a    instruction address as hex, width defaults to 2*sizeof(pointer)
//	%Nb   raw opcode bytes in hex, padded to N columns of two characters
//	%Ni   mnemonic, prefixed by rep/repe/repne when applicable, left-justified to N columns
//	%o    comma-separated operand list
//	%N    (digits) width accumulator consumed by the next letter directive
//	%c    (any other character) emits that literal character
//
// addrWidth is the pointer width in bytes (2, 4, or 8) used for %a's
// default width when no explicit N precedes it.
func Template(tmpl string, instr decode.Instruction, raw []byte, addr int64, addrWidth byte, opts Options) string {
	var b strings.Builder
	runes := []rune(tmpl)
	i := 0
	for i < len(runes) {
		c := runes[i]
		if c != '%' {
			b.WriteRune(c)
			i++
			continue
		}
		i++
		if i >= len(runes) {
			b.WriteByte('%')
			break
		}

		width := 0
		haveWidth := false
		for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
			haveWidth = true
			width = width*10 + int(runes[i]-'0')
			i++
		}
		if i >= len(runes) {
			break
		}
		directive := runes[i]
		i++

		switch directive {
		case 'a':
			if !haveWidth {
				width = int(addrWidth) * 2
			}
			b.WriteString(fmt.Sprintf("%0*x", width, uint64(addr)))
		case 'b':
			b.WriteString(padBytes(raw, width))
		case 'i':
			b.WriteString(padMnemonic(mnemonicPrefix(instr), width))
		case 'o':
			b.WriteString(operandList(instr, opts))
		default:
			b.WriteRune(directive)
		}
	}
	return b.String()
}

func mnemonicPrefix(instr decode.Instruction) string {
	var prefix string
	if instr.Flags&decode.FlagRepne != 0 {
		prefix = "repne "
	} else if instr.Flags&decode.FlagRep != 0 {
		prefix = "rep "
	} else if instr.Flags&decode.FlagRepe != 0 {
		prefix = "repe "
	}
	if instr.Flags&decode.FlagLock != 0 {
		prefix = "lock " + prefix
	}
	return prefix + mnemonicFor(instr.Operation)
}

func padMnemonic(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padBytes(raw []byte, columns int) string {
	var b strings.Builder
	for _, by := range raw {
		fmt.Fprintf(&b, "%02x", by)
	}
	for i := len(raw); i < columns; i++ {
		b.WriteString("  ")
	}
	return b.String()
}

func operandList(instr decode.Instruction, opts Options) string {
	var parts []string
	for _, op := range instr.Operands {
		if op.Kind == decode.OperandNone {
			break
		}
		parts = append(parts, renderOperand(op, opts))
	}
	return strings.Join(parts, ", ")
}
