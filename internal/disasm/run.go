// Package disasm walks a byte buffer instruction by instruction, wiring
// the decoder and the diagnostics log together the way a CLI driver needs
// them: one call decodes everything there is to decode and reports where
// it could not. Each result keeps the raw bytes and address a formatter
// needs.
package disasm

import (
	"fmt"

	"github.com/keurnel/x86dis/internal/decode"
	"github.com/keurnel/x86dis/internal/diagnostics"
)

// Mode selects the operating mode the decoder assumes for every
// instruction in a run.
type Mode int

const (
	Mode16 Mode = iota
	Mode32
	Mode64
)

// ParseMode maps a CLI-facing mode string ("16", "32", "64") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "16":
		return Mode16, nil
	case "32":
		return Mode32, nil
	case "64":
		return Mode64, nil
	default:
		return 0, fmt.Errorf("unrecognized mode %q (want 16, 32, or 64)", s)
	}
}

func (m Mode) decodeOne(buf []byte, addr int64) (decode.Instruction, bool) {
	switch m {
	case Mode16:
		return decode.Decode16(buf, addr)
	case Mode32:
		return decode.Decode32(buf, addr)
	default:
		return decode.Decode64(buf, addr)
	}
}

// PointerWidth returns the mode's natural address width in bytes, used
// by the formatter's default %a width.
func (m Mode) PointerWidth() byte {
	switch m {
	case Mode16:
		return 2
	case Mode32:
		return 4
	default:
		return 8
	}
}

// Decoded pairs one successfully or unsuccessfully decoded instruction
// with the exact raw bytes it consumed and the address it started at.
type Decoded struct {
	Address int64
	Raw     []byte
	Instr   decode.Instruction
	OK      bool
}

// Run decodes buf from front to back in the given mode, starting at
// baseAddr. A failed decode advances by one byte (byte-at-a-time
// resynchronization) so one bad instruction does not stop the run; the
// failure is both returned in the result slice and recorded in diag.
func Run(buf []byte, baseAddr int64, mode Mode, diag *diagnostics.Context) []Decoded {
	var out []Decoded
	offset := 0

	for offset < len(buf) {
		addr := baseAddr + int64(offset)
		instr, ok := mode.decodeOne(buf[offset:], addr)

		length := instr.Length
		if !ok || length <= 0 {
			length = 1
		}
		if offset+length > len(buf) {
			length = len(buf) - offset
		}

		raw := append([]byte(nil), buf[offset:offset+length]...)
		out = append(out, Decoded{Address: addr, Raw: raw, Instr: instr, OK: ok})

		if diag != nil {
			loc := diag.Loc(offset, addr)
			if ok {
				diag.Trace(loc, fmt.Sprintf("decoded %d byte(s)", length))
			} else {
				diag.Error(loc, "failed to decode instruction").WithBytes(raw)
			}
		}

		offset += length
	}

	return out
}
