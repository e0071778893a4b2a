package decode

// threeDNowEntry pairs a trailing 3DNow! opcode byte with its operation.
// The table is sorted by opcode so lookup3DNow can binary search it, the
// same strategy the sparse escape table it's transcribed from uses.
type threeDNowEntry struct {
	opcode byte
	op     Operation
}

var sparse3DNowOpcodes = []threeDNowEntry{
	{0x0C, PI2FD},
	{0x0D, PF2ID},
	{0x1C, PF2ID},
	{0x90, PFCMPGE},
	{0x94, PFMIN},
	{0x96, PFRCP},
	{0x97, PFRSQRT},
	{0x9A, PFSUB},
	{0x9E, PFADD},
	{0xA0, PFCMPGT},
	{0xA4, PFMAX},
	{0xA6, PFRCPIT1},
	{0xA7, PFRSQIT1},
	{0xAA, PFSUBR},
	{0xAE, PFACC},
	{0xB0, PFCMPEQ},
	{0xB4, PFMUL},
	{0xB6, PFRCPIT2},
	{0xB7, PMULHRW},
	{0xBB, PSWAPD},
	{0xBF, PAVGUSB},
}

// lookup3DNow binary searches the sparse table for the trailing opcode
// byte that follows the MMX operand pair in a 3DNow! instruction.
func lookup3DNow(opcode byte) (Operation, bool) {
	lo, hi := 0, len(sparse3DNowOpcodes)
	for lo < hi {
		mid := (lo + hi) / 2
		if sparse3DNowOpcodes[mid].opcode == opcode {
			return sparse3DNowOpcodes[mid].op, true
		}
		if sparse3DNowOpcodes[mid].opcode < opcode {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return INVALID, false
}
