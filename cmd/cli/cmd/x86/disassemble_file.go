package x86

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/keurnel/x86dis/internal/diagnostics"
	"github.com/keurnel/x86dis/internal/disasm"
	"github.com/keurnel/x86dis/internal/format"
)

var (
	flagMode   string
	flagBase   int64
	flagFormat string
)

var DisassembleFileCmd = &cobra.Command{
	Use:     "disassemble <binary-file>",
	GroupID: "file-operations",
	Short:   "Disassemble a flat binary file into x86/x86_64 instructions.",
	Long:    `Disassemble a flat binary file into x86/x86_64 instructions, one line per decoded instruction.`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDisassembleFile(cmd, args); err != nil {
			cmd.PrintErrln("Error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	DisassembleFileCmd.Flags().StringVar(&flagMode, "mode", "64", "operating mode: 16, 32, or 64")
	DisassembleFileCmd.Flags().Int64Var(&flagBase, "base", 0, "base address of the first byte")
	DisassembleFileCmd.Flags().StringVar(&flagFormat, "format", "", "format template (printf-like %a/%Nb/%Ni/%o directives); empty uses the default renderer")
}

// runDisassembleFile orchestrates the full disassembly pipeline: resolve
// the file, read it, walk it instruction by instruction, and print each
// decoded instruction.
func runDisassembleFile(cmd *cobra.Command, args []string) error {
	fullPath, err := resolveFilePath(args)
	if err != nil {
		return err
	}

	mode, err := disasm.ParseMode(flagMode)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(fullPath)
	if err != nil {
		return fmt.Errorf("failed to read binary file: %w", err)
	}

	diag := diagnostics.NewContext(fullPath)
	diag.SetPhase("decode")

	results := disasm.Run(raw, flagBase, mode, diag)

	opts := format.Options{}
	for _, r := range results {
		printDecoded(cmd, r, mode, opts)
	}

	if diag.HasErrors() {
		cmd.PrintErrf("%d instruction(s) failed to decode\n", len(diag.Errors()))
	}

	return nil
}

func printDecoded(cmd *cobra.Command, r disasm.Decoded, mode disasm.Mode, opts format.Options) {
	if !r.OK {
		cmd.Printf("%08x: (bad)\n", r.Address)
		return
	}
	if flagFormat != "" {
		cmd.Println(format.Template(flagFormat, r.Instr, r.Raw, r.Address, mode.PointerWidth(), opts))
		return
	}
	cmd.Printf("%08x: %s\n", r.Address, format.Instruction(r.Instr, opts))
}

// resolveFilePath validates the CLI arguments and returns the absolute
// path to the binary file.
func resolveFilePath(args []string) (string, error) {
	if len(args) < 1 || args[0] == "" {
		return "", fmt.Errorf("no binary file provided")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("unable to get current working directory: %w", err)
	}

	fullPath := filepath.Join(cwd, args[0])
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return "", fmt.Errorf("binary file does not exist at path: %s", fullPath)
	}

	return fullPath, nil
}
