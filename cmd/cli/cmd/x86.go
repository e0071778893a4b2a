package cmd

import (
	"github.com/spf13/cobra"

	x86cmd "github.com/keurnel/x86dis/cmd/cli/cmd/x86"
)

var x86Cmd = &cobra.Command{
	Use:     "x86",
	GroupID: "arch",
	Short:   "x86 and x86_64 instruction decoding",
	Long:    `Functions related to decoding x86 and x86_64 machine code.`,
}

func init() {
	x86Cmd.AddGroup(&cobra.Group{
		ID:    "file-operations",
		Title: "File operations",
	})
	x86Cmd.AddCommand(x86cmd.DisassembleFileCmd)
}
