package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "x86dis",
	Short: "x86dis is a disassembler for x86 and x86_64 machine code",
	Long:  `x86dis decodes a stream of bytes into structured x86/x86_64 instructions and renders them as text.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "arch",
		Title: "Architectures",
	})

	rootCmd.AddCommand(x86Cmd)
}
