package cmd

import (
	"fmt"

	"github.com/ecwid-qa/sbx/internal/sandbox"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Show which sandbox would be targeted",
	Args:  cobra.NoArgs,
	RunE:  runSandbox,
}

func init() {
	rootCmd.AddCommand(sandboxCmd)
}

func runSandbox(cmd *cobra.Command, args []string) error {
	resolver := newResolver(cmd)

	tabURL, err := resolver.ActiveTabURL(cmd.Context())
	if err != nil {
		pterm.Error.Println("Failed to extract sandbox name from the active tab URL.")
		return err
	}
	name, ok := sandbox.ParseSandboxName(tabURL)
	if !ok {
		pterm.Error.Printf("No sandbox marker in %s\n", tabURL)
		return fmt.Errorf("%w: %s", sandbox.ErrNoSandbox, tabURL)
	}
	pterm.Info.Printf("Tab URL: %s\n", tabURL)
	pterm.Success.Printf("Sandbox: %s\n", name)
	return nil
}
