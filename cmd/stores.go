package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/ecwid-qa/sbx/internal/history"
	"github.com/ecwid-qa/sbx/pkg/util"
	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// HistoryReader lists the stores recorded for a sandbox.
type HistoryReader interface {
	Records(sandbox string) ([]history.Record, error)
}

// StoresCmd presents the local history of created stores.
type StoresCmd struct {
	resolver SandboxResolver
	history  HistoryReader
	out      io.Writer
	copyFn   func(string) error
	openFn   func(string) error
}

type StoresListInput struct {
	Sandbox     string
	Output      string
	Interactive bool
}

type StoresCopyInput struct {
	Sandbox string
	Index   int
}

type StoresOpenInput struct {
	Sandbox string
}

func (c StoresCmd) sandboxName(ctx context.Context, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	name, err := c.resolver.SandboxName(ctx)
	if err != nil {
		pterm.Error.Println("Failed to extract sandbox name from the active tab URL.")
		return "", err
	}
	return name, nil
}

// records returns the sandbox's stores most-recently-inserted first.
// This is an approximation of recency: re-registering an existing
// email keeps its original position.
func (c StoresCmd) records(ctx context.Context, override string) (string, []history.Record, error) {
	name, err := c.sandboxName(ctx, override)
	if err != nil {
		return "", nil, err
	}
	records, err := c.history.Records(name)
	if err != nil {
		return "", nil, err
	}
	return name, lo.Reverse(slices.Clone(records)), nil
}

// List renders the numbered history for the current sandbox.
func (c StoresCmd) List(ctx context.Context, in StoresListInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	_, records, err := c.records(ctx, in.Sandbox)
	if err != nil {
		return err
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(c.out, "No stores created yet.")
		return nil
	}

	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = fmt.Sprintf("%d. %s - Comment: %s", i+1, rec.Email, rec.Comment)
	}

	if in.Interactive {
		choice, err := pterm.DefaultInteractiveSelect.WithOptions(lines).Show("Copy email of")
		if err != nil {
			return err
		}
		for i, line := range lines {
			if line == choice {
				return c.copyEmail(records[i].Email)
			}
		}
		return nil
	}

	for _, line := range lines {
		fmt.Fprintln(c.out, line)
	}
	return nil
}

func (c StoresCmd) copyEmail(email string) error {
	if err := c.copyFn(email); err != nil {
		pterm.Error.Println("Failed to copy email to clipboard!")
		return err
	}
	pterm.Success.Printf("Email %s copied to clipboard!\n", email)
	return nil
}

// Copy puts the n-th listed store's email on the system clipboard.
func (c StoresCmd) Copy(ctx context.Context, in StoresCopyInput) error {
	_, records, err := c.records(ctx, in.Sandbox)
	if err != nil {
		return err
	}
	if in.Index < 1 || in.Index > len(records) {
		pterm.Error.Printf("No store at position %d (have %d)\n", in.Index, len(records))
		return fmt.Errorf("index out of range")
	}
	return c.copyEmail(records[in.Index-1].Email)
}

// Open opens the sandbox control panel in the default browser.
func (c StoresCmd) Open(ctx context.Context, in StoresOpenInput) error {
	name, err := c.sandboxName(ctx, in.Sandbox)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("https://my%s.%s/cp/", name, cfg.QADomain)
	if err := c.openFn(url); err != nil {
		pterm.Error.Printf("Could not open %s: %v\n", url, err)
		return err
	}
	pterm.Info.Printf("Opened %s\n", url)
	return nil
}

// --- Cobra wiring ---

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "Browse stores created on the current sandbox",
}

var storesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List created stores, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runStoresList,
}

var storesCopyCmd = &cobra.Command{
	Use:   "copy <n>",
	Short: "Copy the n-th listed store's email to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoresCopy,
}

var storesOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the sandbox control panel in the browser",
	Args:  cobra.NoArgs,
	RunE:  runStoresOpen,
}

func init() {
	storesListCmd.Flags().StringP("output", "o", "", "Output format (json)")
	storesListCmd.Flags().BoolP("interactive", "i", false, "Pick a store and copy its email")
	storesCmd.AddCommand(storesListCmd)
	storesCmd.AddCommand(storesCopyCmd)
	storesCmd.AddCommand(storesOpenCmd)
	rootCmd.AddCommand(storesCmd)
}

func newStoresCmd(cmd *cobra.Command) StoresCmd {
	return StoresCmd{
		resolver: newResolver(cmd),
		history:  newHistoryStore(),
		out:      os.Stdout,
		copyFn:   clipboard.WriteAll,
		openFn:   browser.OpenURL,
	}
}

func runStoresList(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	interactive, _ := cmd.Flags().GetBool("interactive")
	sandboxName, _ := cmd.Flags().GetString("sandbox")
	c := newStoresCmd(cmd)
	return c.List(cmd.Context(), StoresListInput{Sandbox: sandboxName, Output: output, Interactive: interactive})
}

func runStoresCopy(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[0])
	}
	sandboxName, _ := cmd.Flags().GetString("sandbox")
	c := newStoresCmd(cmd)
	return c.Copy(cmd.Context(), StoresCopyInput{Sandbox: sandboxName, Index: index})
}

func runStoresOpen(cmd *cobra.Command, args []string) error {
	sandboxName, _ := cmd.Flags().GetString("sandbox")
	c := newStoresCmd(cmd)
	return c.Open(cmd.Context(), StoresOpenInput{Sandbox: sandboxName})
}
