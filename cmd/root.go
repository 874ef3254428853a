package cmd

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/ecwid-qa/sbx/internal/billing"
	"github.com/ecwid-qa/sbx/internal/config"
	"github.com/ecwid-qa/sbx/internal/history"
	"github.com/ecwid-qa/sbx/internal/reseller"
	"github.com/ecwid-qa/sbx/internal/sandbox"
	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sbx",
	Short: "Create and track test storefronts on QA sandboxes",
	Long: `sbx registers test storefronts against QA sandboxes through the
reseller API. The target sandbox is derived from the browser tab you
are currently looking at (via the Chrome DevTools endpoint), or can be
given explicitly with --sandbox / --tab-url.`,
	SilenceUsage: true,
}

// Root returns the fully wired root command.
func Root() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().String("sandbox", "", "Target sandbox name (skips tab detection)")
	rootCmd.PersistentFlags().String("tab-url", "", "Use this URL instead of querying the browser")
	cobra.OnInitialize(func() {
		cfg = config.MustLoad()
	})
}

func newHTTPClient() *http.Client {
	// No timeout unless configured; a hung sandbox shows up as a
	// spinning operation the operator can interrupt.
	return &http.Client{Timeout: time.Duration(cfg.HTTPTimeout) * time.Second}
}

func newResolver(cmd *cobra.Command) *sandbox.Resolver {
	tabURL, _ := cmd.Flags().GetString("tab-url")
	return &sandbox.Resolver{
		DevToolsURL: cfg.DevToolsURL,
		TabURL:      tabURL,
		HTTPClient:  newHTTPClient(),
	}
}

func newResellerClient() *reseller.Client {
	return &reseller.Client{
		HTTPClient: newHTTPClient(),
		Domain:     cfg.QADomain,
		BaseURL:    cfg.RegisterBaseURL,
		Key:        cfg.ResellerKey,
		Name:       cfg.ResellerName,
	}
}

func newBillingClient() *billing.Client {
	return &billing.Client{
		HTTPClient: newHTTPClient(),
		Domain:     cfg.QADomain,
		BaseURL:    cfg.BillingBaseURL,
		AuthKey:    cfg.SuperuserKey,
	}
}

func newHistoryStore() *history.Store {
	return &history.Store{Path: filepath.Join(cfg.DataDir, "stores.json")}
}
