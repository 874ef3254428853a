package cmd

import (
	"context"
	"errors"
	"regexp"

	"github.com/ecwid-qa/sbx/internal/creds"
	"github.com/ecwid-qa/sbx/internal/reseller"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// defaultPassword is substituted for an empty password before any
// validation runs, so an empty password always passes the length check.
const defaultPassword = "12345678"

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]+$`)

// Selections offered by the interactive form. The first entry of each
// list is the domestic default.
var (
	countryOptions  = []string{"USA", "CAN", "GBR", "DEU", "FRA", "ESP", "ITA", "AUS", "BRA"}
	currencyOptions = []string{"USD", "CAD", "GBP", "EUR", "AUD", "BRL"}
	planOptions     = []string{
		reseller.FreePlan,
		"ECWID_SKINNY_VENTURE",
		"ECWID_SKINNY_BUSINESS",
		"ECWID_SKINNY_UNLIMITED",
	}
)

// RegistrationService is the slice of the reseller client we use.
type RegistrationService interface {
	Register(ctx context.Context, req reseller.RegisterRequest) (*reseller.RegisterResult, error)
}

// BillingService is the slice of the billing client we use.
type BillingService interface {
	Upgrade(ctx context.Context, ownerID, sandbox, plan string) error
}

// SandboxResolver yields the sandbox the operator is working on.
type SandboxResolver interface {
	SandboxName(ctx context.Context) (string, error)
}

// HistoryWriter records a created store.
type HistoryWriter interface {
	Save(sandbox, email, comment string) error
}

// CredentialCache persists the last-used email/password pair.
type CredentialCache interface {
	Save(email, password string) error
	Load() (email, password string)
}

// RegisterCmd handles store registration independent of cobra.
type RegisterCmd struct {
	svc      RegistrationService
	billing  BillingService
	resolver SandboxResolver
	history  HistoryWriter
	creds    CredentialCache
}

type RegisterInput struct {
	Email    string
	Password string
	Comment  string
	Country  string
	Currency string
	Plan     string
	Sandbox  string
}

// Run validates the form, registers the store and applies the
// follow-up plan upgrade. All outcomes are reported to the terminal;
// the returned error only signals that the operation did not complete.
func (c RegisterCmd) Run(ctx context.Context, in RegisterInput) error {
	// Default-fill happens before the length check on purpose: an
	// empty password is always valid, only a deliberately short one
	// is rejected.
	password := in.Password
	if password == "" {
		password = defaultPassword
	}
	if in.Email == "" || !emailRe.MatchString(in.Email) {
		pterm.Error.Println("Please enter a valid email address.")
		return errors.New("invalid email address")
	}
	if len(password) < 8 {
		pterm.Error.Println("Password must be at least 8 characters long.")
		return errors.New("password too short")
	}

	// Cached before the attempt so a failed registration still
	// pre-fills the next run.
	if err := c.creds.Save(in.Email, password); err != nil {
		pterm.Warning.Printf("Could not cache credentials: %v\n", err)
	}

	sandboxName := in.Sandbox
	if sandboxName == "" {
		name, err := c.resolver.SandboxName(ctx)
		if err != nil {
			pterm.Error.Println("Failed to extract sandbox name from the active tab URL.")
			return err
		}
		sandboxName = name
	}

	if in.Country == "" || in.Currency == "" {
		pterm.Error.Println("Please select both country and currency.")
		return errors.New("country and currency are required")
	}

	spinner, _ := pterm.DefaultSpinner.Start("Registering store on " + sandboxName + "...")
	defer func() {
		if spinner != nil && spinner.IsActive {
			_ = spinner.Stop()
		}
	}()

	res, err := c.svc.Register(ctx, reseller.RegisterRequest{
		Sandbox:  sandboxName,
		Email:    in.Email,
		Password: password,
		Country:  in.Country,
		Currency: in.Currency,
	})
	if err != nil {
		if errors.Is(err, reseller.ErrTemplate) {
			spinner.Fail("An error occurred while processing the template XML.")
		} else {
			spinner.Fail("An error occurred during store registration.")
		}
		return err
	}
	if !res.OK {
		spinner.Fail(res.Message)
		return errors.New("registration rejected")
	}
	spinner.Success(res.Message)

	if in.Plan != "" && in.Plan != reseller.FreePlan {
		if err := c.billing.Upgrade(ctx, res.OwnerID, sandboxName, in.Plan); err != nil {
			// Best effort: the store is already registered.
			pterm.Warning.Printf("An error occurred while upgrading to %s\n", in.Plan)
		} else {
			pterm.Info.Printf("Store upgraded to %s\n", in.Plan)
		}
	}

	if err := c.history.Save(sandboxName, in.Email, in.Comment); err != nil {
		pterm.Warning.Printf("Store created but not recorded locally: %v\n", err)
	}
	return nil
}

// --- Cobra wiring ---

var registerCmd = &cobra.Command{
	Use:     "register",
	Aliases: []string{"reg"},
	Short:   "Register a test storefront on the current sandbox",
	Long: `Register a test storefront through the sandbox reseller API.

Missing fields are prompted for interactively, pre-filled with the
last-used credentials. Stores are always created on the free tier; a
paid plan selection is applied through a follow-up billing call.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringP("email", "e", "", "Store owner email")
	registerCmd.Flags().StringP("password", "p", "", "Store owner password (blank uses the QA default)")
	registerCmd.Flags().StringP("comment", "c", "", "Free-form note stored with the record")
	registerCmd.Flags().String("country", "", "Store country code")
	registerCmd.Flags().String("currency", "", "Store currency code")
	registerCmd.Flags().String("plan", "", "Plan to upgrade to after registration")
	registerCmd.Flags().Bool("no-input", false, "Never prompt; missing fields fail validation")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	comment, _ := cmd.Flags().GetString("comment")
	country, _ := cmd.Flags().GetString("country")
	currency, _ := cmd.Flags().GetString("currency")
	plan, _ := cmd.Flags().GetString("plan")
	noInput, _ := cmd.Flags().GetBool("no-input")
	sandboxName, _ := cmd.Flags().GetString("sandbox")

	cache := creds.Cache{}
	if !noInput {
		savedEmail, savedPassword := cache.Load()
		var err error
		if email == "" {
			email, err = pterm.DefaultInteractiveTextInput.WithDefaultValue(savedEmail).Show("Email")
			if err != nil {
				return err
			}
		}
		if password == "" {
			password, err = pterm.DefaultInteractiveTextInput.WithMask("*").WithDefaultValue(savedPassword).Show("Password (blank for QA default)")
			if err != nil {
				return err
			}
		}
		if comment == "" {
			comment, err = pterm.DefaultInteractiveTextInput.Show("Comment")
			if err != nil {
				return err
			}
		}
		if country == "" {
			country, err = pterm.DefaultInteractiveSelect.WithOptions(countryOptions).WithDefaultOption(reseller.DefaultCountry).Show("Country")
			if err != nil {
				return err
			}
		}
		if currency == "" {
			currency, err = pterm.DefaultInteractiveSelect.WithOptions(currencyOptions).WithDefaultOption(reseller.DefaultCurrency).Show("Currency")
			if err != nil {
				return err
			}
		}
		if plan == "" {
			plan, err = pterm.DefaultInteractiveSelect.WithOptions(planOptions).WithDefaultOption(reseller.FreePlan).Show("Plan")
			if err != nil {
				return err
			}
		}
	}

	c := RegisterCmd{
		svc:      newResellerClient(),
		billing:  newBillingClient(),
		resolver: newResolver(cmd),
		history:  newHistoryStore(),
		creds:    cache,
	}
	return c.Run(cmd.Context(), RegisterInput{
		Email:    email,
		Password: password,
		Comment:  comment,
		Country:  country,
		Currency: currency,
		Plan:     plan,
		Sandbox:  sandboxName,
	})
}
