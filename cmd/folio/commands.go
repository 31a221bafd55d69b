package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bobmcallan/folio/internal/clients/folio"
	"github.com/bobmcallan/folio/internal/models"
)

func newRegisterCmd(c *cli) *cobra.Command {
	var req folio.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				pw, err := readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				req.Password = pw
			}
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()

			res, err := client.Register(ctx, req)
			if err != nil {
				return err
			}
			return c.finishLogin(res)
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string
	var dev bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session token",
		Long:  "Log in with email and password, or with --dev against a non-production server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()

			var res *folio.AuthResult
			if dev {
				res, err = client.DevLogin(ctx)
			} else {
				if email == "" {
					return fmt.Errorf("--email is required (or use --dev)")
				}
				if password == "" {
					if password, err = readLine(cmd, "Password: "); err != nil {
						return err
					}
				}
				res, err = client.Login(ctx, email, password)
			}
			if err != nil {
				return err
			}
			return c.finishLogin(res)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().BoolVar(&dev, "dev", false, "use the server's development login")
	return cmd
}

func (c *cli) finishLogin(res *folio.AuthResult) error {
	if err := saveToken(c.tokenFile, res.Token); err != nil {
		return err
	}
	name := res.User.Name
	if name == "" {
		name = res.User.Email
	}
	fmt.Fprintf(c.out, "Logged in as %s\n", name)
	return nil
}

func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := removeToken(c.tokenFile); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()

			user, err := client.CurrentUser(ctx)
			if err != nil {
				return unauthorized(err)
			}
			fmt.Fprintf(c.out, "%s <%s> (%s)\n", user.Name, user.Email, user.Provider)
			return nil
		},
	}
}

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "holdings"},
		Short:   "List holdings with their value and gain/loss",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()

			holdings, err := client.Holdings(ctx)
			if err != nil {
				return unauthorized(err)
			}
			summary, err := client.Summary(ctx)
			if err != nil {
				return unauthorized(err)
			}
			printHoldings(c.out, holdings, summary)
			return nil
		},
	}
}

func newSummaryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show portfolio totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()

			summary, err := client.Summary(ctx)
			if err != nil {
				return unauthorized(err)
			}
			printSummary(c.out, summary)
			return nil
		},
	}
}

// investmentFlags are the editable fields shared by add and update.
type investmentFlags struct {
	symbol, company, date  string
	quantity               int64
	purchasePrice, current string
}

func (f *investmentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.symbol, "symbol", "s", "", "ticker symbol, e.g. AAPL")
	cmd.Flags().StringVarP(&f.company, "company", "c", "", "company name")
	cmd.Flags().Int64VarP(&f.quantity, "quantity", "q", 0, "number of shares")
	cmd.Flags().StringVar(&f.purchasePrice, "purchase-price", "", "price paid per share")
	cmd.Flags().StringVar(&f.current, "current-price", "", "current price per share")
	cmd.Flags().StringVar(&f.date, "date", "", "purchase date YYYY-MM-DD")
}

func parsePrice(flag, s string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("--%s: %q is not a number", flag, s)
	}
	return &d, nil
}

// apply overlays the flags the user set onto input.
func (f *investmentFlags) apply(cmd *cobra.Command, input *models.InvestmentInput) error {
	changed := cmd.Flags().Changed
	if changed("symbol") {
		input.Symbol = f.symbol
	}
	if changed("company") {
		input.CompanyName = f.company
	}
	if changed("quantity") {
		q := f.quantity
		input.Quantity = &q
	}
	if changed("purchase-price") {
		p, err := parsePrice("purchase-price", f.purchasePrice)
		if err != nil {
			return err
		}
		input.PurchasePrice = p
	}
	if changed("current-price") {
		p, err := parsePrice("current-price", f.current)
		if err != nil {
			return err
		}
		input.CurrentPrice = p
	}
	if changed("date") {
		input.PurchaseDate = f.date
	}
	return nil
}

func newAddCmd(c *cli) *cobra.Command {
	var f investmentFlags
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a holding",
		Example: `  folio add -s AAPL -c "Apple Inc." -q 10 --purchase-price 150 --current-price 155.50 --date 2024-01-15`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := &models.InvestmentInput{PurchaseDate: time.Now().Format(models.DateLayout)}
			if err := f.apply(cmd, input); err != nil {
				return err
			}
			client, err := c.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()

			inv, err := client.CreateInvestment(ctx, input)
			if err != nil {
				return unauthorized(err)
			}
			fmt.Fprintf(c.out, "Added %s (%s)\n", inv.Symbol, inv.ID)
			return nil
		},
	}
	f.register(cmd)
	for _, name := range []string{"symbol", "company", "quantity", "purchase-price", "current-price"} {
		cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUpdateCmd(c *cli) *cobra.Command {
	var f investmentFlags
	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Change fields of a holding",
		Long:    "Change fields of a holding. Fields not given keep their current values.",
		Example: `  folio update 3f2a... --current-price 172.10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()

			existing, err := client.GetInvestment(ctx, args[0])
			if err != nil {
				return unauthorized(err)
			}

			qty := existing.Quantity
			purchase, current := existing.PurchasePrice, existing.CurrentPrice
			input := &models.InvestmentInput{
				Symbol:        existing.Symbol,
				CompanyName:   existing.CompanyName,
				Quantity:      &qty,
				PurchasePrice: &purchase,
				CurrentPrice:  &current,
				PurchaseDate:  existing.PurchaseDate,
			}
			if err := f.apply(cmd, input); err != nil {
				return err
			}

			inv, err := client.UpdateInvestment(ctx, args[0], input)
			if err != nil {
				return unauthorized(err)
			}
			fmt.Fprintf(c.out, "Updated %s (%s)\n", inv.Symbol, inv.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete holdings",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.authedClient()
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()

			for _, id := range args {
				if err := client.DeleteInvestment(ctx, id); err != nil {
					return unauthorized(err)
				}
				fmt.Fprintf(c.out, "Deleted %s\n", id)
			}
			return nil
		},
	}
}
