package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/folio/internal/clients/folio"
	"github.com/bobmcallan/folio/internal/common"
)

// cli carries the state shared by every subcommand.
type cli struct {
	out       io.Writer
	serverURL string
	token     string
	tokenFile string
	timeout   time.Duration
	verbose   bool
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// client builds an API client, loading the saved token unless --token was given.
func (c *cli) client() (*folio.Client, error) {
	token := c.token
	if token == "" {
		saved, err := loadToken(c.tokenFile)
		if err != nil {
			return nil, err
		}
		token = saved
	}

	logger := common.NewSilentLogger()
	if c.verbose {
		logger = common.NewLoggerWithOutput("debug", os.Stderr)
	}
	return folio.NewClient(token,
		folio.WithBaseURL(c.serverURL),
		folio.WithTimeout(c.timeout),
		folio.WithLogger(logger),
	), nil
}

// authedClient is client() but fails early when no token is available.
func (c *cli) authedClient() (*folio.Client, error) {
	client, err := c.client()
	if err != nil {
		return nil, err
	}
	if client.Token() == "" {
		return nil, fmt.Errorf("not logged in: run 'folio login' first")
	}
	return client, nil
}

func (c *cli) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), c.timeout)
}

// unauthorized rewrites a 401 into a hint to log in again.
func unauthorized(err error) error {
	if folio.IsUnauthorized(err) {
		return fmt.Errorf("session expired or invalid: run 'folio login' again (%w)", err)
	}
	return err
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "folio",
		Short:         "Folio: personal investment portfolio tracker",
		Long:          "Record stock holdings on a Folio server and see what they are worth.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.serverURL, "server", envOr("FOLIO_SERVER", folio.DefaultBaseURL), "Folio server URL (env FOLIO_SERVER)")
	flags.StringVar(&c.token, "token", os.Getenv("FOLIO_TOKEN"), "bearer token, overrides the saved login (env FOLIO_TOKEN)")
	flags.StringVar(&c.tokenFile, "token-file", envOr("FOLIO_TOKEN_FILE", defaultTokenPath()), "where 'folio login' saves the token")
	flags.DurationVar(&c.timeout, "timeout", folio.DefaultTimeout, "request timeout")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log API requests to stderr")

	root.AddCommand(
		newVersionCmd(c),
		newRegisterCmd(c),
		newLoginCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newListCmd(c),
		newAddCmd(c),
		newUpdateCmd(c),
		newDeleteCmd(c),
		newSummaryCmd(c),
	)
	return root
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.out, "folio %s\n", common.CurrentBuild())
		},
	}
}
