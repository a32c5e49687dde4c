// posctl is a terminal client for the POS service: account signup and
// login, password resets, session inspection, and the public product
// listing. The bearer token is kept in a file between runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"server/internal/client/apiclient"
	"server/internal/domain"
	"server/internal/session"
)

const usage = `usage: posctl [-base URL] <command> [flags]

commands:
  signup    create an account and its business profile
  login     sign in with email and password
  logout    end the current session
  reset     request a password reset email
  whoami    show the current session and profile
  products  list the public product catalog
`

func main() {
	base := flag.String("base", envOr("POS_API_URL", "http://localhost:8000"), "API base URL")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
	app, err := newCLI(*base, logger)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "signup":
		err = app.signup(ctx, args)
	case "login":
		err = app.login(ctx, args)
	case "logout":
		err = app.logout(ctx)
	case "reset":
		err = app.reset(ctx, args)
	case "whoami":
		err = app.whoami(ctx)
	case "products":
		err = app.products(ctx)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

type cli struct {
	client    *apiclient.Client
	store     *session.Store
	facade    *session.Facade
	tokenPath string
}

func newCLI(base string, logger zerolog.Logger) (*cli, error) {
	tokenPath, err := tokenFile()
	if err != nil {
		return nil, err
	}
	token, _ := os.ReadFile(tokenPath)

	client := apiclient.New(apiclient.Config{
		BaseURL: base,
		Token:   strings.TrimSpace(string(token)),
		Logger:  logger,
	})
	store := session.NewStore()
	facade := session.NewFacade(client, client, store, logger)
	facade.Start()

	return &cli{client: client, store: store, facade: facade, tokenPath: tokenPath}, nil
}

// resolve validates the restored token against the server so commands
// see the real session state instead of Initializing.
func (c *cli) resolve(ctx context.Context) error {
	return c.client.Start(ctx)
}

func (c *cli) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	business := fs.String("business", "", "business name")
	phone := fs.String("phone", "", "contact phone")
	kind := fs.String("type", "", "business type (retail, restaurant, cafe, salon, pharmacy, grocery, clothing, electronics, other)")
	_ = fs.Parse(args)

	businessType := domain.BusinessType(*kind)
	if *kind != "" && !businessType.Valid() {
		return fmt.Errorf("unknown business type %q", *kind)
	}
	if err := c.resolve(ctx); err != nil {
		return err
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	identity, err := c.facade.Signup(ctx, *email, password, session.ProfileFields{
		BusinessName: *business,
		Phone:        *phone,
		BusinessType: businessType,
	})
	if err != nil {
		return err
	}
	if err := c.saveToken(); err != nil {
		return err
	}
	fmt.Printf("account created: %s (%s)\n", identity.DisplayName, identity.Email)
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	_ = fs.Parse(args)

	if err := c.resolve(ctx); err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	identity, err := c.facade.Login(ctx, *email, password)
	if err != nil {
		return err
	}
	if err := c.saveToken(); err != nil {
		return err
	}
	fmt.Printf("signed in as %s\n", identity.Email)
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if err := c.resolve(ctx); err != nil {
		return err
	}
	if err := c.facade.Logout(ctx); err != nil {
		return err
	}
	if err := c.saveToken(); err != nil {
		return err
	}
	fmt.Println("signed out")
	return nil
}

func (c *cli) reset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	_ = fs.Parse(args)

	if err := c.facade.ResetPassword(ctx, *email); err != nil {
		return err
	}
	fmt.Println("password reset requested; check your email")
	return nil
}

func (c *cli) whoami(ctx context.Context) error {
	if err := c.resolve(ctx); err != nil {
		return err
	}

	state, sess := c.store.Current()
	if state != session.StateAuthenticated {
		fmt.Println("not signed in")
		return nil
	}

	fmt.Printf("signed in as %s\n", sess.Identity.Email)
	if sess.Identity.DisplayName != "" {
		fmt.Printf("name:     %s\n", sess.Identity.DisplayName)
	}
	if !sess.HasProfile {
		fmt.Println("profile:  none")
		return nil
	}
	fmt.Printf("business: %s (%s)\n", sess.Profile.BusinessName, sess.Profile.BusinessType)
	fmt.Printf("plan:     %s, trial ends %s\n", sess.Profile.Plan, sess.Profile.TrialEnd.Format("2006-01-02"))
	return nil
}

func (c *cli) products(ctx context.Context) error {
	items, err := c.client.Products(ctx)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	for _, item := range items {
		p.Printf("%-16s %10v  stock %-4d %s\n",
			item.Name, currency.Symbol(currency.USD.Amount(item.Price)), item.Stock, item.Category)
	}
	return nil
}

func (c *cli) saveToken() error {
	token := c.client.Token()
	if token == "" {
		err := os.Remove(c.tokenPath)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.tokenPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.tokenPath, []byte(token), 0o600)
}

func tokenFile() (string, error) {
	if v := os.Getenv("POSCTL_TOKEN_FILE"); v != "" {
		return v, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "posctl", "token"), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "posctl:", err)
	os.Exit(1)
}
