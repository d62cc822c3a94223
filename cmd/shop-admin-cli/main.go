// Command shop-admin-cli provides operator tooling for the admin API:
// running migrations, seeding development data, and managing admin accounts
// without going through the HTTP surface.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/shopmill/admin-api/config"
	"github.com/shopmill/admin-api/internal/bootstrap"
	"github.com/shopmill/admin-api/internal/data"
	"github.com/shopmill/admin-api/internal/devseed"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger("info")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command failure to shell scripts
	}
}

func commands() map[string]command {
	cmds := []command{
		{name: "migrate", description: "apply pending database migrations", run: runMigrate},
		{name: "seed", description: "seed development data (dev mode only)", run: runSeed},
		{name: "useradd", description: "create an admin user", run: runUserAdd},
	}
	m := make(map[string]command, len(cmds))
	for _, c := range cmds {
		m[c.name] = c
	}
	return m
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: shop-admin-cli <command> [flags]")
	fmt.Fprintln(os.Stderr)
	names := make([]string, 0)
	for name := range commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", name, commands()[name].description)
	}
}

func connect(ctx *commandContext) (*sql.DB, error) {
	return bootstrap.ConnectDB(ctx.Config.Postgres, ctx.Logger)
}

func runMigrate(ctx *commandContext, _ []string) error {
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	mctx, cancel := context.WithTimeout(ctx.Ctx, defaultMigrationTimeout)
	defer cancel()
	return bootstrap.RunMigrations(mctx, db, ctx.Logger)
}

func runSeed(ctx *commandContext, _ []string) error {
	if !ctx.Config.IsDev {
		return errors.New("seed requires dev mode (set DEV=true)")
	}

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	return devseed.Run(ctx.Ctx, devseed.NewServices(db, ctx.Config.Login), ctx.Logger)
}

func runUserAdd(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	email := fs.String("email", "", "admin email (required)")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" {
		return errors.New("-email is required")
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), ctx.Config.Login.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := data.NewUserRepo(db).CreateAdmin(ctx.Ctx, *email, *name, string(hash))
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	ctx.Logger.InfoContext(ctx.Ctx, "admin user created", "user_id", user.ID, "email", user.Email)
	return nil
}

// readPassword prompts twice on the terminal; the password never appears in
// argv or shell history.
func readPassword() (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return "", errors.New("useradd requires an interactive terminal")
	}

	fmt.Fprint(os.Stderr, "password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(first) == 0 {
		return "", errors.New("password cannot be empty")
	}

	fmt.Fprint(os.Stderr, "confirm: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read confirmation: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
