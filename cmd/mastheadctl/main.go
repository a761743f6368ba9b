package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"masthead/internal/accounts"
	"masthead/internal/auth"
	"masthead/internal/config"
	"masthead/internal/db"
	"masthead/internal/dbinit"
)

const minPasswordLen = 8

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "user":
		userCmd(os.Args[2:])
	case "migrate":
		migrateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println(`mastheadctl - masthead admin CLI

Usage:
  mastheadctl user create <email> [-display "<name>"] [-config config.yaml] [-db postgres://...]
  mastheadctl migrate [-config config.yaml]

Examples:
  mastheadctl migrate
  mastheadctl user create reader@example.com -display "Night Desk"`)
}

func userCmd(args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	switch args[0] {
	case "create":
		userCreate(args[1:])
	default:
		usage()
		os.Exit(2)
	}
}

func userCreate(args []string) {
	fs := flag.NewFlagSet("user create", flag.ExitOnError)
	var (
		cfgPath     = fs.String("config", "config.yaml", "path to config file")
		dbOverride  = fs.String("db", "", "override database connection URL")
		displayName = fs.String("display", "", "display name (default: part of the email before @)")
	)
	_ = fs.Parse(reorderArgs(args))

	rest := fs.Args()
	if len(rest) < 1 {
		fmt.Println("missing <email>")
		fmt.Println()
		usage()
		os.Exit(2)
	}
	email := accounts.NormalizeEmail(rest[0])
	if !strings.Contains(email, "@") {
		fmt.Println("email must contain @")
		os.Exit(2)
	}
	if *displayName == "" {
		*displayName, _, _ = strings.Cut(email, "@")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appURL, err := resolveDBURL(cfg, *dbOverride)
	if err != nil {
		log.Fatalf("db url: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	pool, err := db.NewPool(ctx, appURL, db.PoolOptions{MaxConns: 1})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	pw := promptPassword("Password: ")
	pw2 := promptPassword("Confirm password: ")
	if pw != pw2 {
		fmt.Println("passwords do not match")
		os.Exit(1)
	}
	if len(pw) < minPasswordLen {
		fmt.Printf("password too short (min %d chars)\n", minPasswordLen)
		os.Exit(1)
	}

	hash, err := auth.HashPassword(pw)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	acc, err := accounts.NewPostgres(pool).Create(ctx, email, *displayName, hash)
	if errors.Is(err, accounts.ErrExists) {
		log.Fatalf("create account: %q already exists", email)
	}
	if err != nil {
		log.Fatalf("create account: %v", err)
	}
	fmt.Printf("ok: account created\n  id: %s\n  email: %s\n  display: %s\n", acc.ID, acc.Email, acc.DisplayName)
}

func migrateCmd(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	adminURL, err := cfg.Database.AdminURL()
	if err != nil {
		log.Fatalf("db url: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()
	if err := dbinit.EnsureDatabaseAndMigrate(ctx, adminURL, cfg.Database.Name, cfg.Database.User); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	fmt.Printf("ok: database %q migrated\n", cfg.Database.Name)
}

func promptPassword(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.Fatalf("read password: %v", err)
	}
	return strings.TrimSpace(string(b))
}

func resolveDBURL(cfg *config.Config, override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return override, nil
	}
	return cfg.Database.AppURL()
}

// reorderArgs moves flags ahead of positionals so "create a@b -display X" parses.
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) > 0 && arg != "-" && arg != "--" && arg[0] == '-' {
			flags = append(flags, arg)
			if !strings.Contains(arg, "=") && i+1 < len(args) && (len(args[i+1]) == 0 || args[i+1][0] != '-') {
				flags = append(flags, args[i+1])
				i++
			}
		} else {
			positional = append(positional, arg)
		}
	}
	return append(flags, positional...)
}
