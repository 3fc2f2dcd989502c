// Command adduser provisions an account from the terminal, prompting for the
// password without echo.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"spendlog/internal/auth"
	"spendlog/internal/cli"
	"spendlog/internal/config"
	applog "spendlog/internal/log"
)

func main() {
	email := flag.String("email", "", "account email (required)")
	fullName := flag.String("name", "", "display name (required)")
	flag.Parse()

	if *email == "" || *fullName == "" {
		flag.Usage()
		os.Exit(2)
	}

	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentApp)

	repo := cli.OpenRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	password, err := promptPassword()
	if err != nil {
		logger.Error("Failed to read password", "error", err)
		os.Exit(1)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		os.Exit(1)
	}

	user, err := repo.CreateUser(context.Background(), *email, *fullName, hash)
	if err != nil {
		logger.Error("Failed to create user", "error", err, "email", *email)
		os.Exit(1)
	}

	fmt.Printf("Created user %d (%s)\n", user.ID, user.Email)
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}

	fmt.Print("Repeat password: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}

	if !bytes.Equal(first, second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
