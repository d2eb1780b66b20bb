// Command createuser registers a user account from the command line.
//
//	createuser -username alice -email alice@example.com
//
// Without -password the password is read from the terminal without echo,
// or from stdin when piped.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/kloda-app/kloda/backend/internal/config"
	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/logging"
	"github.com/kloda-app/kloda/backend/internal/repository/postgres"
	"github.com/kloda-app/kloda/backend/internal/service/session"
	"github.com/kloda-app/kloda/backend/pkg/auth"
)

func main() {
	username := flag.String("username", "", "username of the new account")
	email := flag.String("email", "", "email of the new account")
	password := flag.String("password", "", "password; prompted for when empty")
	flag.Parse()

	if err := run(*username, *email, *password); err != nil {
		fmt.Fprintln(os.Stderr, "createuser:", err)
		os.Exit(1)
	}
}

func run(username, email, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" {
		flag.Usage()
		return errors.New("username and email are required")
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: "warn", Format: "console"})

	if password == "" {
		if password, err = readPassword(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxLifetime: time.Minute})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.RunMigrations(ctx, db); err != nil {
		return err
	}

	signer := auth.NewSigner(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	svc := session.NewAuthService(postgres.NewStore(db), signer)

	res, err := svc.Register(ctx, session.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	}, domain.ClientInfo{IP: "127.0.0.1", UserAgent: "createuser"})
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) && derr.Kind != domain.KindInternal {
			return errors.New(derr.Message)
		}
		return err
	}

	fmt.Printf("created user %d\n", res.UserID)
	return nil
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(first), nil
}
