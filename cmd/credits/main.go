package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"poster-server/internal/credits"
	"poster-server/internal/infra"
	"poster-server/internal/middleware"
)

func main() {
	var (
		userFlag   string
		grantFlag  int
		tokenFlag  bool
		localeFlag string
		ttlFlag    time.Duration
	)

	flag.StringVar(&userFlag, "user", "", "user ID (JWT subject)")
	flag.IntVar(&grantFlag, "grant", 0, "credits to add to the user's balance")
	flag.BoolVar(&tokenFlag, "token", false, "print a signed API token for the user")
	flag.StringVar(&localeFlag, "locale", "", "locale claim of the printed token (en, ar, he)")
	flag.DurationVar(&ttlFlag, "ttl", 24*time.Hour, "lifetime of the printed token")
	flag.Parse()

	userID := strings.TrimSpace(userFlag)
	if userID == "" {
		exitWithError(errors.New("-user is required"))
	}
	if grantFlag < 0 {
		exitWithError(errors.New("-grant must not be negative"))
	}

	if tokenFlag {
		secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
		if secret == "" {
			exitWithError(errors.New("JWT_SECRET is required"))
		}
		token, err := middleware.SignJWT(secret, userID, middleware.TokenClaims{Locale: localeFlag}, ttlFlag)
		if err != nil {
			exitWithError(fmt.Errorf("failed to sign token: %w", err))
		}
		fmt.Println(token)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		if tokenFlag && grantFlag == 0 {
			return
		}
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "credits").Logger()
	gate := credits.NewSQLGate(infra.NewSQLRunner(pool, logger))

	var balance int
	if grantFlag > 0 {
		balance, err = gate.Grant(ctx, userID, grantFlag)
		if err != nil {
			exitWithError(err)
		}
		fmt.Printf("granted %d credits to %s\n", grantFlag, userID)
	} else {
		balance, err = gate.Balance(ctx, userID)
		if err != nil {
			exitWithError(err)
		}
	}
	fmt.Fprintf(os.Stderr, "balance=%d\n", balance)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
