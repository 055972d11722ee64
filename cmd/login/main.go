package main

import (
	"context"    // Request deadline
	"crypto/tls" // For talking to a dev server with a self-signed certificate
	"errors"     // Error inspection
	"flag"       // Command line flags
	"fmt"        // Output
	"net/http"   // HTTP client
	"os"         // Exit codes and environment
	"sort"       // Stable field error output
	"time"       // Timeouts

	"github.com/sirupsen/logrus" // Logrus for structured logging

	"payment_portal/internal/config"     // Custom import path (Config)
	"payment_portal/internal/portal"     // Custom import path (Login form)
	"payment_portal/internal/validation" // Custom import path (Field errors)
)

// Main entry point for the login front end
func main() {
	cfg := config.LoadConfig() // Load configuration

	userType := flag.String("type", string(validation.UserTypeClient), "login role: Client or Staff")
	username := flag.String("username", "", "username")
	account := flag.String("account", "", "account number (Client only)")
	password := flag.String("password", os.Getenv("PORTAL_PASSWORD"), "password, defaults to $PORTAL_PASSWORD")
	apiURL := flag.String("api", cfg.PortalAPIURL, "API base URL")
	insecure := flag.Bool("insecure", false, "skip TLS certificate verification")
	logout := flag.Bool("logout", false, "forget the stored token and exit")
	listOnly := flag.Bool("list", false, "list payments with the stored token instead of logging in")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	session := portal.NewSession(portal.NewFileStore(cfg.SessionFile)) // Token survives between runs
	if *logout {
		if err := session.Clear(); err != nil {
			logrus.Fatalf("failed to clear session: %v", err)
		}
		fmt.Println("Logged out.")
		return
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}
	if *insecure {
		httpClient.Transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}} // #nosec G402 dev certificates only
	}

	client := portal.NewAuthClient(*apiURL, httpClient) // Login and listing calls
	form := portal.NewForm(client, session)
	if err := form.SetUserType(validation.UserType(*userType)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	form.SetUsername(*username)
	form.SetAccountNumber(*account)
	form.SetPassword(*password)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *listOnly {
		if !listPayments(ctx, client, session, form.UserType()) {
			os.Exit(1)
		}
		return
	}

	route, err := form.Submit(ctx)
	if fe, ok := validation.AsFieldErrors(err); ok {
		fields := make([]string, 0, len(fe))
		for f := range fe {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(os.Stderr, "%s: %s\n", f, fe[f])
		}
		os.Exit(1)
	}
	if err != nil {
		var se *portal.ServerError
		if !errors.As(err, &se) {
			logrus.WithError(err).Debug("Login request failed")
		}
		fmt.Fprintln(os.Stderr, form.ServerError())
		os.Exit(1)
	}

	fmt.Printf("Logged in as %s. Continue at %s\n", form.UserType(), route)
	listPayments(ctx, client, session, form.UserType()) // First authenticated call with the new token
}

// listPayments prints the first page of payments visible to userType
func listPayments(ctx context.Context, client *portal.AuthClient, session *portal.Session, userType validation.UserType) bool {
	page, err := client.Payments(ctx, session, userType)
	if err != nil {
		if errors.Is(err, portal.ErrNotLoggedIn) {
			fmt.Fprintln(os.Stderr, "Not logged in.")
			return false
		}
		logrus.WithError(err).Debug("Payment listing failed")
		fmt.Fprintln(os.Stderr, portal.FailureMessage(err))
		return false
	}
	fmt.Printf("%d payments on record\n", page.Total)
	for _, tx := range page.Transactions {
		fmt.Printf("  %s  %12s %s  %-9s  %s\n",
			tx.TransactionDate.Format("2006-01-02"), // Payment date
			tx.Amount.StringFixed(2),                // Amount with cents
			tx.Currency,                             // Currency code
			tx.Status,                               // Processing status
			tx.Reference,                            // Public reference
		)
	}
	return true
}
