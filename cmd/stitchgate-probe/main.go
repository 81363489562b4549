// Command stitchgate-probe exercises a tailoring backend from the terminal:
// it logs in (or reuses persisted state from a previous run), bootstraps the
// session, and prints the identity plus the gate decision for a requested
// path and role set.
//
// Configuration comes from flags, with STITCHGATE_* environment variables
// (or a .env file) as the fallback for the base URL.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	stitchgate "github.com/MrEthical07/stitchgate"
	"github.com/MrEthical07/stitchgate/gate"
	"github.com/MrEthical07/stitchgate/storage"
)

func main() {
	var (
		baseURL   = flag.String("base-url", "", "backend base URL; defaults to STITCHGATE_API_BASE_URL")
		email     = flag.String("email", "", "login email; empty reuses persisted state")
		password  = flag.String("password", "", "login password")
		stateFile = flag.String("state-file", ".stitchgate-state.json", "persisted client state file")
		path      = flag.String("path", "/account", "route to evaluate")
		roles     = flag.String("roles", "", "comma-separated allowed roles for the route")
		logout    = flag.Bool("logout", false, "clear the persisted session and exit")
		verbose   = flag.Bool("v", false, "log requests")
	)
	flag.Parse()

	cfg, err := stitchgate.LoadEnv()
	if err != nil {
		fatal(err)
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	if cfg.API.BaseURL == "" {
		fatal(fmt.Errorf("base URL required (flag -base-url or STITCHGATE_API_BASE_URL)"))
	}

	store, err := storage.NewFile(*stateFile)
	if err != nil {
		fatal(err)
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(os.Stderr).Level(zerolog.DebugLevel)
	}

	manager, err := stitchgate.New().
		WithConfig(cfg).
		WithStorage(store).
		WithLogger(logger).
		Build()
	if err != nil {
		fatal(err)
	}
	defer manager.Dispose()

	ctx := context.Background()

	if *logout {
		if err := manager.Logout(ctx); err != nil {
			fatal(err)
		}
		fmt.Println("logged out")
		return
	}

	if err := manager.Bootstrap(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap degraded: %v\n", err)
	}

	if *email != "" {
		if _, err := manager.LoginWithCredentials(ctx, *email, *password); err != nil {
			fatal(fmt.Errorf("login: %w", err))
		}
		manager.Flush()
	}

	snap := manager.Snapshot()
	fmt.Printf("status: %s\n", snap.Status)
	if snap.Identity != nil {
		encoded, _ := json.MarshalIndent(snap.Identity, "", "  ")
		fmt.Printf("identity: %s\n", encoded)
	} else {
		fmt.Println("identity: none")
	}
	if snap.LastError != nil {
		fmt.Printf("last error: %v\n", snap.LastError)
	}

	var allowed []string
	if *roles != "" {
		allowed = strings.Split(*roles, ",")
	}
	decision := gate.Decide(snap.Status, snap.Identity, allowed, *path, gate.DefaultConfig())
	switch decision.Action {
	case gate.ActionAllow:
		fmt.Printf("gate: allow %s\n", *path)
	case gate.ActionPending:
		fmt.Println("gate: pending")
	case gate.ActionRedirectLogin:
		fmt.Printf("gate: redirect to login (%s)\n", decision.Location)
	case gate.ActionRedirectDefault:
		fmt.Printf("gate: redirect to role default (%s)\n", decision.Location)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "stitchgate-probe:", err)
	os.Exit(1)
}
