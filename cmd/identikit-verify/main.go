// Command identikit-verify verifies an ID token or session cookie against a
// configured project and prints the decoded claim set as JSON.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ayanel/identikit"
	"github.com/ayanel/identikit/auth"
	"github.com/ayanel/identikit/config"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (defaults to environment variables)")
	token := flag.String("token", "", "Token to verify (defaults to reading one line from stdin)")
	sessionCookie := flag.Bool("session-cookie", false, "Verify as a session cookie instead of an ID token")
	checkRevoked := flag.Bool("check-revoked", false, "Also check the token against the account's revocation state")
	tenant := flag.String("tenant", "", "Require the token to belong to this tenant (overrides config)")
	flag.Parse()

	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	raw := *token
	if raw == "" {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		if scanner.Scan() {
			raw = strings.TrimSpace(scanner.Text())
		}
	}
	if raw == "" {
		log.Fatal("No token provided: pass -token or pipe one on stdin")
	}

	ctx := context.Background()

	app, err := identikit.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize auth client: %v", err)
	}
	defer client.Close()

	tenantID := *tenant
	if tenantID == "" && cfg.Auth != nil {
		tenantID = cfg.Auth.TenantID
	}

	decoded, err := verify(ctx, client, raw, tenantID, *sessionCookie, *checkRevoked)
	if err != nil {
		log.Fatalf("Verification failed: %v", err)
	}

	out, err := json.MarshalIndent(claimsView(decoded), "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode claims: %v", err)
	}
	fmt.Println(string(out))
}

func verify(ctx context.Context, client *auth.Client, raw, tenantID string, sessionCookie, checkRevoked bool) (*auth.Token, error) {
	if tenantID != "" {
		tc, err := client.AuthForTenant(tenantID)
		if err != nil {
			return nil, err
		}
		switch {
		case sessionCookie && checkRevoked:
			return tc.VerifySessionCookieAndCheckRevoked(ctx, raw)
		case sessionCookie:
			return tc.VerifySessionCookie(ctx, raw)
		case checkRevoked:
			return tc.VerifyIDTokenAndCheckRevoked(ctx, raw)
		default:
			return tc.VerifyIDToken(ctx, raw)
		}
	}

	switch {
	case sessionCookie && checkRevoked:
		return client.VerifySessionCookieAndCheckRevoked(ctx, raw)
	case sessionCookie:
		return client.VerifySessionCookie(ctx, raw)
	case checkRevoked:
		return client.VerifyIDTokenAndCheckRevoked(ctx, raw)
	default:
		return client.VerifyIDToken(ctx, raw)
	}
}

// claimsView flattens a token for display.
func claimsView(t *auth.Token) map[string]any {
	view := map[string]any{
		"subject":          t.Subject,
		"issuer":           t.Issuer,
		"audience":         t.Audience,
		"issued_at":        t.IssuedAt,
		"expires_at":       t.ExpiresAt,
		"auth_time":        t.AuthTime,
		"sign_in_provider": t.Firebase.SignInProvider,
	}
	if t.Firebase.Tenant != "" {
		view["tenant"] = t.Firebase.Tenant
	}
	if len(t.Claims) > 0 {
		view["claims"] = t.Claims
	}
	return view
}
