// Package identikit is a server-side admin client for a cloud identity
// platform. The App type is the entry point: it resolves the project and
// credential configuration once and hands out service clients.
package identikit

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/ayanel/identikit/auth"
	"github.com/ayanel/identikit/config"
)

// App holds project-level configuration shared by all service clients.
type App struct {
	projectID    string
	emulatorHost string
	keyRefresh   time.Duration
	opts         []option.ClientOption
}

// NewApp creates an App from cfg and extra client options.
//
// The project ID is taken from cfg, then from the GOOGLE_CLOUD_PROJECT
// environment variable. A nil cfg is allowed when the environment carries
// everything.
func NewApp(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*App, error) {
	if cfg == nil {
		loaded, err := config.LoadFromEnv()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
	}
	if projectID == "" {
		return nil, fmt.Errorf("project ID is required: set project_id or GOOGLE_CLOUD_PROJECT")
	}

	app := &App{projectID: projectID}
	if cfg.CredentialsFile != "" {
		app.opts = append(app.opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app.opts = append(app.opts, opts...)
	if cfg.Auth != nil {
		app.emulatorHost = cfg.Auth.EmulatorHost
	}
	app.keyRefresh = cfg.KeyRefreshInterval()

	return app, nil
}

// ProjectID returns the configured project.
func (a *App) ProjectID() string {
	return a.projectID
}

// Auth returns a token-verification client for this app's project.
func (a *App) Auth(ctx context.Context) (*auth.Client, error) {
	client, err := auth.NewClient(ctx, &auth.Config{
		ProjectID:          a.projectID,
		EmulatorHost:       a.emulatorHost,
		KeyRefreshInterval: a.keyRefresh,
		ClientOptions:      a.opts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}
	return client, nil
}

// Firestore returns a Firestore client for this app's project.
func (a *App) Firestore(ctx context.Context) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, a.projectID, a.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}
