package identikit

import (
	"context"
	"testing"

	"github.com/ayanel/identikit/config"
)

func TestNewApp_FromConfig(t *testing.T) {
	app, err := NewApp(context.Background(), &config.Config{ProjectID: "test-project"})
	if err != nil {
		t.Fatalf("NewApp() error = %v, want nil", err)
	}
	if app.ProjectID() != "test-project" {
		t.Errorf("ProjectID() = %q, want %q", app.ProjectID(), "test-project")
	}
}

func TestNewApp_ProjectFromEnv(t *testing.T) {
	t.Setenv("IDENTIKIT_PROJECT_ID", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "env-project")

	app, err := NewApp(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewApp() error = %v, want nil", err)
	}
	if app.ProjectID() != "env-project" {
		t.Errorf("ProjectID() = %q, want %q", app.ProjectID(), "env-project")
	}
}

func TestNewApp_MissingProject(t *testing.T) {
	t.Setenv("IDENTIKIT_PROJECT_ID", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")

	if _, err := NewApp(context.Background(), nil); err == nil {
		t.Error("NewApp() without a project ID should fail")
	}
}

func TestApp_AuthEmulator(t *testing.T) {
	// With an emulator host the auth client needs no key material and no
	// credentials, so construction works offline.
	cfg := &config.Config{
		ProjectID: "test-project",
		Auth:      &config.AuthConfig{EmulatorHost: "localhost:9099"},
	}

	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewApp() error = %v, want nil", err)
	}

	client, err := app.Auth(context.Background())
	if err != nil {
		t.Fatalf("Auth() error = %v, want nil", err)
	}
	defer client.Close()

	if client.ProjectID() != "test-project" {
		t.Errorf("client.ProjectID() = %q, want %q", client.ProjectID(), "test-project")
	}
}
