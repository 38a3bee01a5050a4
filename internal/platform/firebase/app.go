// Package firebase boots the Firebase Admin SDK for the profile service.
package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Config selects the Firebase project. CredentialsFile is a service account
// JSON path; when empty, Application Default Credentials are used. The
// emulators are picked up from FIRESTORE_EMULATOR_HOST and
// FIREBASE_AUTH_EMULATOR_HOST by the SDK itself.
type Config struct {
	ProjectID       string
	CredentialsFile string
}

// Clients holds the SDK clients the service needs.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// InitializeClients creates the auth client and, when withFirestore is set,
// the Firestore client.
func InitializeClients(ctx context.Context, cfg Config, withFirestore bool) (*Clients, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firebase: project id is required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		creds, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("firebase: read credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: new app: %w", err)
	}

	clients := &Clients{}
	if clients.Auth, err = app.Auth(ctx); err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}
	if withFirestore {
		if clients.Firestore, err = app.Firestore(ctx); err != nil {
			return nil, fmt.Errorf("firebase: firestore client: %w", err)
		}
	}
	return clients, nil
}

// Close releases the Firestore client, if any.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
