// Package gcloud holds the Google Cloud clients GesturePad depends on:
// Speech-to-Text for dictation and the trained AutoML Vision model for
// gesture classification. Both services stay external collaborators; only
// their public APIs are called here.
package gcloud

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// ValidateCredentials checks that the configured service account file parses
// as Google Cloud credentials before it is written into the application
// config.
func ValidateCredentials(ctx context.Context, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read credentials file '%s': %w", path, err)
	}
	if _, err = google.CredentialsFromJSON(ctx, b, cloudPlatformScope); err != nil {
		return fmt.Errorf("credentials file '%s' is not valid: %w", path, err)
	}
	return nil
}
