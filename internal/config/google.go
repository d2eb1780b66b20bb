package config

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// SheetsOptions returns the client options for the Google Sheets API. With a
// service account credentials file requests carry an OAuth2 token; otherwise
// the API key is sent, and without a key requests go out unauthenticated.
func (c *Config) SheetsOptions(ctx context.Context) ([]option.ClientOption, error) {
	if c.GoogleCredentialsFile == "" {
		if c.GoogleSheetsAPIKey == "" {
			return []option.ClientOption{option.WithoutAuthentication()}, nil
		}
		return []option.ClientOption{option.WithAPIKey(c.GoogleSheetsAPIKey)}, nil
	}

	data, err := os.ReadFile(c.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read google credentials: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, sheetsapi.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse google credentials: %w", err)
	}
	return []option.ClientOption{option.WithTokenSource(jwtConfig.TokenSource(ctx))}, nil
}
