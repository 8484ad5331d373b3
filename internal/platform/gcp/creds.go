package gcp

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
)

// CredentialSources are the three places a service account can come from,
// tried in order: base64 blob, raw JSON, file path.
type CredentialSources struct {
	Base64   string
	JSON     string
	FilePath string
	// ProjectID overrides the project_id found in the credential.
	ProjectID string
}

type CredentialSource string

const (
	CredentialSourceBase64 CredentialSource = "base64"
	CredentialSourceJSON   CredentialSource = "json"
	CredentialSourceFile   CredentialSource = "file"
	CredentialSourceNone   CredentialSource = "none"
)

// Credentials is the parsed result. JSON is nil when Source is none; the
// holder can still verify identity tokens if ProjectID is known.
type Credentials struct {
	ProjectID   string
	ClientEmail string
	JSON        []byte
	Source      CredentialSource
}

var ErrNoCredentials = errors.New("no service account credentials configured")

type serviceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// LoadCredentials walks the sources in order and returns the first one that
// parses. A source that is set but malformed is skipped, not fatal; the
// joined parse errors are returned only if nothing usable was found.
func LoadCredentials(src CredentialSources) (Credentials, error) {
	var errs []error

	if b := strings.TrimSpace(src.Base64); b != "" {
		raw, err := base64.StdEncoding.DecodeString(b)
		if err != nil {
			errs = append(errs, fmt.Errorf("decode base64 credentials: %w", err))
		} else if c, err := parseCredentials(raw, CredentialSourceBase64, src.ProjectID); err != nil {
			errs = append(errs, err)
		} else {
			return c, nil
		}
	}

	if j := strings.TrimSpace(src.JSON); j != "" {
		if c, err := parseCredentials([]byte(j), CredentialSourceJSON, src.ProjectID); err != nil {
			errs = append(errs, err)
		} else {
			return c, nil
		}
	}

	if p := strings.TrimSpace(src.FilePath); p != "" {
		raw, err := os.ReadFile(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("read credentials file: %w", err))
		} else if c, err := parseCredentials(raw, CredentialSourceFile, src.ProjectID); err != nil {
			errs = append(errs, err)
		} else {
			return c, nil
		}
	}

	none := Credentials{ProjectID: strings.TrimSpace(src.ProjectID), Source: CredentialSourceNone}
	if len(errs) > 0 {
		return none, errors.Join(append([]error{ErrNoCredentials}, errs...)...)
	}
	return none, ErrNoCredentials
}

func parseCredentials(raw []byte, source CredentialSource, projectOverride string) (Credentials, error) {
	var sa serviceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return Credentials{}, fmt.Errorf("parse %s credentials: %w", source, err)
	}
	if sa.Type == "" {
		return Credentials{}, fmt.Errorf("parse %s credentials: missing type", source)
	}
	project := strings.TrimSpace(projectOverride)
	if project == "" {
		project = sa.ProjectID
	}
	return Credentials{
		ProjectID:   project,
		ClientEmail: sa.ClientEmail,
		JSON:        raw,
		Source:      source,
	}, nil
}

// HasServiceAccount reports whether the credential can authorize API calls.
func (c Credentials) HasServiceAccount() bool {
	return len(c.JSON) > 0
}

// ClientOptions turns the credential into Google API client options. Without
// a service account the client falls back to application default credentials.
func (c Credentials) ClientOptions() []option.ClientOption {
	if !c.HasServiceAccount() {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsJSON(c.JSON)}
}
