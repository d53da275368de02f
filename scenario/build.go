package scenario

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/erraggy/httpchain/httperrors"
)

// Build decodes a resolved scenario document (the output of resolver.Load)
// into a typed, validated Scenario, assigning stable ID slugs derived from
// sourcePath.
func Build(sourcePath string, resolved map[string]any) (*Scenario, error) {
	raw, err := json.Marshal(resolved)
	if err != nil {
		return nil, &httperrors.ScenarioError{File: sourcePath, Message: "re-encoding resolved document", Cause: err}
	}

	var scn Scenario
	if err := json.Unmarshal(raw, &scn); err != nil {
		return nil, &httperrors.ScenarioError{File: sourcePath, Message: "decoding scenario", Cause: err}
	}

	scn.ID = slug(sourcePath)
	for i := range scn.Stages {
		scn.Stages[i].ID = scn.ID + "::" + slug(scn.Stages[i].Name)
	}

	if errs := Validate(&scn); len(errs) > 0 {
		return nil, &httperrors.ScenarioError{
			File:    sourcePath,
			Message: fmt.Sprintf("%d validation error(s): %s", len(errs), joinErrors(errs)),
		}
	}

	return &scn, nil
}

// slug derives a short, stable, filesystem- and log-safe identifier from an
// arbitrary string: lowercase, non-alphanumerics collapsed to '-', suffixed
// with an 8-character content hash to keep distinct inputs distinct.
func slug(s string) string {
	base := filepath.Base(s)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	cleaned := strings.Trim(b.String(), "-")

	sum := sha1.Sum([]byte(s))
	hash := hex.EncodeToString(sum[:])[:8]
	if cleaned == "" {
		return hash
	}
	return cleaned + "-" + hash
}

func joinErrors(errs []error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
