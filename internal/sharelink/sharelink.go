/*

Share links carry a whole snapshot in the importData query parameter: the snapshot is
encoded as JSON and then base64.

*/

package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/terra-money/alliance-estimator/internal/types"
)

// QueryParam is the URL query parameter holding the encoded snapshot.
const QueryParam = "importData"

var ErrInvalidShareLink = errors.New("invalid share link")

// Encode serializes a snapshot into the importData value.
func Encode(snap types.Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode parses an importData value. Standard and URL-safe base64 are both accepted,
// with or without padding, since links are often mangled by chat clients and browsers.
func Decode(encoded string) (types.Snapshot, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return types.Snapshot{}, fmt.Errorf("%w: empty payload", ErrInvalidShareLink)
	}

	raw, err := decodeBase64(encoded)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidShareLink, err)
	}

	var snap types.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidShareLink, err)
	}
	return snap, nil
}

func decodeBase64(s string) ([]byte, error) {
	// A '+' that went through a query string unescaped arrives as a space.
	s = strings.ReplaceAll(s, " ", "+")
	trimmed := strings.TrimRight(s, "=")

	if strings.ContainsAny(trimmed, "-_") {
		return base64.RawURLEncoding.DecodeString(trimmed)
	}
	return base64.RawStdEncoding.DecodeString(trimmed)
}

// BuildLink returns baseURL with the snapshot attached as the importData query parameter.
// Existing query parameters on baseURL are kept.
func BuildLink(baseURL string, snap types.Snapshot) (string, error) {
	encoded, err := Encode(snap)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base url %q: %w", baseURL, err)
	}
	query := u.Query()
	query.Set(QueryParam, encoded)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// FromURL extracts and decodes the snapshot carried by a share link. The boolean is false
// when the link carries no importData parameter.
func FromURL(rawURL string) (types.Snapshot, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return types.Snapshot{}, false, fmt.Errorf("%w: %w", ErrInvalidShareLink, err)
	}
	encoded := u.Query().Get(QueryParam)
	if encoded == "" {
		return types.Snapshot{}, false, nil
	}
	snap, err := Decode(encoded)
	if err != nil {
		return types.Snapshot{}, true, err
	}
	return snap, true, nil
}
