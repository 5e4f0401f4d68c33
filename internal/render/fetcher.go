package render

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"activities-be/internal/domain"
	apperrors "activities-be/pkg/errors"
)

// HTTPFetcher resolves activity definitions over the embed JSON endpoint. It
// distinguishes an absent or non-public activity from any other failure so
// the adapter can pick the right terminal message. No retries; the caller's
// context carries whatever deadline applies.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher against an API base URL such as
// "https://activities.example.com".
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// FetchActivity implements Fetcher.
func (f *HTTPFetcher) FetchActivity(ctx context.Context, slug string) (*domain.Activity, error) {
	url := fmt.Sprintf("%s/api/embed/%s", f.baseURL, slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewResolutionFailedError("failed to build embed request", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.NewResolutionFailedError("embed request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf("activity %q not found or not public", slug),
			map[string]interface{}{"slug": slug},
		)
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.NewResolutionFailedError(
			fmt.Sprintf("embed endpoint returned status %d", resp.StatusCode), nil)
	}

	var act domain.Activity
	if err := json.NewDecoder(resp.Body).Decode(&act); err != nil {
		return nil, apperrors.NewResolutionFailedError("failed to decode activity", err)
	}
	act.ContentType = domain.ParseContentType(string(act.ContentType))

	return &act, nil
}
