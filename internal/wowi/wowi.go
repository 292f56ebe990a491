// Package wowi fetches file details from the WoWInterface API and turns them
// into addon details patches.
package wowi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bnema/addonctl/internal/addons"
	"github.com/bnema/addonctl/internal/network"
)

// DefaultBaseURL is the WoWInterface v3 API root
const DefaultBaseURL = "https://api.mmoui.com/v3/game/WOW"

// FileDetails is one entry of a filedetails response
type FileDetails struct {
	UID      string `json:"UID"`
	Version  string `json:"UIVersion"`
	FileName string `json:"UIFileName"`
	Download string `json:"UIDownload"`
}

// Requester is the part of network.Client the catalog needs
type Requester interface {
	Request(ctx context.Context, rawURL string, headers []network.Header) (*http.Response, error)
}

// Client queries the WoWInterface API
type Client struct {
	requester Requester
	baseURL   string
	token     string
	log       *log.Logger
}

// NewClient creates a catalog client. token may be empty.
func NewClient(requester Requester, baseURL, token string, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		requester: requester,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		token:     token,
		log:       logger,
	}
}

// FileDetails fetches the details of the given WoWInterface ids in one request
func (c *Client) FileDetails(ctx context.Context, ids []string) ([]FileDetails, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	url := fmt.Sprintf("%s/filedetails/%s.json", c.baseURL, strings.Join(ids, ","))
	headers := []network.Header{{Name: "Accept", Value: "application/json"}}
	if c.token != "" {
		headers = append(headers, network.Header{Name: "x-api-token", Value: c.token})
	}

	c.log.Debug("Fetching file details", "ids", len(ids))

	resp, err := c.requester.Request(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var files []FileDetails
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("failed to parse file details: %w", err)
	}

	c.log.Debug("File details fetched", "requested", len(ids), "received", len(files))
	return files, nil
}

// IDs returns the distinct WoWInterface ids carried by the collection
func IDs(collection addons.Collection) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range collection {
		if a.WowiID == "" || seen[a.WowiID] {
			continue
		}
		seen[a.WowiID] = true
		ids = append(ids, a.WowiID)
	}
	return ids
}

// Patches builds one details patch per addon whose WowiID matches a file.
// A single file often ships several folders, so one file can patch many addons.
func Patches(collection addons.Collection, files []FileDetails) []addons.AddonDetails {
	byUID := make(map[string]FileDetails, len(files))
	for _, f := range files {
		byUID[f.UID] = f
	}

	var patches []addons.AddonDetails
	for _, a := range collection {
		f, ok := byUID[a.WowiID]
		if a.WowiID == "" || !ok {
			continue
		}
		patches = append(patches, addons.AddonDetails{
			ID:       a.ID,
			Version:  f.Version,
			Filename: f.FileName,
			URL:      f.Download,
		})
	}
	return patches
}
