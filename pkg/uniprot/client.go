// Package uniprot fetches protein sequences from the UniProt REST API.
package uniprot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/ChrisMcGann/RedoxBlot/pkg/reader/fasta"
)

const (
	// DefaultBaseURL is the UniProtKB REST endpoint.
	DefaultBaseURL = "https://rest.uniprot.org/uniprotkb"

	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 16 << 20
)

// Client fetches FASTA entries, optionally caching them on disk.
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	CacheDir string        // Empty disables caching
	CacheTTL time.Duration // Zero keeps cache entries forever
	Logger   *slog.Logger  // Receives non-fatal cache failures
}

// NewClient returns a client for the public UniProt API.
func NewClient(cacheDir string) *Client {
	return &Client{
		BaseURL:  DefaultBaseURL,
		HTTP:     &http.Client{Timeout: defaultTimeout},
		CacheDir: cacheDir,
		CacheTTL: 7 * 24 * time.Hour,
		Logger:   slog.Default(),
	}
}

// Fetch returns the FASTA record of an accession.
func (c *Client) Fetch(ctx context.Context, accession string) (*fasta.Record, error) {
	accession = strings.TrimSpace(accession)
	if accession == "" {
		return nil, fmt.Errorf("empty accession")
	}

	body, ok := c.readCache(accession)
	if !ok {
		var err error
		body, err = c.download(ctx, accession)
		if err != nil {
			return nil, err
		}
		if err := c.writeCache(accession, body); err != nil {
			c.logger().Warn("failed to cache UniProt entry", "accession", accession, "err", err)
		}
	}

	records, err := fasta.ReadAll(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse FASTA for %s: %w", accession, err)
	}
	if len(records) == 0 || records[0].Sequence == "" {
		return nil, fmt.Errorf("no sequence returned for %s", accession)
	}
	return records[0], nil
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Client) download(ctx context.Context, accession string) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/%s.fasta", strings.TrimRight(c.BaseURL, "/"), url.PathEscape(accession))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", accession, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: unexpected status %s: %s",
			accession, resp.Status, strings.TrimSpace(string(snippet)))
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: unsupported charset: %w", accession, err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: failed to read body: %w", accession, err)
	}
	return data, nil
}

func (c *Client) cachePath(accession string) string {
	key := strings.ToLower(accession)
	key = strings.ReplaceAll(key, "/", "_")
	key = strings.ReplaceAll(key, " ", "_")
	return filepath.Join(c.CacheDir, "uniprot", key+".fasta")
}

func (c *Client) readCache(accession string) ([]byte, bool) {
	if c.CacheDir == "" {
		return nil, false
	}
	path := c.cachePath(accession)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.CacheTTL > 0 && time.Since(info.ModTime()) > c.CacheTTL {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Client) writeCache(accession string, data []byte) error {
	if c.CacheDir == "" {
		return nil
	}
	path := c.cachePath(accession)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
