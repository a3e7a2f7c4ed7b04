package uniprot

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gapdh = ">sp|P04406|G3P_HUMAN Glyceraldehyde-3-phosphate dehydrogenase\nMGKVKVGVNGFGRIGRLVTRAAFNSGKVDIVAINDPFIDLNYMVYMFQYDSTHGKFHGTVKAENGKLVINGNPITIFQERDPSKIKWGDAGAEYVVESTGVFTTMEKAGAHLQGGAKRVIISAPSADAPMFVMGVNHEKYDNSLKIISNASCTTNCLAPLAKVIHDNFGIVEGLMTTVHAITATQKTVDGPSGKLWRDGRGALQNIIPASTGAAKAVGKVIPELNGKLTGMAFRVPTANVSVVDLTCRLEKPAKYDDIKKVVKQASEGPLKGILGYTEHQVVSSDFNSDTHSSTFDAGAGIALNDHFVKLISWYDNEFGYSNRVVDLMAHMASKE\n"

func newServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.URL.Path != "/P04406.fasta" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(gapdh))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)

	c := NewClient("")
	c.BaseURL = srv.URL

	rec, err := c.Fetch(context.Background(), "P04406")
	require.NoError(t, err)
	assert.Equal(t, "P04406", rec.Accession)

	s := rec.Summary()
	assert.Equal(t, 335, s.Length)
	assert.Equal(t, 3, s.Cysteines)
	assert.InDelta(t, 36.85, s.MassKDa, 1e-9)
}

func TestFetchNotFound(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)

	c := NewClient("")
	c.BaseURL = srv.URL

	_, err := c.Fetch(context.Background(), "Q99999")
	assert.ErrorContains(t, err, "404")

	_, err = c.Fetch(context.Background(), " ")
	assert.Error(t, err)
}

func TestFetchUsesCache(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)

	dir := t.TempDir()
	c := NewClient(dir)
	c.BaseURL = srv.URL

	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background(), "P04406")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	_, err := os.Stat(filepath.Join(dir, "uniprot", "p04406.fasta"))
	assert.NoError(t, err)
}

func TestFetchCancelled(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)

	c := NewClient("")
	c.BaseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Fetch(ctx, "P04406")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchReportsCacheFailure(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)

	// A regular file where the cache directory should be
	blocker := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	var logs bytes.Buffer
	c := NewClient(blocker)
	c.BaseURL = srv.URL
	c.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	rec, err := c.Fetch(context.Background(), "P04406")
	require.NoError(t, err)
	assert.Equal(t, "P04406", rec.Accession)
	assert.Contains(t, logs.String(), "failed to cache UniProt entry")
	assert.Contains(t, logs.String(), "accession=P04406")
}
