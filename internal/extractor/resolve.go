package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/alvarorichard/goanitube/internal/models"
	"github.com/alvarorichard/goanitube/internal/util"
)

// minEmbedBodySize rejects empty or truncated embed pages before the chain
// wastes regex passes on them.
const minEmbedBodySize = 100

// maxResolveWorkers bounds concurrent embed-page fetches. Extractions are
// independent per episode and share no mutable state.
const maxResolveWorkers = 4

// Resolver fetches player embed pages and runs the extractor chain over
// them, filling Episode.StreamURL.
type Resolver struct {
	client  *http.Client
	chain   *Chain
	referer string
}

// NewResolver creates a resolver using the shared pooled HTTP client.
// The referer is sent with every embed fetch so the player origin serves
// the real config.
func NewResolver(referer string) *Resolver {
	return &Resolver{
		client:  util.GetSharedClient(),
		chain:   NewChain(),
		referer: referer,
	}
}

// Resolve fetches one episode's embed page and extracts its stream URL.
// Every failure mode (transport, short body, unrecognized player, bad
// payload) yields "", never an error: a missing URL is recorded per
// episode and must not abort the batch.
func (r *Resolver) Resolve(ctx context.Context, episode *models.Episode) string {
	if episode.SourceURL == "" {
		util.Warnf("episode %d has no source page URL", episode.Number)
		return ""
	}

	html, err := r.fetchEmbed(ctx, episode.SourceURL)
	if err != nil {
		util.Warnf("episode %d: %v", episode.Number, err)
		return ""
	}

	url := r.chain.Extract(html)
	if url == "" {
		util.Warnf("episode %d: no stream URL extracted", episode.Number)
		return ""
	}

	return BestQuality(url)
}

// ResolveAll fills StreamURL for every episode with a bounded worker pool,
// preserving each episode's position, and returns the success count.
func (r *Resolver) ResolveAll(ctx context.Context, episodes []models.Episode) int {
	pool := util.NewWorkerPool(maxResolveWorkers)
	for i := range episodes {
		ep := &episodes[i]
		pool.Submit(func() {
			ep.StreamURL = r.Resolve(ctx, ep)
		})
	}
	pool.Wait()

	resolved := 0
	for i := range episodes {
		if episodes[i].StreamURL != "" {
			resolved++
		}
	}
	util.Infof("extracted %d/%d stream URLs", resolved, len(episodes))
	return resolved
}

func (r *Resolver) fetchEmbed(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", util.UserAgent)
	req.Header.Set("Referer", r.referer)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch embed page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("embed page returned: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read embed page: %w", err)
	}
	if len(body) < minEmbedBodySize {
		return "", fmt.Errorf("embed page too short (%d bytes)", len(body))
	}
	return string(body), nil
}
