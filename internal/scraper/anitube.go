// Package scraper fetches and parses pages from anitube.in.ua
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/alvarorichard/goanitube/internal/models"
	"github.com/alvarorichard/goanitube/internal/util"
	"github.com/pkg/errors"
)

const (
	// BaseURL is the site origin.
	BaseURL = "https://anitube.in.ua"
	// ajaxPlaylistURL serves the playlist HTML fragment.
	ajaxPlaylistURL = BaseURL + "/engine/ajax/playlists.php"
)

// Client scrapes anime metadata and playlists. It keeps the page URL and
// login hash of the current run so the AJAX playlist request can present
// itself as same-origin navigation.
type Client struct {
	client    *http.Client
	animeURL  string
	loginHash string
}

// NewClient creates a scraper client over the shared pooled HTTP client.
func NewClient() *Client {
	return &Client{client: util.GetSharedClient()}
}

// get performs a browser-shaped GET and returns the body text.
func (c *Client) get(ctx context.Context, pageURL string, ajax bool) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", util.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("sec-ch-ua", `"Chromium";v="142", "Not_A Brand";v="99"`)
	req.Header.Set("sec-ch-ua-mobile", "?0")
	req.Header.Set("sec-ch-ua-platform", `"macOS"`)
	if ajax {
		req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.Header.Set("Referer", c.animeURL)
		req.Header.Set("sec-fetch-dest", "empty")
		req.Header.Set("sec-fetch-mode", "cors")
		req.Header.Set("sec-fetch-site", "same-origin")
	} else {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("sec-fetch-dest", "document")
		req.Header.Set("sec-fetch-mode", "navigate")
		req.Header.Set("sec-fetch-site", "none")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusForbidden {
			return "", fmt.Errorf("access restricted: VPN may be required")
		}
		return "", fmt.Errorf("server returned: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

// FetchMetadata fetches the anime page and extracts its identity: news id,
// English title with the season suffix stripped, season number and year.
func (c *Client) FetchMetadata(ctx context.Context, pageURL string) (*models.Anime, error) {
	c.animeURL = pageURL

	newsID, err := ExtractNewsID(pageURL)
	if err != nil {
		return nil, err
	}

	html, err := c.get(ctx, pageURL, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch anime page")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse anime page")
	}

	c.loginHash = extractLoginHash(html)

	title := extractTitle(doc)
	season := extractSeason(title)
	anime := &models.Anime{
		NewsID: newsID,
		Title:  baseTitle(title),
		Season: season,
		Year:   extractYear(doc),
	}

	util.Debugf("metadata: %q season=%d year=%d news_id=%s",
		anime.Title, anime.Season, anime.Year, anime.NewsID)
	return anime, nil
}

// fetchPlaylistFragment requests the AJAX playlist endpoint and returns the
// raw response body. The body may be a JSON envelope or plain HTML; the
// caller sorts that out.
func (c *Client) fetchPlaylistFragment(ctx context.Context, newsID string) (string, error) {
	params := url.Values{}
	params.Set("news_id", newsID)
	params.Set("xfield", "playlist")
	params.Set("user_hash", c.loginHash)

	body, err := c.get(ctx, ajaxPlaylistURL+"?"+params.Encode(), true)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch playlist fragment")
	}
	return body, nil
}
