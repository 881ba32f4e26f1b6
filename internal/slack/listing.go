package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/klauern/slackmoji/internal/logging"
	"github.com/klauern/slackmoji/internal/model"
)

// DefaultPageSize is the number of emoji requested per listing page. It
// balances request count against response size; any positive value works.
const DefaultPageSize = 100

// listEndpoint is the paged admin listing for custom emoji.
const listEndpoint = "emoji.adminList"

// Paginator drives the emoji listing endpoint page by page, presenting the
// result as a single ordered sequence of emoji records.
type Paginator struct {
	client   *Client
	pageSize int
}

// NewPaginator creates a Paginator over client's workspace. A pageSize of
// zero or less selects DefaultPageSize.
func NewPaginator(client *Client, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{client: client, pageSize: pageSize}
}

// Emoji returns a lazy, finite, single-pass sequence over every custom
// emoji in the workspace, in the order the listing yields them. Each page
// is fetched only once the previous page's records have been consumed.
//
// If a page fetch fails, the sequence yields one ListError and ends: the
// next cursor was never obtained, so the remaining pages are unreachable.
// The sequence is not restartable mid-stream; rerunning the listing from
// scratch is cheap and idempotent.
func (p *Paginator) Emoji(ctx context.Context) iter.Seq2[model.Emoji, error] {
	return func(yield func(model.Emoji, error) bool) {
		cursor := ""
		for {
			page, err := p.client.listPage(ctx, cursor, p.pageSize)
			if err != nil {
				yield(model.Emoji{}, &ListError{Cursor: cursor, Err: err})
				return
			}
			logging.Debug("fetched emoji listing page",
				logging.Endpoint(listEndpoint),
				logging.Count(len(page.Emoji)))
			for _, entry := range page.Emoji {
				if !yield(entry.toModel(), nil) {
					return
				}
			}
			if len(page.Emoji) == 0 || page.ResponseMetadata.NextCursor == "" {
				return
			}
			cursor = page.ResponseMetadata.NextCursor
		}
	}
}

// listResponse is the wire shape of one emoji.adminList page.
type listResponse struct {
	OK               bool        `json:"ok"`
	Error            string      `json:"error,omitempty"`
	Emoji            []wireEmoji `json:"emoji"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

// wireEmoji is one listing entry as returned by the API.
type wireEmoji struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	IsAlias  int    `json:"is_alias"`
	AliasFor string `json:"alias_for"`
}

// toModel converts a wire entry into the domain record. Alias entries
// sometimes carry a synthetic "alias:<target>" URL; the alias target wins.
func (w wireEmoji) toModel() model.Emoji {
	if w.IsAlias != 0 || w.AliasFor != "" {
		return model.Emoji{Name: w.Name, AliasFor: w.AliasFor}
	}
	if target, ok := strings.CutPrefix(w.URL, "alias:"); ok {
		return model.Emoji{Name: w.Name, AliasFor: target}
	}
	return model.Emoji{Name: w.Name, ImageURL: w.URL}
}

// listPage fetches a single page of the emoji listing.
func (c *Client) listPage(ctx context.Context, cursor string, pageSize int) (*listResponse, error) {
	form := url.Values{}
	form.Set("token", c.token)
	form.Set("count", strconv.Itoa(pageSize))
	if cursor != "" {
		form.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL(listEndpoint), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing page: unexpected status %s", resp.Status)
	}

	var page listResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("parse listing response: %w", err)
	}
	if !page.OK {
		return nil, fmt.Errorf("listing rejected by server: %s", page.Error)
	}
	return &page, nil
}
