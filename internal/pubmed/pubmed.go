// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed searches PubMed through the NCBI E-utilities and returns
// articles with their abstracts.
//
// See docs/ARCHITECTURE § PubMed.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/abstract-search/internal/httputil"
	"github.com/pdiddy/abstract-search/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	esearchURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchURL  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// NotAvailable fills article fields PubMed did not supply.
const NotAvailable = "N/A"

const (
	defaultMaxResults = 10
	// NCBI allows 3 requests/s without an API key and 10 with one.
	anonymousRate = 3
	keyedRate     = 10
)

// Client queries PubMed.
type Client struct {
	doer *httputil.Doer
	cfg  types.PubMedConfig
}

// New returns a client paced to the NCBI rate limit for cfg.
func New(cfg types.PubMedConfig) *Client {
	perSecond := cfg.RequestsPerSecond
	if perSecond <= 0 {
		perSecond = anonymousRate
		if cfg.APIKey != "" {
			perSecond = keyedRate
		}
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &Client{
		doer: httputil.NewDoer(httpClient, perSecond, cfg.MaxRetries),
		cfg:  cfg,
	}
}

// SearchArticles runs esearch for term and fetches the matching articles.
func (c *Client) SearchArticles(ctx context.Context, term string) ([]types.Article, error) {
	ids, err := c.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx, ids)
}

// Search returns up to MaxResults PubMed IDs matching term.
func (c *Client) Search(ctx context.Context, term string) ([]string, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("empty PubMed query")
	}

	params := c.params()
	params.Set("term", term)
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(c.cfg.MaxResults))

	resp, err := c.get(ctx, esearchURL, params)
	if err != nil {
		return nil, fmt.Errorf("esearch request: %w", err)
	}
	defer resp.Body.Close()

	var sr esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return sr.Result.IDList, nil
}

// Fetch returns the articles for ids in PubMed's order. An empty id list
// returns no articles without a request.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]types.Article, error) {
	if len(ids) == 0 {
		return []types.Article{}, nil
	}

	params := c.params()
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")
	params.Set("rettype", "abstract")

	resp, err := c.get(ctx, efetchURL, params)
	if err != nil {
		return nil, fmt.Errorf("efetch request: %w", err)
	}
	defer resp.Body.Close()

	var set articleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	articles := make([]types.Article, 0, len(set.Articles))
	for _, a := range set.Articles {
		articles = append(articles, a.toArticle())
	}
	return articles, nil
}

func (c *Client) params() url.Values {
	v := url.Values{"db": {"pubmed"}}
	if c.cfg.APIKey != "" {
		v.Set("api_key", c.cfg.APIKey)
	}
	if c.cfg.Tool != "" {
		v.Set("tool", c.cfg.Tool)
	}
	if c.cfg.Email != "" {
		v.Set("email", c.cfg.Email)
	}
	return v
}

func (c *Client) get(ctx context.Context, base string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("E-utilities returned HTTP %d", resp.StatusCode)
	}
	return resp, nil
}

// esearch JSON structures.
type esearchResponse struct {
	Result struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// efetch XML structures.
type articleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Title    *xmlText       `xml:"MedlineCitation>Article>ArticleTitle"`
	Year     *xmlText       `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>Year"`
	Authors  []pubmedAuthor `xml:"MedlineCitation>Article>AuthorList>Author"`
	Sections []xmlText      `xml:"MedlineCitation>Article>Abstract>AbstractText"`
}

type pubmedAuthor struct {
	LastName *xmlText `xml:"LastName"`
	ForeName *xmlText `xml:"ForeName"`
}

func (a pubmedArticle) toArticle() types.Article {
	out := types.Article{
		Title:    orNA(a.Title),
		Year:     types.Year(orNA(a.Year)),
		Authors:  NotAvailable,
		Abstract: NotAvailable,
	}

	var names []string
	for _, au := range a.Authors {
		if au.LastName == nil || au.ForeName == nil {
			continue
		}
		names = append(names, au.ForeName.String()+" "+au.LastName.String())
	}
	if len(names) > 0 {
		out.Authors = strings.Join(names, ", ")
	}

	if len(a.Sections) > 0 {
		var parts []string
		for _, s := range a.Sections {
			if t := strings.TrimSpace(s.String()); t != "" {
				parts = append(parts, t)
			}
		}
		out.Abstract = strings.Join(parts, " ")
	}
	return out
}

func orNA(t *xmlText) string {
	if t == nil || strings.TrimSpace(t.String()) == "" {
		return NotAvailable
	}
	return t.String()
}

// xmlText collects all character data of an element, including text inside
// inline markup such as <i> or <sup>.
type xmlText struct {
	text string
}

func (t xmlText) String() string { return t.text }

// UnmarshalXML implements xml.Unmarshaler.
func (t *xmlText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case xml.CharData:
			b.Write(v)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	t.text = b.String()
	return nil
}
