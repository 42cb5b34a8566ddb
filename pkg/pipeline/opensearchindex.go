package pipeline

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"casesearch/internal/config"
	"casesearch/pkg/models"
)

// OpenSearchRecall is the redis/sqlite-independent similarity index for the
// stale-fallback recall store: prior SearchResponses are indexed by a
// normalized-query field, then recalled with a match query instead of the
// exact signature-bucket keys StaleIndex's cache-backed levels use. A
// deployment wires this in only when OPENSEARCH_HOST is set; StaleIndex
// falls back to its cache levels when it is nil.
type OpenSearchRecall struct {
	client *opensearch.Client
	index  string
}

type recallDoc struct {
	NormalizedQuery string                `json:"normalized_query"`
	SignatureLevel  string                `json:"signature_level"`
	Response        models.SearchResponse `json:"response"`
	IndexedAt       string                `json:"indexed_at"`
}

// NewOpenSearchRecall connects to the configured cluster and makes sure the
// recall index exists, creating it with a minimal mapping if not.
func NewOpenSearchRecall(ctx context.Context, cfg config.OpenSearchConfig) (*OpenSearchRecall, error) {
	protocol := "http"
	if cfg.UseSSL {
		protocol = "https"
	}
	addr := fmt.Sprintf("%s://%s:%d", protocol, cfg.Host, cfg.Port)

	osCfg := opensearch.Config{
		Addresses: []string{addr},
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			TLSClientConfig:       &tls.Config{InsecureSkipVerify: true},
		},
	}
	if cfg.Username != "" && cfg.Password != "" {
		osCfg.Username = cfg.Username
		osCfg.Password = cfg.Password
	}

	client, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}

	r := &OpenSearchRecall{client: client, index: cfg.Index}
	if err := r.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *OpenSearchRecall) ensureIndex(ctx context.Context) error {
	exists, err := (opensearchapi.IndicesExistsRequest{Index: []string{r.index}}).Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("check recall index: %w", err)
	}
	defer exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"normalized_query": map[string]interface{}{"type": "text"},
				"signature_level":  map[string]interface{}{"type": "keyword"},
				"indexed_at":       map[string]interface{}{"type": "date"},
			},
		},
	}
	body, _ := json.Marshal(mapping)
	res, err := (opensearchapi.IndicesCreateRequest{Index: r.index, Body: bytes.NewReader(body)}).Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("create recall index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 400 {
		// 400 here is almost always "resource_already_exists_exception" from a
		// concurrent creator; anything else is a real failure.
		b, _ := io.ReadAll(res.Body)
		return fmt.Errorf("create recall index failed: %s: %s", res.Status(), string(b))
	}
	return nil
}

// Put indexes resp under a document keyed by the signature level and
// normalized query tokens, so a later Lookup can match it.
func (r *OpenSearchRecall) Put(ctx context.Context, level SignatureLevel, normalizedQuery string, resp models.SearchResponse) {
	doc := recallDoc{
		NormalizedQuery: normalizedQuery,
		SignatureLevel:  string(level),
		Response:        resp,
		IndexedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return
	}
	docID := strings.ReplaceAll(fmt.Sprintf("%s:%s", level, normalizedQuery), "/", "_")
	req := opensearchapi.IndexRequest{Index: r.index, DocumentID: docID, Body: bytes.NewReader(body)}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return
	}
	res.Body.Close()
}

// Lookup runs a match query against normalized_query and returns the
// highest-scoring hit, so a near-but-not-identical query still recalls a
// prior response instead of missing outright.
func (r *OpenSearchRecall) Lookup(ctx context.Context, normalizedQuery string) (models.SearchResponse, SignatureLevel, bool) {
	query := map[string]interface{}{
		"size": 1,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"normalized_query": normalizedQuery,
			},
		},
	}
	body, _ := json.Marshal(query)
	req := opensearchapi.SearchRequest{Index: []string{r.index}, Body: bytes.NewReader(body)}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return models.SearchResponse{}, "", false
	}
	defer res.Body.Close()
	if res.IsError() {
		return models.SearchResponse{}, "", false
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source recallDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return models.SearchResponse{}, "", false
	}
	if len(parsed.Hits.Hits) == 0 {
		return models.SearchResponse{}, "", false
	}
	hit := parsed.Hits.Hits[0].Source
	return hit.Response, SignatureLevel(hit.SignatureLevel), true
}
