package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"sawari/internal/config"
	"sawari/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchClient indexes buses for route search. The SQL store
// remains the source of truth; indexing failures are logged and the
// search service falls back to SQL filtering.
type ElasticsearchClient struct {
	client *elasticsearch.Client
	config config.ElasticsearchConfig
}

func NewElasticsearchClient(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{client: es, config: cfg}

	if err := client.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.config.Index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", c.config.Index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type": "long",
				},
				"route": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"description": map[string]interface{}{
					"type": "text",
				},
				"total_seats": map[string]interface{}{
					"type": "integer",
				},
				"seats_available": map[string]interface{}{
					"type": "integer",
				},
				"price": map[string]interface{}{
					"type": "long",
				},
			},
		},
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.config.Index,
		Body:  strings.NewReader(string(mappingJSON)),
	}

	createRes, err := createReq.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.config.Index)
	return nil
}

// IndexBus writes or overwrites a bus document.
func (c *ElasticsearchClient) IndexBus(ctx context.Context, bus *models.Bus) error {
	busJSON, err := json.Marshal(bus)
	if err != nil {
		return fmt.Errorf("failed to marshal bus: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.config.Index,
		DocumentID: strconv.FormatInt(bus.ID, 10),
		Body:       strings.NewReader(string(busJSON)),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index bus: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}
	return nil
}

// DeleteBus removes a bus document; a 404 is not an error.
func (c *ElasticsearchClient) DeleteBus(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{
		Index:      c.config.Index,
		DocumentID: strconv.FormatInt(id, 10),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to delete bus: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete error: %s", res.String())
	}
	return nil
}

// Search queries buses by route term and numeric filters.
func (c *ElasticsearchClient) Search(ctx context.Context, q models.SearchBusesQuery) ([]models.Bus, error) {
	searchRequest := map[string]interface{}{
		"query": c.buildSearchQuery(q),
		"sort": []map[string]interface{}{
			{"id": map[string]interface{}{"order": "asc"}},
		},
		"size": 100,
	}

	searchJSON, err := json.Marshal(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{c.config.Index},
		Body:  strings.NewReader(string(searchJSON)),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source models.Bus `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	buses := make([]models.Bus, len(response.Hits.Hits))
	for i, hit := range response.Hits.Hits {
		buses[i] = hit.Source
	}
	return buses, nil
}

func (c *ElasticsearchClient) buildSearchQuery(q models.SearchBusesQuery) map[string]interface{} {
	mustQueries := []map[string]interface{}{}

	if q.RouteTerm != "" {
		mustQueries = append(mustQueries, map[string]interface{}{
			"match": map[string]interface{}{
				"route": map[string]interface{}{
					"query":     q.RouteTerm,
					"fuzziness": "AUTO",
				},
			},
		})
	}
	if q.MinAvailable != nil {
		mustQueries = append(mustQueries, map[string]interface{}{
			"range": map[string]interface{}{
				"seats_available": map[string]interface{}{"gte": *q.MinAvailable},
			},
		})
	}
	if q.PriceMin != nil || q.PriceMax != nil {
		priceRange := map[string]interface{}{}
		if q.PriceMin != nil {
			priceRange["gte"] = *q.PriceMin
		}
		if q.PriceMax != nil {
			priceRange["lte"] = *q.PriceMax
		}
		mustQueries = append(mustQueries, map[string]interface{}{
			"range": map[string]interface{}{"price": priceRange},
		})
	}

	if len(mustQueries) == 0 {
		return map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}

	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must": mustQueries,
		},
	}
}
