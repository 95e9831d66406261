package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/food_storefront/internal/models"
)

type Searcher interface {
	SearchRestaurants(ctx context.Context, term string) ([]string, error)
}

type Indexer interface {
	IndexRestaurant(ctx context.Context, r models.Restaurant) error
	RemoveRestaurant(ctx context.Context, id string) error
}

func matchesTerm(r models.Restaurant, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), term) ||
		strings.Contains(strings.ToLower(r.Description), term)
}

// ESSearcher keeps restaurants in an Elasticsearch index and answers
// searches with matching restaurant ids.
type ESSearcher struct {
	Client *elasticsearch.Client
	Index  string
	Size   int
}

type restaurantDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Country     string `json:"country"`
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// searchQuery matches term anywhere in name or description, ignoring case,
// on the keyword subfields dynamic mapping creates.
func searchQuery(term string, size int) map[string]any {
	pattern := "*" + wildcardEscaper.Replace(strings.TrimSpace(term)) + "*"
	wildcard := func(field string) map[string]any {
		return map[string]any{
			"wildcard": map[string]any{
				field: map[string]any{"value": pattern, "case_insensitive": true},
			},
		}
	}
	return map[string]any{
		"size":    size,
		"_source": false,
		"query": map[string]any{
			"bool": map[string]any{
				"should":               []any{wildcard("name.keyword"), wildcard("description.keyword")},
				"minimum_should_match": 1,
			},
		},
	}
}

func (s *ESSearcher) SearchRestaurants(ctx context.Context, term string) ([]string, error) {
	size := s.Size
	if size <= 0 {
		size = 100
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchQuery(term, size)); err != nil {
		return nil, err
	}

	res, err := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(s.Index),
		s.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es search: %s: %s", res.Status(), body)
	}

	var out struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("es search decode: %w", err)
	}

	ids := make([]string, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func (s *ESSearcher) IndexRestaurant(ctx context.Context, r models.Restaurant) error {
	body, err := json.Marshal(restaurantDoc{Name: r.Name, Description: r.Description, Country: string(r.Country)})
	if err != nil {
		return err
	}

	res, err := s.Client.Index(s.Index, bytes.NewReader(body),
		s.Client.Index.WithContext(ctx),
		s.Client.Index.WithDocumentID(r.ID),
		s.Client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("es index %s: %w", r.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", r.ID, res.Status())
	}
	return nil
}

func (s *ESSearcher) RemoveRestaurant(ctx context.Context, id string) error {
	res, err := s.Client.Delete(s.Index, id,
		s.Client.Delete.WithContext(ctx),
		s.Client.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("es delete %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

// Reindex pushes every restaurant into the index.
func Reindex(ctx context.Context, repo *GormRepo, idx Indexer) (int, error) {
	all, err := repo.ListRestaurants(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range all {
		if err := idx.IndexRestaurant(ctx, r); err != nil {
			return 0, err
		}
	}
	return len(all), nil
}
