package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/deletebyquery"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/rs/zerolog/log"

	"rackops-backend/config"
	"rackops-backend/internal/dto"
	"rackops-backend/internal/model"
	"rackops-backend/internal/repository"
)

type elasticsearchLogRepository struct {
	esTypedClient *elasticsearch.TypedClient
	indexPrefix   string
}

func NewElasticsearchLogRepository(cfg *config.Config) (repository.LogRepository, error) {
	transport := &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: time.Second * 10,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
	}
	esCfgForTyped := elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
		Transport: transport,
	}

	typedClient, err := elasticsearch.NewTypedClient(esCfgForTyped)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Typed Elasticsearch Client in Repository")
		return nil, err
	}

	return &elasticsearchLogRepository{
		esTypedClient: typedClient,
		indexPrefix:   cfg.Elasticsearch.LogIndex,
	}, nil
}

// Search retrieves a page of entries matching the time range and text
// criteria. Severity refinement and the derived-severity ordering happen
// in the filter engine; the index cannot express the legacy label-suffix
// key, so entries come back ordered by logged_at.
func (r *elasticsearchLogRepository) Search(ctx context.Context, req dto.LogSearchRequest) (*dto.LogSearchResponse, error) {
	indexPattern := fmt.Sprintf("%s-*", r.indexPrefix)
	queryParts := []types.Query{}

	if !req.StartTime.IsZero() || !req.EndTime.IsZero() {
		rangeQuery := types.DateRangeQuery{}
		if !req.StartTime.IsZero() {
			start := req.StartTime.Format(time.RFC3339)
			rangeQuery.Gte = &start
		}
		if !req.EndTime.IsZero() {
			end := req.EndTime.Format(time.RFC3339)
			rangeQuery.Lte = &end
		}
		queryParts = append(queryParts, types.Query{
			Range: map[string]types.RangeQuery{
				"logged_at": rangeQuery,
			},
		})
	}

	if req.Query != "" {
		queryParts = append(queryParts, types.Query{
			QueryString: &types.QueryStringQuery{
				Query:  req.Query,
				Fields: []string{"hostname", "label", "log_line"},
				DefaultOperator: &operator.Operator{
					Name: "AND",
				},
			},
		})
	}

	if req.Hostname != "" {
		queryParts = append(queryParts, types.Query{
			Wildcard: map[string]types.WildcardQuery{
				"hostname.keyword": {
					Value: stringPtr(fmt.Sprintf("*%s*", req.Hostname)),
				},
			},
		})
	}

	from := (req.Page - 1) * req.Size
	order := sortorder.Asc

	searchRequest := &search.Request{
		Query: &types.Query{
			Bool: &types.BoolQuery{
				Filter: queryParts,
			},
		},
		Size: &req.Size,
		From: &from,
		Sort: []types.SortCombinations{
			types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"logged_at": {Order: &order},
				},
			},
		},
	}

	res, err := r.esTypedClient.Search().
		Index(indexPattern).
		Request(searchRequest).
		Do(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error executing Elasticsearch search via TypedClient")
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}

	logs := make([]model.LogEntry, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var entry model.LogEntry
		if hit.Source_ != nil {
			if err := json.Unmarshal(hit.Source_, &entry); err != nil {
				log.Error().Err(err).Msg("Error unmarshalling Elasticsearch hit source")
				continue
			}
			logs = append(logs, entry)
		}
	}

	response := &dto.LogSearchResponse{
		Logs:       logs,
		TotalCount: res.Hits.Total.Value,
		Page:       req.Page,
		Size:       req.Size,
	}

	log.Debug().Int64("total_hits", response.TotalCount).Int("returned_hits", len(response.Logs)).Msg("Elasticsearch search successful")
	return response, nil
}

// Delete removes entries by id across the daily indices and returns the
// number of documents deleted.
func (r *elasticsearchLogRepository) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	idTerms := make([]types.FieldValue, len(ids))
	for i, id := range ids {
		idTerms[i] = id
	}

	res, err := r.esTypedClient.DeleteByQuery(fmt.Sprintf("%s-*", r.indexPrefix)).
		Request(&deletebyquery.Request{
			Query: &types.Query{
				Terms: &types.TermsQuery{
					TermsQuery: map[string]types.TermsQueryField{
						"id": idTerms,
					},
				},
			},
		}).
		Do(ctx)
	if err != nil {
		log.Error().Err(err).Int("id_count", len(ids)).Msg("Error executing Elasticsearch delete-by-query")
		return 0, fmt.Errorf("elasticsearch delete failed: %w", err)
	}

	var deleted int64
	if res.Deleted != nil {
		deleted = *res.Deleted
	}
	log.Debug().Int64("deleted", deleted).Int("requested", len(ids)).Msg("Elasticsearch delete-by-query finished")
	return deleted, nil
}

func stringPtr(s string) *string {
	return &s
}
