package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"deeperweave/internal/api/dto"
	infraES "deeperweave/internal/infra/elasticsearch"
	"deeperweave/internal/model"
	"deeperweave/internal/repository"
	"deeperweave/pkg/logger"

	"go.uber.org/zap"
)

type SearchService struct {
	mediaRepo *repository.MediaRepository
}

func NewSearchService(mediaRepo *repository.MediaRepository) *SearchService {
	return &SearchService{mediaRepo: mediaRepo}
}

// SearchMedia 搜索本地媒体镜像：优先走 ES，失败降级到数据库模糊查询
func (s *SearchService) SearchMedia(ctx context.Context, req *dto.SearchMediaRequest) (*dto.SearchMediaData, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	data, err := s.searchByES(ctx, req.Q, req.MediaType, page, pageSize)
	if err != nil {
		logger.Warn("Elasticsearch search failed, falling back to database",
			zap.String("query", req.Q), zap.Error(err))
		return s.searchByDB(req.Q, req.MediaType, page, pageSize)
	}
	return data, nil
}

// esSearchResult ES 搜索响应的反序列化结构
type esSearchResult struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source    infraES.ESMediaDoc  `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *SearchService) searchByES(ctx context.Context, keyword, mediaType string, page, pageSize int) (*dto.SearchMediaData, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":     keyword,
				"fields":    []string{"title"},
				"fuzziness": "AUTO",
			},
		},
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": must,
			},
		},
		"from": (page - 1) * pageSize,
		"size": pageSize,
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"review_count": map[string]interface{}{"order": "desc"}},
		},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"title": map[string]interface{}{},
			},
		},
	}
	if mediaType != "" {
		query["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"] = []map[string]interface{}{
			{"term": map[string]interface{}{"media_type": mediaType}},
		}
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	resp, err := infraES.Search(ctx, infraES.MediaIndexName(), strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("elasticsearch search failed: %s", resp.String())
	}

	var result esSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	infos := make([]dto.SearchMediaInfo, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		infos = append(infos, dto.SearchMediaInfo{
			ID:               hit.Source.ID,
			MediaType:        hit.Source.MediaType,
			Title:            hit.Source.Title,
			PosterPath:       hit.Source.PosterPath,
			ReleaseDate:      hit.Source.ReleaseDate,
			OriginalLanguage: hit.Source.OriginalLanguage,
			ReviewCount:      hit.Source.ReviewCount,
			SavedCount:       hit.Source.SavedCount,
			Highlight:        hit.Highlight,
		})
	}

	total := result.Hits.Total.Value
	return &dto.SearchMediaData{
		Media:      infos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

// searchByDB 数据库降级搜索（无高亮、无相关性排序）
func (s *SearchService) searchByDB(keyword, mediaType string, page, pageSize int) (*dto.SearchMediaData, error) {
	skip := (page - 1) * pageSize
	infos := make([]dto.SearchMediaInfo, 0, pageSize)
	var total int64

	if mediaType == "" || mediaType == model.MediaTypeMovie {
		movies, movieTotal, err := s.mediaRepo.SearchMovies(keyword, skip, pageSize)
		if err != nil {
			return nil, err
		}
		total += movieTotal
		for i := range movies {
			infos = append(infos, dto.SearchMediaInfo{
				ID:               movies[i].ID,
				MediaType:        model.MediaTypeMovie,
				Title:            movies[i].Title,
				PosterPath:       movies[i].PosterPath,
				ReleaseDate:      movies[i].ReleaseDate,
				OriginalLanguage: movies[i].OriginalLanguage,
			})
		}
	}

	if mediaType == "" || mediaType == model.MediaTypeTV {
		remaining := pageSize - len(infos)
		if remaining > 0 {
			shows, showTotal, err := s.mediaRepo.SearchTVShows(keyword, skip, remaining)
			if err != nil {
				return nil, err
			}
			total += showTotal
			for i := range shows {
				infos = append(infos, dto.SearchMediaInfo{
					ID:               shows[i].ID,
					MediaType:        model.MediaTypeTV,
					Title:            shows[i].Name,
					PosterPath:       shows[i].PosterPath,
					ReleaseDate:      shows[i].FirstAirDate,
					OriginalLanguage: shows[i].OriginalLanguage,
				})
			}
		} else if mediaType == "" {
			_, showTotal, err := s.mediaRepo.SearchTVShows(keyword, 0, 1)
			if err == nil {
				total += showTotal
			}
		}
	}

	return &dto.SearchMediaData{
		Media:      infos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}
