package service

import (
	"log"
	"strings"

	"github.com/edushare/backend/internal/dto"
	"github.com/edushare/backend/internal/model"
	"github.com/meilisearch/meilisearch-go"
)

const resourcesIndex = "resources"

type SearchService interface {
	IndexResource(resource *model.Resource) error
	DeleteResource(id string) error
	SearchResources(query string, limit int) ([]dto.ResourceSearchHit, error)
}

type searchService struct {
	client meilisearch.ServiceManager
}

// NewSearchService configures the resources index. client may be nil when
// search is not deployed; all operations then degrade to no-ops.
func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{client: client}
	if client != nil {
		s.initIndex()
	}
	return s
}

func (s *searchService) initIndex() {
	filterableAttrs := []string{"subject", "course", "semester"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index(resourcesIndex).UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update resources filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	_, err = s.client.Index(resourcesIndex).UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update resources sortable attributes: %v", err)
	}

	log.Println("Meilisearch resources index initialized")
}

type meiliResourceDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Subject     string   `json:"subject"`
	Course      string   `json:"course"`
	Semester    int      `json:"semester"`
	Tags        []string `json:"tags"`
	Uploader    string   `json:"uploader"`
	CreatedAt   int64    `json:"created_at"`
}

func (s *searchService) IndexResource(resource *model.Resource) error {
	if s.client == nil {
		return nil
	}

	semester := 0
	if resource.Semester != nil {
		semester = *resource.Semester
	}

	doc := meiliResourceDoc{
		ID:          resource.ID.String(),
		Title:       resource.Title,
		Description: resource.Description,
		Subject:     resource.Subject,
		Course:      resource.Course,
		Semester:    semester,
		Tags:        splitTags(resource.Tags),
		Uploader:    resource.Uploader.Username,
		CreatedAt:   resource.CreatedAt.Unix(),
	}

	task, err := s.client.Index(resourcesIndex).AddDocuments([]meiliResourceDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed resource %s, task id: %d", resource.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteResource(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(resourcesIndex).DeleteDocument(id)
	return err
}

func (s *searchService) SearchResources(query string, limit int) ([]dto.ResourceSearchHit, error) {
	if s.client == nil {
		return []dto.ResourceSearchHit{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	resp, err := s.client.Index(resourcesIndex).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}

	hits := make([]dto.ResourceSearchHit, 0, len(resp.Hits))
	if err := resp.Hits.Decode(&hits); err != nil {
		return nil, err
	}
	return hits, nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func strPtr(s string) *string {
	return &s
}
