package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/edushare/backend/internal/dto"
	"github.com/edushare/backend/internal/model"
	"github.com/edushare/backend/internal/repository"
	"github.com/edushare/backend/pkg/apperror"
	"github.com/edushare/backend/pkg/storage"
	"github.com/google/uuid"
)

const resourceFolder = "EduShare_Files"

// Download carries the proxied file stream back to the handler.
type Download struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
}

type ResourceService interface {
	Upload(ctx context.Context, uploaderID uuid.UUID, req *dto.UploadResourceRequest, file io.Reader, filename, mimeType string) (*dto.ResourceResponse, error)
	List(ctx context.Context, page, limit int) (*dto.ResourcePage, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ResourceResponse, error)
	Download(ctx context.Context, id uuid.UUID) (*Download, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Search(ctx context.Context, query string, limit int) ([]dto.ResourceSearchHit, error)
}

type resourceService struct {
	repo       repository.ResourceRepository
	userRepo   repository.UserRepository
	storage    storage.FileStorage
	search     SearchService
	httpClient *http.Client
}

func NewResourceService(repo repository.ResourceRepository, userRepo repository.UserRepository, fileStorage storage.FileStorage, search SearchService) ResourceService {
	return &resourceService{
		repo:     repo,
		userRepo: userRepo,
		storage:  fileStorage,
		search:   search,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (s *resourceService) Upload(ctx context.Context, uploaderID uuid.UUID, req *dto.UploadResourceRequest, file io.Reader, filename, mimeType string) (*dto.ResourceResponse, error) {
	if s.storage == nil {
		return nil, apperror.New(0, "file storage is not configured", apperror.ErrUpstream)
	}
	if filename == "" {
		return nil, apperror.New(0, "file is required", apperror.ErrBadRequest)
	}

	resourceType := "raw"
	if strings.HasPrefix(mimeType, "image/") {
		resourceType = "image"
	}

	uploaded, err := s.storage.UploadFile(ctx, file, resourceFolder, filename, resourceType)
	if err != nil {
		log.Printf("cloudinary upload failed: %v", err)
		return nil, apperror.New(0, "failed to store file", apperror.ErrUpstream)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "General"
	}

	var semester *int
	if req.Semester != "" {
		if v, err := strconv.Atoi(req.Semester); err == nil {
			semester = &v
		}
	}

	format := strings.TrimPrefix(filepath.Ext(filename), ".")

	resource := &model.Resource{
		Title:            title,
		Description:      req.Description,
		Subject:          subject,
		Course:           req.Course,
		Semester:         semester,
		Tags:             req.Tags,
		OriginalFilename: filepath.Base(filename),
		StorageURL:       uploaded.SecureURL,
		StoragePublicID:  uploaded.PublicID,
		ResourceType:     resourceType,
		Format:           strings.ToLower(format),
		MimeType:         mimeType,
		UploaderID:       uploaderID,
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		return nil, err
	}

	// The download URL embeds the id, so it can only be filled after insert.
	resource.FileURL = fmt.Sprintf("/api/resources/%s/download", resource.ID)
	if err := s.repo.Save(ctx, resource); err != nil {
		return nil, err
	}

	if uploader, err := s.userRepo.FindByID(ctx, uploaderID); err == nil {
		resource.Uploader = *uploader
	}

	go func() {
		if err := s.search.IndexResource(resource); err != nil {
			log.Printf("failed to index resource %s: %v", resource.ID, err)
		}
	}()

	return toResourceResponse(resource), nil
}

func (s *resourceService) List(ctx context.Context, page, limit int) (*dto.ResourcePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 12
	}

	resources, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ResourceResponse, 0, len(resources))
	for i := range resources {
		items = append(items, *toResourceResponse(&resources[i]))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.ResourcePage{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		Limit:      limit,
	}, nil
}

func (s *resourceService) Get(ctx context.Context, id uuid.UUID) (*dto.ResourceResponse, error) {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.New(0, "resource not found", apperror.ErrNotFound)
	}
	return toResourceResponse(resource), nil
}

// Download proxies the stored file through the API so the provider URL stays
// hidden. When the plain delivery URL stops serving (asset flagged private,
// stale ACL) it falls back to a signed private download URL and retries once.
func (s *resourceService) Download(ctx context.Context, id uuid.UUID) (*Download, error) {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.New(0, "resource not found", apperror.ErrNotFound)
	}
	if resource.StorageURL == "" {
		return nil, apperror.New(0, "resource has no stored file", apperror.ErrNotFound)
	}

	resp, err := s.fetch(ctx, resource.StorageURL)
	if err != nil || resp.StatusCode != http.StatusOK {
		if resp != nil {
			resp.Body.Close()
		}
		if err != nil {
			log.Printf("download fetch failed for resource %s: %v", resource.ID, err)
		} else {
			log.Printf("download fetch for resource %s returned status %d, trying signed URL", resource.ID, resp.StatusCode)
		}

		resp, err = s.fetchSigned(ctx, resource)
		if err != nil {
			return nil, apperror.New(0, "failed to fetch file from storage", apperror.ErrUpstream)
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if resource.MimeType != "" {
		contentType = resource.MimeType
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(resource.OriginalFilename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Download{
		Body:        resp.Body,
		ContentType: contentType,
		Filename:    resource.OriginalFilename,
	}, nil
}

func (s *resourceService) fetchSigned(ctx context.Context, resource *model.Resource) (*http.Response, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("file storage is not configured")
	}

	signedURL, err := s.storage.PrivateDownloadURL(resource.StoragePublicID, resource.Format, resource.ResourceType)
	if err != nil {
		return nil, err
	}

	resp, err := s.fetch(ctx, signedURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("signed download returned status %d", resp.StatusCode)
	}
	return resp, nil
}

func (s *resourceService) fetch(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return s.httpClient.Do(req)
}

func (s *resourceService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperror.New(0, "resource not found", apperror.ErrNotFound)
	}

	if resource.UploaderID != userID {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil || user.Role != model.RoleTeacher {
			return apperror.New(0, "you are not allowed to delete this resource", apperror.ErrForbidden)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Storage and index cleanup are best effort; the row is already gone.
	// Rows written before the public id column existed only carry the
	// delivery URL, so fall back to deriving the id from it.
	publicID := resource.StoragePublicID
	if publicID == "" {
		publicID = storage.ExtractPublicID(resource.StorageURL)
	}
	if s.storage != nil && publicID != "" {
		if err := s.storage.DeleteFile(ctx, publicID, resource.ResourceType); err != nil {
			log.Printf("failed to delete file %s from storage: %v", publicID, err)
		}
	}
	if err := s.search.DeleteResource(id.String()); err != nil {
		log.Printf("failed to de-index resource %s: %v", id, err)
	}

	return nil
}

func (s *resourceService) Search(ctx context.Context, query string, limit int) ([]dto.ResourceSearchHit, error) {
	return s.search.SearchResources(query, limit)
}

func toResourceResponse(r *model.Resource) *dto.ResourceResponse {
	return &dto.ResourceResponse{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Subject:          r.Subject,
		Course:           r.Course,
		Semester:         r.Semester,
		Tags:             splitTags(r.Tags),
		FileURL:          r.FileURL,
		OriginalFilename: r.OriginalFilename,
		Format:           r.Format,
		MimeType:         r.MimeType,
		UploadedBy:       r.Uploader.Username,
		CreatedAt:        r.CreatedAt,
	}
}
