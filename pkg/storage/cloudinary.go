package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadResult carries the provider URL and public ID of a stored file.
type UploadResult struct {
	SecureURL string
	PublicID  string
}

// FileStorage defines the contract for the file storage provider
// (Cloudinary implementation).
type FileStorage interface {
	// UploadFile uploads a file from reader and returns its secure URL and
	// public ID. folder is the logical folder in storage; resourceType is
	// "image" or "raw".
	UploadFile(ctx context.Context, r io.Reader, folder, fileName, resourceType string) (*UploadResult, error)
	// DeleteFile deletes a file from storage by public ID.
	DeleteFile(ctx context.Context, publicID, resourceType string) error
	// PrivateDownloadURL builds a signed download URL for an asset the plain
	// delivery URL can no longer serve (e.g. after the asset was flagged
	// private). format may be empty.
	PrivateDownloadURL(publicID, format, resourceType string) (string, error)
}

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates a Cloudinary-backed implementation of FileStorage.
// It expects CLOUDINARY_URL or individual CLOUDINARY_CLOUD_NAME / CLOUDINARY_API_KEY /
// CLOUDINARY_API_SECRET to be configured in environment variables.
func NewCloudinaryStorage() (FileStorage, error) {
	// cloudinary.New() automatically reads CLOUDINARY_URL from environment if present.
	cld, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	// Ensure HTTPS URLs by default.
	cld.Config.URL.Secure = true

	if cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME"); cloudName != "" {
		cld.Config.Cloud.CloudName = cloudName
	}

	return &cloudinaryStorage{cld: cld}, nil
}

func (s *cloudinaryStorage) UploadFile(ctx context.Context, r io.Reader, folder, fileName, resourceType string) (*UploadResult, error) {
	if s == nil || s.cld == nil {
		return nil, fmt.Errorf("cloudinary storage is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	publicID := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), SanitizeFilename(fileName))

	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicID,
		ResourceType:   resourceType,
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to cloudinary: %w", err)
	}

	if resp.SecureURL == "" {
		return nil, fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}

	return &UploadResult{SecureURL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

func (s *cloudinaryStorage) DeleteFile(ctx context.Context, publicID, resourceType string) error {
	if s == nil || s.cld == nil {
		return fmt.Errorf("cloudinary storage is not initialized")
	}
	if publicID == "" {
		return fmt.Errorf("public ID is required to delete a file")
	}

	// Invalidate: true helps to clear CDN cache
	params := uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
		Invalidate:   api.Bool(true),
	}

	resp, err := s.cld.Upload.Destroy(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to delete file from cloudinary: %w", err)
	}

	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result)
	}

	return nil
}

// PrivateDownloadURL builds the signed api.cloudinary.com download URL. The Go
// SDK exposes no helper for this endpoint, so the signature is computed here:
// SHA-1 over the sorted query params (minus api_key) concatenated with the API
// secret, per the Cloudinary authentication rules.
func (s *cloudinaryStorage) PrivateDownloadURL(publicID, format, resourceType string) (string, error) {
	if s == nil || s.cld == nil {
		return "", fmt.Errorf("cloudinary storage is not initialized")
	}

	cloudName := s.cld.Config.Cloud.CloudName
	apiKey := s.cld.Config.Cloud.APIKey
	apiSecret := s.cld.Config.Cloud.APISecret
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return "", fmt.Errorf("cloudinary credentials are not configured")
	}

	if resourceType == "" {
		resourceType = "raw"
	}

	signed := map[string]string{
		"public_id": publicID,
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	}
	if format != "" {
		signed["format"] = format
	}

	keys := make([]string, 0, len(signed))
	for k := range signed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+signed[k])
	}
	toSign := strings.Join(pairs, "&") + apiSecret

	digest := sha1.Sum([]byte(toSign))
	signature := hex.EncodeToString(digest[:])

	q := url.Values{}
	for k, v := range signed {
		q.Set(k, v)
	}
	q.Set("api_key", apiKey)
	q.Set("signature", signature)

	return fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/%s/download?%s", cloudName, resourceType, q.Encode()), nil
}

// SanitizeFilename lowercases the base name and collapses anything outside
// [a-z0-9] into single dashes, keeping storage public IDs URL-safe.
func SanitizeFilename(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name = strings.ToLower(name)

	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}

	clean := b.String()
	for strings.Contains(clean, "--") {
		clean = strings.ReplaceAll(clean, "--", "-")
	}
	return strings.Trim(clean, "-")
}

// ExtractPublicID attempts to extract the public ID from a Cloudinary delivery URL.
// Example: https://res.cloudinary.com/demo/image/upload/v123456789/folder/sample.jpg -> folder/sample
func ExtractPublicID(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return ""
	}

	// Path is roughly /<cloud_name>/image/upload/v<version>/<folder>/<file>.<ext>
	parts := strings.Split(u.Path, "/")
	uploadIndex := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIndex = i
			break
		}
	}

	if uploadIndex == -1 || uploadIndex+1 >= len(parts) {
		return ""
	}

	relevantParts := parts[uploadIndex+1:]

	// Cloudinary versions start with 'v' followed by numbers.
	if len(relevantParts) > 0 && strings.HasPrefix(relevantParts[0], "v") {
		allDigits := len(relevantParts[0]) > 1
		for _, r := range relevantParts[0][1:] {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			relevantParts = relevantParts[1:]
		}
	}

	if len(relevantParts) == 0 {
		return ""
	}

	publicIDWithExt := strings.Join(relevantParts, "/")
	ext := filepath.Ext(publicIDWithExt)
	return strings.TrimSuffix(publicIDWithExt, ext)
}
