// Package storage persists uploaded files and returns the URL clients use to
// reach them.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	FolderDocuments = "documents"
	FolderResumes   = "resumes"
)

type Storage interface {
	// Put stores data under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ObjectKey builds "<folder>/<accountId>-<unix millis>-<name>".
func ObjectKey(folder string, accountID uuid.UUID, at time.Time, name string) string {
	return fmt.Sprintf("%s/%s-%d-%s", folder, accountID, at.UnixMilli(), name)
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// Reference records nothing and only renders the URL a real store would
// serve the object from.
type Reference struct {
	baseURL string
}

func NewReference(baseURL string) *Reference {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "/uploads"
	}
	return &Reference{baseURL: baseURL}
}

func (r *Reference) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return publicURL(r.baseURL, key), nil
}
