package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CoverStorage stores uploaded cover images on disk. Covers are opaque
// blobs: nothing here inspects their content, the catalog only keeps
// the generated file name.
type CoverStorage struct {
	dir string
}

var errInvalidCoverName = errors.New("invalid cover name")

// NewCoverStorage creates the storage directory if needed.
func NewCoverStorage(dir string) (*CoverStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}
	return &CoverStorage{dir: dir}, nil
}

// Save writes an uploaded file under a random name and returns the
// name to store on the book.
func (s *CoverStorage) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

// Path resolves a stored cover name to a filesystem path, rejecting
// anything that tries to escape the storage directory.
func (s *CoverStorage) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", errInvalidCoverName
	}
	return filepath.Join(s.dir, name), nil
}

// CoversController serves stored cover images.
type CoversController struct {
	storage *CoverStorage
}

func NewCoversController(storage *CoverStorage) *CoversController {
	return &CoversController{storage: storage}
}

// GetCover serves a stored cover blob.
// GET /covers/:name
func (cc *CoversController) GetCover(c *gin.Context) {
	path, err := cc.storage.Path(c.Param("name"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	if _, err := os.Stat(path); err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(path)
}
