package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/openlistings/backend/internal/utils"
)

const maxImageBytes = 10 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// StoredImage is what the upload endpoint hands back to the client:
// the public URL plus the id needed to delete the file later.
type StoredImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// ImageStore persists uploaded property images.
type ImageStore interface {
	Save(file multipart.File, header *multipart.FileHeader) (*StoredImage, error)
	Remove(publicID string) error
}

// DiskImageStore writes images to a local directory and serves them under
// baseURL. File names are fresh uuids so client-supplied names never touch
// the filesystem.
type DiskImageStore struct {
	dir     string
	baseURL string
}

func NewDiskImageStore(dir, baseURL string) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &DiskImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskImageStore) Save(file multipart.File, header *multipart.FileHeader) (*StoredImage, error) {
	if header.Size > maxImageBytes {
		return nil, utils.NewAppError(http.StatusRequestEntityTooLarge, utils.ErrCodeInvalidPayload, "image exceeds the 10MB limit", nil)
	}

	// Sniff the real content type instead of trusting the header.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, utils.NewAppError(http.StatusUnsupportedMediaType, utils.ErrCodeInvalidPayload,
			fmt.Sprintf("unsupported image type %q", contentType), nil)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding image: %w", err)
	}

	publicID := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.dir, publicID))
	if err != nil {
		return nil, fmt.Errorf("creating image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxImageBytes)); err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("writing image file: %w", err)
	}

	return &StoredImage{
		URL:      s.baseURL + "/" + publicID,
		PublicID: publicID,
	}, nil
}

func (s *DiskImageStore) Remove(publicID string) error {
	// publicID is always a uuid we minted; reject anything path-like anyway.
	if publicID != filepath.Base(publicID) || publicID == "." || publicID == "" {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidPayload, "invalid image id", nil)
	}
	if err := os.Remove(filepath.Join(s.dir, publicID)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("removing image file: %w", err)
	}
	return nil
}

// Dir exposes the storage directory for the static file route.
func (s *DiskImageStore) Dir() string { return s.dir }
