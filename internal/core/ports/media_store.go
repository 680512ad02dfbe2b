package ports

import "context"

// Media namespaces. Every object uploaded by this system lives under one of
// these folder prefixes.
const (
	MediaFolderAvatars = "avatars"
	MediaFolderCovers  = "covers"
)

// UploadInput carries a file buffer destined for the media store.
type UploadInput struct {
	Data        []byte
	Filename    string
	ContentType string
	Folder      string
}

// StoredObject identifies an uploaded object: the provider key used for later
// deletion and the public URL stored on the owning record.
type StoredObject struct {
	Key string
	URL string
}

// MediaStore abstracts the remote media host (S3-compatible storage).
// Implementations must be safe for concurrent use.
type MediaStore interface {
	Upload(ctx context.Context, in UploadInput) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}
