package ports

import "context"

// MediaStore abstracts durable media object storage (S3 in production).
// Upload persists the raw payload and returns the public URL that gets
// stored on the post. Delete is best-effort: callers log failures and move
// on rather than blocking the operation that triggered the cleanup.
type MediaStore interface {
	Upload(ctx context.Context, payload []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// MediaCleaner enqueues best-effort deletion of a stored media object.
// Implementations run the actual MediaStore.Delete asynchronously.
type MediaCleaner interface {
	Enqueue(url string)
}
