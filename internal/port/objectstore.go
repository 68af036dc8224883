package port

import "context"

// PutObjectInput encapsulates the parameters for writing an object.
type PutObjectInput struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

// ObjectInfo describes a stored object's metadata.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
	ETag        string
}

// ObjectList is the result of a prefix listing. CommonPrefixes holds the
// virtual sub-folders seen in a non-recursive listing.
type ObjectList struct {
	Keys           []string
	CommonPrefixes []string
}

// ObjectClient is the narrow binding to the remote blob store. It is the
// only place backend SDK types appear; absence is always reported as
// domain.ErrObjectNotFound, never as an SDK-specific shape.
type ObjectClient interface {
	Put(ctx context.Context, input PutObjectInput) error
	Get(ctx context.Context, key string) ([]byte, *ObjectInfo, error)
	Head(ctx context.Context, key string) (*ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string, recursive bool) (*ObjectList, error)

	// Ping verifies the store is reachable and the bucket accessible.
	Ping(ctx context.Context) error
}
