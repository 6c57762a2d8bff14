package storage

import "context"

// UploadArchive keeps the raw vendor files that were fed into the
// reconciler, for replay and dispute resolution. Archiving is best effort:
// callers log failures and move on.
type UploadArchive interface {
	Archive(ctx context.Context, key string, data []byte, contentType string) error
}

// NoopArchive is used when no object storage is configured.
type NoopArchive struct{}

func (NoopArchive) Archive(context.Context, string, []byte, string) error { return nil }
