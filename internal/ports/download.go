package ports

import "context"

// Downloader fetches a release archive from a remote location into a local
// file. Implementations report non-2xx responses as errors.
type Downloader interface {
	Fetch(ctx context.Context, url string, dest string) error
}
