package product

import "context"

// Repository port for persisting and querying analyses.
// Implementations must serialize Create so ids stay unique.
type Repository interface {
	Create(ctx context.Context, in NewAnalysis) (*Analysis, error)
	Get(ctx context.Context, id AnalysisID) (*Analysis, error)
	List(ctx context.Context) ([]*Analysis, error)
	Delete(ctx context.Context, id AnalysisID) (bool, error)
}

// ImageArchive port for keeping a copy of uploaded images outside the record
type ImageArchive interface {
	Put(ctx context.Context, data []byte, mimeType string) (string, error)
}
