package outbound

import "context"

type PublishOutputRequest struct {
	SourcePath string
	PublicName string
	Mime       string
}

type PublishOutputResult struct {
	PublicName string
	PublicURL  string
}

// OutputPublisherPort places a copy of a final artifact at a publicly
// fetchable location and reports its canonical URL.
type OutputPublisherPort interface {
	Publish(ctx context.Context, req PublishOutputRequest) (*PublishOutputResult, error)
}
