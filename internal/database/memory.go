package database

import "context"

type memoryService struct{}

// NewMemory returns a Service for the in-process backend. It is always healthy.
func NewMemory() Service {
	return memoryService{}
}

func (memoryService) Health() map[string]string {
	return map[string]string{
		"message": "It's healthy",
	}
}

func (memoryService) Close(ctx context.Context) error {
	return nil
}
