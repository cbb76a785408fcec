package cache

import "context"

// noopCache is used when Redis is unavailable or in tests; every read
// is a miss and every write is discarded.
type noopCache struct{}

func NewNoop() Cache {
	return noopCache{}
}

func (noopCache) SetEventIDForCode(ctx context.Context, code string, eventID string) error {
	return nil
}

func (noopCache) GetEventIDForCode(ctx context.Context, code string) (string, error) {
	return "", nil
}

func (noopCache) SetTally(ctx context.Context, eventID string, payload []byte) error {
	return nil
}

func (noopCache) GetTally(ctx context.Context, eventID string) ([]byte, error) {
	return nil, nil
}

func (noopCache) DelTally(ctx context.Context, eventID string) error {
	return nil
}

func (noopCache) Ping(ctx context.Context) error {
	return nil
}

func (noopCache) Close() error {
	return nil
}
