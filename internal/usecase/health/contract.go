package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexProbe checks that the entries index answers queries.
type IndexProbe interface {
	CountByType(ctx context.Context) (map[string]int, error)
}
