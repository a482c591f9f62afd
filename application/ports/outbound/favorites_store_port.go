package outbound

import "context"

// FavoritesStorePort keeps per-user favorite and recently-used voice ids.
type FavoritesStorePort interface {
	Favorites(ctx context.Context, userID string) (map[string]struct{}, error)
	UpdateFavorites(ctx context.Context, userID string, voiceIDs []string, favorite bool) error
	AddRecent(ctx context.Context, userID string, voiceID string) error
	RecentIDs(ctx context.Context, userID string, limit int) ([]string, error)
}
