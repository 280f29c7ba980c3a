package redis

const (
	// KeySnapshot holds the whole collection as one JSON document
	KeySnapshot = "ctc:snapshot"
	// KeyPrefixPuzzleMeta is the prefix for cached puzzle name/author lookups
	KeyPrefixPuzzleMeta = "ctc:cache:puzzle:"
)

// SnapshotKey returns the Redis key of the persisted collection
func SnapshotKey() string {
	return KeySnapshot
}

// PuzzleMetaKey returns the Redis key for a puzzle's cached metadata
func PuzzleMetaKey(link string) string {
	return KeyPrefixPuzzleMeta + link
}
