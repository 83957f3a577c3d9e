package vectorDB

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// namespaceSeed salts the derived names so they cannot collide with
// anything else living in the same qdrant instance.
var namespaceSeed = uuid.MustParse("8f6f3c1e-64f1-4f05-9e20-7a20c54a9c11")

// ResolveNamespace derives the vector-index namespace for a (user, topic)
// pair. It is a pure function: identical pairs always produce the identical
// key and distinct pairs always produce distinct keys, which is what makes
// topic isolation and idempotent re-ingestion work. The raw ids are hashed
// rather than sanitized so that no two inputs can ever normalize to the
// same collection name.
func ResolveNamespace(userId string, topicId string) string {
	key := uuid.NewSHA1(namespaceSeed, []byte(userId+"\x00"+topicId))
	return "kb_" + strings.ReplaceAll(key.String(), "-", "")
}

// ChunkPointId derives a stable vector id from the document and the chunk's
// ordinal. Re-ingesting the same document overwrites its old points instead
// of appending duplicates.
func ChunkPointId(documentId string, ordinal int) string {
	return uuid.NewSHA1(namespaceSeed, []byte(fmt.Sprintf("%s:%d", documentId, ordinal))).String()
}
