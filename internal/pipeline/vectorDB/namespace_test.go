package vectorDB

import (
	"strings"
	"testing"
)

func TestResolveNamespace(t *testing.T) {
	first := ResolveNamespace("user-1", "topic-1")
	second := ResolveNamespace("user-1", "topic-1")
	if first != second {
		t.Errorf("same pair produced different namespaces: %q vs %q", first, second)
	}
	if !strings.HasPrefix(first, "kb_") {
		t.Errorf("namespace %q missing kb_ prefix", first)
	}
	if strings.Contains(first, "-") {
		t.Errorf("namespace %q contains dashes", first)
	}

	tests := []struct {
		name           string
		userA, topicA  string
		userB, topicB  string
	}{
		{"Different_Topic", "user-1", "topic-1", "user-1", "topic-2"},
		{"Different_User", "user-1", "topic-1", "user-2", "topic-1"},
		{"Swapped_Ids", "alpha", "beta", "beta", "alpha"},
		{"Concat_Ambiguity", "ab", "c", "a", "bc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ResolveNamespace(tt.userA, tt.topicA)
			b := ResolveNamespace(tt.userB, tt.topicB)
			if a == b {
				t.Errorf("(%q,%q) and (%q,%q) collided on %q", tt.userA, tt.topicA, tt.userB, tt.topicB, a)
			}
		})
	}
}

func TestChunkPointId(t *testing.T) {
	if ChunkPointId("doc-1", 0) != ChunkPointId("doc-1", 0) {
		t.Error("same document and ordinal produced different point ids")
	}
	if ChunkPointId("doc-1", 0) == ChunkPointId("doc-1", 1) {
		t.Error("ordinals 0 and 1 collided")
	}
	if ChunkPointId("doc-1", 0) == ChunkPointId("doc-2", 0) {
		t.Error("different documents collided on ordinal 0")
	}
}
