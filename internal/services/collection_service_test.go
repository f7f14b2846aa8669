package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Weekend Reads", "weekend-reads"},
		{"underscores", "go_tips_and_tricks", "go-tips-and-tricks"},
		{"punctuation", "C++ & Rust: systems!", "c-rust-systems"},
		{"leading trailing", "  --Hello--  ", "hello"},
		{"empty", "", "collection"},
		{"only symbols", "!!!", "collection"},
		{"unicode collapsed", "café picks", "caf-picks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestIsCollectionVisible(t *testing.T) {
	assert.True(t, IsCollectionVisible("public", "alice", ""))
	assert.True(t, IsCollectionVisible("public", "alice", "bob"))
	assert.True(t, IsCollectionVisible("private", "alice", "alice"))
	assert.False(t, IsCollectionVisible("private", "alice", "bob"))
	assert.False(t, IsCollectionVisible("private", "alice", ""))
}
