package telegram

import (
	"context"
	"errors"
	"iter"
)

var (
	ErrGroupNotFound   = errors.New("group export not found")
	ErrSessionNotFound = errors.New("session not found")
)

// Message is a single chat message. An empty Text means the message carries
// no text (media, service entries).
type Message struct {
	ID   int64
	Text string
	Date string
}

// Source yields the messages of a group. The returned sequence is lazy and can
// be ranged over more than once; each iteration starts from the beginning.
type Source interface {
	Messages(ctx context.Context, groupID int64) iter.Seq2[Message, error]
	Close() error
}
