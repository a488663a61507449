// Package state tracks which discovery topics have already been published, so applications that only want to announce
// a device once (instead of on every startup) can skip re-publishing.
package state

import "sync"

// Store records discovery topics that have been published. Implementations must be safe for concurrent use.
type Store interface {
	// Published reports whether a document was previously published to the given topic.
	Published(topic string) (bool, error)

	// MarkPublished records that a document was published to the given topic.
	MarkPublished(topic string) error

	// Forget removes the record for the given topic, if any.
	Forget(topic string) error

	// Clear removes all records.
	Clear() error
}

// MemoryStore is an in-process Store. It is useful for tests and for applications that only need to de-duplicate
// within a single run. The zero value is ready to use.
type MemoryStore struct {
	mu     sync.Mutex
	topics map[string]struct{}
}

var _ Store = &MemoryStore{}

func (s *MemoryStore) Published(topic string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.topics[topic]
	return ok, nil
}

func (s *MemoryStore) MarkPublished(topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.topics == nil {
		s.topics = map[string]struct{}{}
	}

	s.topics[topic] = struct{}{}
	return nil
}

func (s *MemoryStore) Forget(topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.topics, topic)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.topics = nil
	return nil
}
