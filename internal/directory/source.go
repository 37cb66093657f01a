package directory

import (
	"context"
	"sync"
)

// Source provides the directory entries.
type Source interface {
	All(ctx context.Context) ([]Lawyer, error)
	Get(ctx context.Context, id string) (*Lawyer, error)
}

// StaticSource serves a fixed list held in memory.
type StaticSource struct {
	mu      sync.RWMutex
	lawyers []Lawyer
}

// NewStaticSource copies lawyers into a new source.
func NewStaticSource(lawyers []Lawyer) *StaticSource {
	return &StaticSource{lawyers: cloneLawyers(lawyers)}
}

// NewSampleSource serves the built-in sample directory.
func NewSampleSource() *StaticSource {
	return NewStaticSource(SampleLawyers())
}

func (s *StaticSource) All(ctx context.Context) ([]Lawyer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneLawyers(s.lawyers), nil
}

func (s *StaticSource) Get(ctx context.Context, id string) (*Lawyer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lawyers {
		if l.ID == id {
			found := l
			found.Specialties = append([]string(nil), l.Specialties...)
			return &found, nil
		}
	}
	return nil, ErrLawyerNotFound
}

func cloneLawyers(in []Lawyer) []Lawyer {
	out := make([]Lawyer, len(in))
	for i, l := range in {
		out[i] = l
		out[i].Specialties = append([]string(nil), l.Specialties...)
	}
	return out
}
