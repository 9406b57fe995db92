package memory

import (
	"context"
	"sync"
	"time"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage/staging"
)

type StagedRecord struct {
	Payload   []byte
	Processed *time.Time
}

type Staging struct {
	mu           sync.Mutex
	Transactions map[string]StagedRecord
	Entities     map[string]map[string]StagedRecord
}

var _ staging.IStagingWriter = (*Staging)(nil)

func NewStaging() *Staging {
	return &Staging{
		Transactions: map[string]StagedRecord{},
		Entities:     map[string]map[string]StagedRecord{},
	}
}

func (s *Staging) UpsertTransactions(_ context.Context, envelopes []staging.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range envelopes {
		s.Transactions[e.ID] = StagedRecord{Payload: append([]byte(nil), e.Payload...)}
	}
	return nil
}

func (s *Staging) UpsertEntities(_ context.Context, kind string, envelopes []staging.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Entities[kind] == nil {
		s.Entities[kind] = map[string]StagedRecord{}
	}
	for _, e := range envelopes {
		s.Entities[kind][e.ID] = StagedRecord{Payload: append([]byte(nil), e.Payload...)}
	}
	return nil
}

func (s *Staging) MarkProcessed(_ context.Context, ids []string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if rec, ok := s.Transactions[id]; ok {
			processed := at
			rec.Processed = &processed
			s.Transactions[id] = rec
		}
	}
	return nil
}

func (s *Staging) snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	transactions := make(map[string]StagedRecord, len(s.Transactions))
	for k, v := range s.Transactions {
		transactions[k] = v
	}
	entities := make(map[string]map[string]StagedRecord, len(s.Entities))
	for kind, recs := range s.Entities {
		entities[kind] = make(map[string]StagedRecord, len(recs))
		for k, v := range recs {
			entities[kind][k] = v
		}
	}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.Transactions = transactions
		s.Entities = entities
	}
}
