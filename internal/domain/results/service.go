package results

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/claritynlp/cqldecode/internal/fhir"
)

// Service decodes CQL engine output and manages persisted decoded results.
type Service struct {
	repo Repository
	dec  *fhir.Decoder
}

func NewService(repo Repository, dec *fhir.Decoder) *Service {
	return &Service{repo: repo, dec: dec}
}

// Decode decodes either a CQL result envelope (resultType present) or a
// bare FHIR resource. The returned source name is empty for bare resources.
// Unrecognized result types and resource types yield an empty slice, not an
// error.
func (s *Service) Decode(obj map[string]interface{}) (string, []fhir.Record, error) {
	if _, ok := obj["resultType"]; ok {
		top, err := s.dec.DecodeTopLevel(obj)
		if err != nil {
			return "", nil, fmt.Errorf("decode envelope: %w", err)
		}
		if top == nil {
			return "", nil, nil
		}
		if top.Patient != nil {
			return top.Name, []fhir.Record{top.Patient}, nil
		}
		return top.Name, top.Bundle, nil
	}

	rec, err := s.dec.DecodeResource(obj)
	if err != nil {
		return "", nil, fmt.Errorf("decode resource: %w", err)
	}
	if rec == nil {
		return "", nil, nil
	}
	return "", []fhir.Record{rec}, nil
}

// DecodeAndStore decodes the input and persists every decoded record,
// preserving input order.
func (s *Service) DecodeAndStore(ctx context.Context, obj map[string]interface{}) ([]*DecodedResult, error) {
	name, records, err := s.Decode(obj)
	if err != nil {
		return nil, err
	}

	stored := make([]*DecodedResult, 0, len(records))
	for _, rec := range records {
		res := NewDecodedResult(name, rec)
		if err := s.repo.Create(ctx, res); err != nil {
			return nil, fmt.Errorf("store decoded result: %w", err)
		}
		stored = append(stored, res)
	}
	return stored, nil
}

func (s *Service) GetResult(ctx context.Context, id uuid.UUID) (*DecodedResult, error) {
	return s.repo.GetByID(ctx, id)
}

// ListResults returns decoded results in chronological order of their
// canonical primary timestamp.
func (s *Service) ListResults(ctx context.Context, filter ListFilter) ([]*DecodedResult, int, error) {
	return s.repo.List(ctx, filter)
}
