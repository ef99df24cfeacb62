package service

import (
	"context"

	"github.com/Ortiz25/sms-api/internal/models"
	appErrors "github.com/Ortiz25/sms-api/pkg/errors"
)

// AllocationEdit is the shared edit payload for hostel and transport
// allocations. The kind tag is the only dispatch signal; carrying fields of
// both shapes is a validation error, not a guessing game.
type AllocationEdit struct {
	Kind      models.AllocationKind     `json:"kind"`
	Hostel    *HostelAllocationInput    `json:"hostel,omitempty"`
	Transport *TransportAllocationInput `json:"transport,omitempty"`
}

// AllocationResult wraps whichever allocation family an edit produced.
type AllocationResult struct {
	Kind      models.AllocationKind       `json:"kind"`
	Hostel    *models.HostelAllocation    `json:"hostel,omitempty"`
	Transport *models.TransportAllocation `json:"transport,omitempty"`
}

// AllocationService routes allocation edits to the hostel or transport
// service based on the explicit kind tag.
type AllocationService struct {
	hostel    *HostelService
	transport *TransportService
}

// NewAllocationService constructs an AllocationService.
func NewAllocationService(hostel *HostelService, transport *TransportService) *AllocationService {
	return &AllocationService{hostel: hostel, transport: transport}
}

// Update dispatches an allocation edit on the kind tag.
func (s *AllocationService) Update(ctx context.Context, id string, edit AllocationEdit) (*AllocationResult, error) {
	if err := validateEdit(edit); err != nil {
		return nil, err
	}

	switch edit.Kind {
	case models.AllocationKindHostel:
		allocation, err := s.hostel.UpdateAllocation(ctx, id, *edit.Hostel)
		if err != nil {
			return nil, err
		}
		return &AllocationResult{Kind: edit.Kind, Hostel: allocation}, nil
	case models.AllocationKindTransport:
		allocation, err := s.transport.UpdateAllocation(ctx, id, *edit.Transport)
		if err != nil {
			return nil, err
		}
		return &AllocationResult{Kind: edit.Kind, Transport: allocation}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "kind must be hostel-allocation or transport-allocation")
	}
}

// Create dispatches an allocation creation on the kind tag.
func (s *AllocationService) Create(ctx context.Context, edit AllocationEdit) (*AllocationResult, error) {
	if err := validateEdit(edit); err != nil {
		return nil, err
	}

	switch edit.Kind {
	case models.AllocationKindHostel:
		allocation, err := s.hostel.CreateAllocation(ctx, *edit.Hostel)
		if err != nil {
			return nil, err
		}
		return &AllocationResult{Kind: edit.Kind, Hostel: allocation}, nil
	case models.AllocationKindTransport:
		allocation, err := s.transport.CreateAllocation(ctx, *edit.Transport)
		if err != nil {
			return nil, err
		}
		return &AllocationResult{Kind: edit.Kind, Transport: allocation}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "kind must be hostel-allocation or transport-allocation")
	}
}

func validateEdit(edit AllocationEdit) error {
	if edit.Hostel != nil && edit.Transport != nil {
		return appErrors.Clone(appErrors.ErrValidation, "payload carries both hostel and transport shapes")
	}

	switch edit.Kind {
	case models.AllocationKindHostel:
		if edit.Hostel == nil {
			return appErrors.Clone(appErrors.ErrValidation, "hostel payload is required for kind hostel-allocation")
		}
	case models.AllocationKindTransport:
		if edit.Transport == nil {
			return appErrors.Clone(appErrors.ErrValidation, "transport payload is required for kind transport-allocation")
		}
	}
	return nil
}
