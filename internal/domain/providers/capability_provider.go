package providers

import "context"

// CapabilityProvider answers whether a caller may edit a physician profile.
// Profile management itself lives in the host platform; this service only
// consumes the capability check.
type CapabilityProvider interface {
	CanEdit(ctx context.Context, userID, physicianID string) (bool, error)
}
