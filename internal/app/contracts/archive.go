package contracts

import "context"

// CallbackArchiveService stores raw gateway callback payloads for audit and
// dispute handling. Archive failures are logged and never block settlement.
type CallbackArchiveService interface {
	ArchiveCallback(ctx context.Context, gateway string, payload []byte) (string, error)
}
