//go:generate mockgen -destination=mock_secretstore.go -package=secretstore snowloader/internal/secretstore Runner

package secretstore

import "context"

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
