package generation

import (
	"context"
)

//go:generate mockgen -source=generator.go -destination=../mocks/mock_generator.go -package=mocks

// Generator produces a text completion for a system instruction and user text.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}
