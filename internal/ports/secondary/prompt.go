package secondary

import "context"

// Prompter asks the operator yes/no questions.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}
