package reports

import "context"

type Repository interface {
	Create(ctx context.Context, r Report) error
}
