package a

import "context"

type World interface {
	ListCreatures(ctx context.Context) ([]string, error)
}

type Identity interface {
	Resolve(ctx context.Context, shortID int) (string, error)
}

func bad(ctx context.Context, ids []int, w World, r Identity) {
	for _, id := range ids {
		w.ListCreatures(ctx) // want "full scan: ListCreatures called inside loop"
		r.Resolve(ctx, id)   // want "full scan: Resolve called inside loop"
	}
}

func badNested(ctx context.Context, groups [][]int, r Identity) {
	for _, ids := range groups {
		for _, id := range ids {
			r.Resolve(ctx, id) // want "full scan: Resolve called inside loop"
		}
	}
}

func good(ctx context.Context, w World) {
	creatures, _ := w.ListCreatures(ctx)
	for _, c := range creatures {
		_ = len(c)
	}
}
