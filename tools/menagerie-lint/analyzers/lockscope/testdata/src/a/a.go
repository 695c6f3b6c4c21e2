package a

import "context"

type Guard interface {
	TryLock(ctx context.Context, ref string) (bool, error)
	Unlock(ctx context.Context, ref string) error
}

func bad(ctx context.Context, g Guard) {
	ok, _ := g.TryLock(ctx, "a") // want "TryLock without deferred Unlock - use WithLock"
	if ok {
		g.Unlock(ctx, "a")
	}
}

func good(ctx context.Context, g Guard) error {
	ok, err := g.TryLock(ctx, "a")
	if err != nil || !ok {
		return err
	}
	defer g.Unlock(ctx, "a")
	return nil
}

func goodClosure(ctx context.Context, g Guard) (err error) {
	if _, err := g.TryLock(ctx, "a"); err != nil {
		return err
	}
	defer func() {
		_ = g.Unlock(context.WithoutCancel(ctx), "a")
	}()
	return nil
}

func badInClosure(ctx context.Context, g Guard) {
	defer g.Unlock(ctx, "b")
	run := func() {
		g.TryLock(ctx, "a") // want "TryLock without deferred Unlock - use WithLock"
	}
	run()
}
