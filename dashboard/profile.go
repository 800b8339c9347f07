package dashboard

import (
	"context"
	"sync"

	"github.com/amonks/guidex/internal/telemetry"
	"github.com/amonks/guidex/profile"
	"github.com/amonks/guidex/store"
	"go.uber.org/zap"
)

// ensureProfile returns the owner's profile, creating the default one on
// first access.
func (b *Board) ensureProfile(ctx context.Context) (profile.Profile, error) {
	existing, found, err := b.store.Profiles().Get(ctx, b.owner, b.owner)
	if err != nil {
		return profile.Profile{}, err
	}
	if found {
		return existing, nil
	}
	created := profile.Default(b.owner, b.email, b.now())
	if err := b.store.Profiles().Upsert(ctx, b.owner, created); err != nil {
		telemetry.StoreErrors.WithLabelValues(string(store.KindProfiles), "upsert").Inc()
		return profile.Profile{}, err
	}
	b.logger.Info("profile_created", zap.String("owner", b.owner))
	return created, nil
}

// EnsureTask is a running profile-ensure. Cancel stops it; Wait returns
// its result.
type EnsureTask struct {
	cancel context.CancelFunc
	done   chan struct{}

	once    sync.Once
	profile profile.Profile
	err     error
}

// EnsureProfile makes sure the owner's profile exists without blocking the
// caller. A failure is logged and reported by Wait, and never changes the
// board's loaded data.
func (b *Board) EnsureProfile(ctx context.Context) *EnsureTask {
	ctx, cancel := context.WithCancel(ctx)
	task := &EnsureTask{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(task.done)
		defer cancel()
		prof, err := b.ensureProfile(ctx)
		if err != nil {
			b.logger.Warn("profile_ensure_failed", zap.String("owner", b.owner), zap.Error(err))
			task.err = err
			return
		}
		b.mu.Lock()
		b.profile = prof
		b.mu.Unlock()
		task.profile = prof
	}()
	return task
}

// Cancel stops the task. It is safe to call more than once.
func (t *EnsureTask) Cancel() {
	t.once.Do(t.cancel)
}

// Done is closed when the task finishes.
func (t *EnsureTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes.
func (t *EnsureTask) Wait() (profile.Profile, error) {
	<-t.done
	return t.profile, t.err
}
