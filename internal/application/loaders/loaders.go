package loaders

import (
	"context"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/zatekoja/hauntedbnb/internal/domain/entities"
)

// batchWait is how long the loader collects keys before dispatching.
const batchWait = 2 * time.Millisecond

// UserFetcher fetches a single user by id
type UserFetcher interface {
	GetUser(ctx context.Context, sess entities.Session, userID string) (*entities.User, error)
}

// Loaders contains the per-request dataloaders. They cache for their own
// lifetime only, so a new set is built for every page render.
type Loaders struct {
	UserLoader *dataloader.Loader[string, *entities.User]
}

// NewLoaders creates a new instance of Loaders acting on behalf of sess
func NewLoaders(users UserFetcher, sess entities.Session) *Loaders {
	return &Loaders{
		UserLoader: dataloader.NewBatchedLoader(
			userBatchFn(users, sess),
			dataloader.WithWait[string, *entities.User](batchWait),
		),
	}
}

// userBatchFn fans out one GET /users/{id} per distinct key. The API has
// no bulk lookup, and each key's result is independent of the others.
func userBatchFn(users UserFetcher, sess entities.Session) dataloader.BatchFunc[string, *entities.User] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[*entities.User] {
		results := make([]*dataloader.Result[*entities.User], len(keys))

		var wg sync.WaitGroup
		for i, key := range keys {
			wg.Go(func() {
				user, err := users.GetUser(ctx, sess, key)
				results[i] = &dataloader.Result[*entities.User]{Data: user, Error: err}
			})
		}
		wg.Wait()

		return results
	}
}

// ResolveUsers loads every id concurrently and returns the users that
// resolved alongside the per-id errors of those that did not.
func (l *Loaders) ResolveUsers(ctx context.Context, userIDs []string) (map[string]*entities.User, map[string]error) {
	thunks := make(map[string]dataloader.Thunk[*entities.User], len(userIDs))
	for _, id := range userIDs {
		if _, ok := thunks[id]; ok {
			continue
		}
		thunks[id] = l.UserLoader.Load(ctx, id)
	}

	users := make(map[string]*entities.User, len(thunks))
	failures := make(map[string]error)
	for id, thunk := range thunks {
		user, err := thunk()
		if err != nil {
			failures[id] = err
			continue
		}
		users[id] = user
	}
	return users, failures
}
