package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/xavierca1/lynkupro-api/internal/entity"
	"golang.org/x/sync/errgroup"
)

const bulkConcurrency = 8

// BulkResult reports every id of a bulk operation. Every id is attempted;
// nothing is rolled back when some of them fail.
type BulkResult struct {
	Succeeded []string
	Failed    map[string]error
}

// Err joins the per-id failures, or returns nil when all succeeded.
func (r BulkResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	ids := make([]string, 0, len(r.Failed))
	for id := range r.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	errs := make([]error, 0, len(ids))
	for _, id := range ids {
		errs = append(errs, fmt.Errorf("lead %s: %w", id, r.Failed[id]))
	}
	return errors.Join(errs...)
}

func (c *LeadClient) BulkUpdateStatus(ctx context.Context, ids []string, status entity.Status) BulkResult {
	return runBulk(ctx, ids, func(ctx context.Context, id string) error {
		_, err := c.UpdateStatus(ctx, id, status)
		return err
	})
}

func (c *LeadClient) BulkAssign(ctx context.Context, ids []string, userID *string) BulkResult {
	return runBulk(ctx, ids, func(ctx context.Context, id string) error {
		_, err := c.Assign(ctx, id, userID)
		return err
	})
}

func (c *LeadClient) BulkDelete(ctx context.Context, ids []string) BulkResult {
	return runBulk(ctx, ids, c.Delete)
}

func runBulk(ctx context.Context, ids []string, op func(context.Context, string) error) BulkResult {
	ids = uniqueIDs(ids)
	errs := make([]error, len(ids))

	g := new(errgroup.Group)
	g.SetLimit(bulkConcurrency)
	var mu sync.Mutex
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			err := op(ctx, id)
			mu.Lock()
			errs[i] = err
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	res := BulkResult{Succeeded: []string{}, Failed: map[string]error{}}
	for i, id := range ids {
		if errs[i] != nil {
			res.Failed[id] = errs[i]
		} else {
			res.Succeeded = append(res.Succeeded, id)
		}
	}
	return res
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
