package shredder

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/shredsafe/shredsafe/app/reddit"
)

const overwriteLength = 36

const overwriteChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Executor applies shred decisions against the Reddit API.
type Executor struct {
	client reddit.ClientInterface
}

func NewExecutor(client reddit.ClientInterface) *Executor {
	return &Executor{client: client}
}

// Execute applies a decision to one item and returns the outcome.
//
// Comments are overwritten with random text before deletion: Reddit may
// retain edit history during propagation, and the overwrite denies scrapers
// a recoverable original. Submissions have no editable body and are deleted
// directly. An item that is already gone (404) counts as skipped.
func (e *Executor) Execute(ctx context.Context, item reddit.Item, decision Decision) (Result, error) {
	result := Result{
		ItemID: item.Fullname,
		Body:   item.Body,
		Kind:   item.Kind,
		Status: StatusSkipped,
	}

	if decision != Delete {
		return result, nil
	}

	if item.Kind == reddit.KindComment {
		if err := e.client.EditComment(ctx, item.Fullname, randomBody()); err != nil {
			if reddit.IsNotFound(err) {
				return result, nil
			}
			return result, fmt.Errorf("failed to overwrite comment %s: %w", item.Fullname, err)
		}
	}

	if err := e.client.Delete(ctx, item.Fullname); err != nil {
		if reddit.IsNotFound(err) {
			return result, nil
		}
		return result, fmt.Errorf("failed to delete %s %s: %w", item.Kind, item.Fullname, err)
	}

	result.Status = StatusDeleted
	return result, nil
}

func randomBody() string {
	b := make([]byte, overwriteLength)
	for i := range b {
		b[i] = overwriteChars[rand.Intn(len(overwriteChars))]
	}
	return string(b)
}
