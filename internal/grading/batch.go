package grading

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Submission is one entry of a batch.
type Submission struct {
	UserID      string
	ChallengeID string
	// Source names where Raw came from, for reporting.
	Source string
	Raw    []byte
}

// BatchItem pairs a submission with what grading it produced.
type BatchItem struct {
	Source string
	Result Result
	Err    error
}

// SubmitBatch grades subs concurrently, at most the configured number at a
// time. Submissions for the same learner and challenge are serialized by
// the session tracker, in no particular order. A failing submission does
// not stop the others; the returned error is only the context's.
func (s *Service) SubmitBatch(ctx context.Context, subs []Submission) ([]BatchItem, error) {
	items := make([]BatchItem, len(subs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, sub := range subs {
		items[i].Source = sub.Source
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return err
			}
			res, err := s.Submit(gctx, sub.UserID, sub.ChallengeID, sub.Raw)
			items[i].Result, items[i].Err = res, err
			if err != nil {
				s.logger.Warn("batch submission failed", zap.String("source", sub.Source), zap.Error(err))
			}
			return nil
		})
	}
	err := g.Wait()
	return items, err
}
