package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/thrasher-corp/perpbacktester/common"
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/log"
	"github.com/thrasher-corp/perpbacktester/report"
	"golang.org/x/sync/errgroup"
)

var (
	errRunNotFound         = errors.New("run not found")
	errRunAlreadyMonitored = errors.New("run already monitored")
	errRunHasNotRan        = errors.New("run hasn't ran yet")
)

// SetupRunManager creates a run manager to allow many engines to be run and
// compared
func SetupRunManager() *RunManager {
	return &RunManager{}
}

// AddRun adds an engine to the manager
func (r *RunManager) AddRun(e *Engine) error {
	if r == nil {
		return fmt.Errorf("%w RunManager", common.ErrNilPointer)
	}
	if e == nil {
		return fmt.Errorf("%w Engine", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.runs {
		if r.runs[i].engine.id == e.id {
			return fmt.Errorf("%w %s %s", errRunAlreadyMonitored, e.id, e.strategy.Name())
		}
	}
	r.runs = append(r.runs, &run{engine: e, leverage: e.cfg.Leverage(), status: StatusPending})
	return nil
}

// List details all runs in the order they were added
func (r *RunManager) List() ([]RunSummary, error) {
	if r == nil {
		return nil, fmt.Errorf("%w RunManager", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	resp := make([]RunSummary, len(r.runs))
	for i := range r.runs {
		resp[i] = r.runs[i].summary()
	}
	return resp, nil
}

// GetSummary returns details about a run
func (r *RunManager) GetSummary(id uuid.UUID) (*RunSummary, error) {
	if r == nil {
		return nil, fmt.Errorf("%w RunManager", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.runs {
		if r.runs[i].engine.id != id {
			continue
		}
		sum := r.runs[i].summary()
		return &sum, nil
	}
	return nil, fmt.Errorf("%s %w", id, errRunNotFound)
}

// GetReport returns the report of a completed run
func (r *RunManager) GetReport(id uuid.UUID) (*report.Report, error) {
	if r == nil {
		return nil, fmt.Errorf("%w RunManager", common.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.runs {
		if r.runs[i].engine.id != id {
			continue
		}
		if r.runs[i].report == nil {
			return nil, fmt.Errorf("%s %w", id, errRunHasNotRan)
		}
		return r.runs[i].report, nil
	}
	return nil, fmt.Errorf("%s %w", id, errRunNotFound)
}

// RunAll executes every pending run against the same candles with at most
// limit runs in flight. A failed run does not stop the others, every failure
// is returned joined together
func (r *RunManager) RunAll(ctx context.Context, candles []kline.Candle, limit int) error {
	if r == nil {
		return fmt.Errorf("%w RunManager", common.ErrNilPointer)
	}
	r.m.Lock()
	var pending []*run
	for i := range r.runs {
		if r.runs[i].status == StatusPending {
			r.runs[i].status = StatusRunning
			pending = append(pending, r.runs[i])
		}
	}
	r.m.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	errs := make([]error, len(pending))
	for i := range pending {
		i := i
		g.Go(func() error {
			started := time.Now()
			rep, err := pending[i].engine.Run(ctx, candles)
			r.m.Lock()
			defer r.m.Unlock()
			pending[i].started = started
			pending[i].finished = time.Now()
			pending[i].report = rep
			pending[i].err = err
			if err != nil {
				pending[i].status = StatusFailed
				errs[i] = fmt.Errorf("run %v: %w", pending[i].engine.id, err)
				log.Errorf(log.BackTester, "Run %v failed: %v", pending[i].engine.id, err)
				return nil
			}
			pending[i].status = StatusComplete
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func (r *run) summary() RunSummary {
	sum := RunSummary{
		ID:       r.engine.id,
		Strategy: r.engine.strategy.Name(),
		Leverage: r.leverage,
		Status:   r.status,
	}
	if !r.finished.IsZero() {
		sum.Duration = r.finished.Sub(r.started)
	}
	if r.err != nil {
		sum.Error = r.err.Error()
	}
	return sum
}
