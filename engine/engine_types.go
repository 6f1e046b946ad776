package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/thrasher-corp/perpbacktester/broker"
	"github.com/thrasher-corp/perpbacktester/config"
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/ledger"
	"github.com/thrasher-corp/perpbacktester/position"
	"github.com/thrasher-corp/perpbacktester/report"
	"github.com/thrasher-corp/perpbacktester/strategies"
)

var (
	// ErrInvalidQuantity is returned when an order quantity is not usable
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrNoOpenPosition is returned when closing a side with nothing open
	ErrNoOpenPosition = errors.New("no open position")
	// ErrZeroStartingCash is returned when a run is started without funds
	ErrZeroStartingCash = errors.New("starting cash must be greater than zero")
	// ErrAlreadyRan is returned when an engine is run a second time
	ErrAlreadyRan = errors.New("engine has already ran")

	errNotInCallback = errors.New("orders can only be placed while a strategy is handling a candle")
	errStrategyError = errors.New("strategy returned an error")
)

// contextCheckInterval is how many candles are processed between checks for
// cancellation
const contextCheckInterval = 1024

// Engine replays candles through a strategy while simulating one long and
// one short position against a single cash balance. An Engine runs once
type Engine struct {
	id       uuid.UUID
	strategy strategies.Handler
	cfg      *config.Config
	broker   *broker.Broker
	ledger   *ledger.Ledger
	stream   *kline.Stream

	positions map[position.Side]*position.Position

	inCallback bool
	hasRan     bool
	processed  int64
	skipped    int64
}

// RunManager tracks engines so many runs can be executed and summarised
// together
type RunManager struct {
	m    sync.Mutex
	runs []*run
}

type run struct {
	engine   *Engine
	leverage int64
	status   string
	started  time.Time
	finished time.Time
	report   *report.Report
	err      error
}

// RunSummary is a read-only view of a managed run
type RunSummary struct {
	ID       uuid.UUID     `json:"id"`
	Strategy string        `json:"strategy"`
	Leverage int64         `json:"leverage"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Run statuses
const (
	StatusPending  = "pending"
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)
