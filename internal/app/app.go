package app

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/cometbft/cometbft/libs/log"

	"github.com/gangov/vrf-poker-activity/internal/codec"
	"github.com/gangov/vrf-poker-activity/internal/state"
)

const (
	AppVersion uint64 = 1
)

// DrawApp is an ABCI application that audits published round transcripts
// and keeps a ledger of verdicts. The ledger is not persisted.
type DrawApp struct {
	*abci.BaseApplication

	mu       sync.Mutex
	st       *state.State
	lastHash []byte

	logger  log.Logger
	metrics *Metrics
}

type Option func(*DrawApp)

func WithLogger(l log.Logger) Option {
	return func(a *DrawApp) { a.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(a *DrawApp) { a.metrics = m }
}

func New(opts ...Option) *DrawApp {
	st := state.NewState()
	a := &DrawApp{
		BaseApplication: abci.NewBaseApplication(),
		st:              st,
		lastHash:        st.AppHash(),
		logger:          log.NewNopLogger(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.metrics == nil {
		a.metrics = NewMetrics(nil)
	}
	return a
}

func (a *DrawApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &abci.InfoResponse{
		Data:             "drawd",
		Version:          "v1",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.st.Height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

func (a *DrawApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	env, err := codec.DecodeTxEnvelope(req.Tx)
	if err != nil {
		return &abci.CheckTxResponse{Code: 1, Log: err.Error()}, nil
	}
	switch env.Type {
	case codec.TxRoundSubmit:
		msg, err := codec.DecodeRoundSubmit(env)
		if err != nil {
			return &abci.CheckTxResponse{Code: 1, Log: err.Error()}, nil
		}
		a.mu.Lock()
		_, dup := a.st.Round(msg.Transcript.RoundID)
		a.mu.Unlock()
		if dup {
			return &abci.CheckTxResponse{Code: 1, Log: "round already recorded"}, nil
		}
	default:
		return &abci.CheckTxResponse{Code: 1, Log: "unknown tx type: " + env.Type}, nil
	}
	// The audit itself runs in FinalizeBlock.
	return &abci.CheckTxResponse{Code: 0}, nil
}

func (a *DrawApp) InitChain(_ context.Context, _ *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	return &abci.InitChainResponse{}, nil
}

func (a *DrawApp) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.Height = req.Height

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		res := a.deliverTxAtomic(txBytes, req.Height)
		txResults = append(txResults, res)
	}

	a.lastHash = a.st.AppHash()

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *DrawApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	return &abci.CommitResponse{}, nil
}

func (a *DrawApp) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Paths:
	// - /rounds
	// - /round/<id>
	// - /stats
	path := strings.TrimSpace(req.Path)
	switch {
	case path == "/rounds":
		b, _ := json.Marshal(a.st.RoundIDs())
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	case path == "/stats":
		b, _ := json.Marshal(a.st.Stats)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	case strings.HasPrefix(path, "/round/"):
		id := strings.TrimPrefix(path, "/round/")
		rec, ok := a.st.Round(id)
		if !ok {
			return &abci.QueryResponse{Code: 1, Log: "round not found", Height: a.st.Height}, nil
		}
		b, _ := json.Marshal(rec)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.st.Height}, nil
	default:
		return &abci.QueryResponse{Code: 1, Log: "unknown query path", Height: a.st.Height}, nil
	}
}

// deliverTxAtomic runs a tx against a clone of the state and keeps the
// clone only if the tx succeeded.
func (a *DrawApp) deliverTxAtomic(txBytes []byte, height int64) *abci.ExecTxResult {
	staged, err := a.st.Clone()
	if err != nil {
		return &abci.ExecTxResult{Code: 1, Log: err.Error()}
	}
	orig := a.st
	a.st = staged
	res := a.deliverTx(txBytes, height)
	if res.Code != 0 {
		a.st = orig
	}
	return res
}

func (a *DrawApp) deliverTx(txBytes []byte, height int64) *abci.ExecTxResult {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return &abci.ExecTxResult{Code: 1, Log: err.Error()}
	}

	switch env.Type {
	case codec.TxRoundSubmit:
		msg, err := codec.DecodeRoundSubmit(env)
		if err != nil {
			return &abci.ExecTxResult{Code: 1, Log: err.Error()}
		}
		return a.submitRound(msg, env.Value, height)

	default:
		return &abci.ExecTxResult{Code: 1, Log: "unknown tx type: " + env.Type}
	}
}

func okEvent(typ string, attrs map[string]string) *abci.ExecTxResult {
	ev := abci.Event{Type: typ}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev.Attributes = append(ev.Attributes, abci.EventAttribute{Key: k, Value: attrs[k], Index: true})
	}
	return &abci.ExecTxResult{
		Code:   0,
		Events: []abci.Event{ev},
	}
}
