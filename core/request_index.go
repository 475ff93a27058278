package core

import (
	"context"
	"encoding/json"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
)

type Ledger string

const (
	LedgerMint Ledger = "mint"
	LedgerBurn Ledger = "burn"
)

type (
	// RequestRecord is the stored form of a ledger entry. Hash is the primary key,
	// Nonce the ordered secondary key.
	RequestRecord struct {
		Ledger    Ledger `json:"ledger"`
		Nonce     uint64 `json:"nonce"`
		Hash      string `json:"hash"`
		Status    string `json:"status"`
		Data      []byte `json:"data"`
		CreatedAt int64  `json:"createdAt"`
		UpdatedAt int64  `json:"updatedAt"`
	}

	Request interface {
		GetNonce() uint64
		StatusString() string
		// Hash digests the immutable fields only.
		Hash() (string, error)
	}

	RequestEntry[T Request] struct {
		RequestHash string `json:"requestHash"`
		Request     T      `json:"request"`
	}

	// RequestIndex is a dual-indexed, append-only ledger of requests of one kind.
	RequestIndex[T Request] struct {
		ledger  Ledger
		newFunc func() T
	}
)

func NewRequestIndex[T Request](ledger Ledger, newFunc func() T) *RequestIndex[T] {
	return &RequestIndex[T]{ledger: ledger, newFunc: newFunc}
}

func (ri *RequestIndex[T]) Ledger() Ledger {
	return ri.ledger
}

// NextNonce reserves the next nonce. A nonce is never handed out twice; gaps are fine.
func (ri *RequestIndex[T]) NextNonce(ctx context.Context, store RequestStore) (uint64, error) {
	return store.IncrNonce(ctx, ri.ledger)
}

func (ri *RequestIndex[T]) Insert(ctx context.Context, clk clock.Clock, store RequestStore, req T) (uint64, string, error) {
	hash, err := req.Hash()
	if err != nil {
		return 0, "", err
	}
	data, err := json.Marshal(req)
	if err != nil {
		return 0, "", errors.Wrapf(err, "encode %s request", ri.ledger)
	}
	now := clk.Now().Unix()
	record := &RequestRecord{
		Ledger:    ri.ledger,
		Nonce:     req.GetNonce(),
		Hash:      hash,
		Status:    req.StatusString(),
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateRequestRecord(ctx, record); err != nil {
		return 0, "", err
	}
	return record.Nonce, hash, nil
}

func (ri *RequestIndex[T]) GetByHash(ctx context.Context, store RequestStore, hash string) (T, error) {
	record, err := store.GetRequestRecordByHash(ctx, ri.ledger, hash)
	if err != nil {
		var zero T
		return zero, notFound(err, string(ri.ledger)+" request", hash)
	}
	return ri.decode(record)
}

func (ri *RequestIndex[T]) GetByNonce(ctx context.Context, store RequestStore, nonce uint64) (T, error) {
	record, err := store.GetRequestRecordByNonce(ctx, ri.ledger, nonce)
	if err != nil {
		var zero T
		return zero, notFound(err, string(ri.ledger)+" request nonce", nonce)
	}
	return ri.decode(record)
}

// List windows the raw nonce range (startAfterNonce, ...] to limit entries first, then
// drops entries whose status differs from status. An empty status keeps everything.
func (ri *RequestIndex[T]) List(ctx context.Context, store RequestStore, status string, startAfterNonce uint64, limit int) ([]RequestEntry[T], error) {
	records, err := store.ListRequestRecords(ctx, ri.ledger, startAfterNonce, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]RequestEntry[T], 0, len(records))
	for _, record := range records {
		if status != "" && record.Status != status {
			continue
		}
		req, err := ri.decode(record)
		if err != nil {
			return nil, err
		}
		entries = append(entries, RequestEntry[T]{RequestHash: record.Hash, Request: req})
	}
	return entries, nil
}

// Update overwrites the stored payload of the request under hash. Only mutable
// fields may differ; the hash is not recomputed.
func (ri *RequestIndex[T]) Update(ctx context.Context, clk clock.Clock, store RequestStore, hash string, req T) error {
	record, err := store.GetRequestRecordByHash(ctx, ri.ledger, hash)
	if err != nil {
		return notFound(err, string(ri.ledger)+" request", hash)
	}
	data, err := json.Marshal(req)
	if err != nil {
		return errors.Wrapf(err, "encode %s request", ri.ledger)
	}
	record.Status = req.StatusString()
	record.Data = data
	record.UpdatedAt = clk.Now().Unix()
	return store.UpdateRequestRecord(ctx, record)
}

func (ri *RequestIndex[T]) Length(ctx context.Context, store RequestStore) (uint64, error) {
	n, err := store.CountRequestRecords(ctx, ri.ledger)
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (ri *RequestIndex[T]) decode(record *RequestRecord) (T, error) {
	req := ri.newFunc()
	if err := json.Unmarshal(record.Data, req); err != nil {
		var zero T
		return zero, errors.Wrapf(err, "decode %s request %s", ri.ledger, record.Hash)
	}
	return req, nil
}
