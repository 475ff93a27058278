package issuance

import (
	"github.com/shopspring/decimal"
)

type SnapshotKind string

const (
	SnapshotKindMint   SnapshotKind = "mint"
	SnapshotKindBurn   SnapshotKind = "burn"
	SnapshotKindAttach SnapshotKind = "attach"
	SnapshotKindRefund SnapshotKind = "refund"
	SnapshotKindSettle SnapshotKind = "settle"
)

// Snapshot is one journal line of the bank. Amount is signed from the point of view
// of Address.
type Snapshot struct {
	SnapshotId string          `json:"snapshotId"`
	TraceId    string          `json:"traceId"`
	Kind       SnapshotKind    `json:"kind"`
	Address    string          `json:"address"`
	Denom      string          `json:"denom"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  int64           `json:"createdAt"`
}
