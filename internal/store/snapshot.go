package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const SnapshotVersion = 1

var (
	// ErrNoSnapshot means nothing has been persisted yet. Callers start empty.
	ErrNoSnapshot         = errors.New("no snapshot stored")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

type Meta struct {
	Storage   string    `json:"storage"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

type PersistedTransaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
}

type PersistedAccount struct {
	ID                  string                 `json:"id"`
	OwnerName           string                 `json:"owner_name"`
	PIN                 string                 `json:"pin"`
	Balance             decimal.Decimal        `json:"balance"`
	Transactions        []PersistedTransaction `json:"transactions"`
	FailedLoginAttempts int                    `json:"failed_login_attempts"`
	LastFailedLogin     time.Time              `json:"last_failed_login"`
}

// Snapshot is the whole ledger as written to a backend in one piece.
type Snapshot struct {
	Meta     Meta               `json:"_meta"`
	Accounts []PersistedAccount `json:"accounts"`
}

func Encode(snap Snapshot, indent bool) ([]byte, error) {
	if snap.Meta.Version == 0 {
		snap.Meta.Version = SnapshotVersion
	}
	if indent {
		return json.MarshalIndent(snap, "", "  ")
	}
	return json.Marshal(snap)
}

func Decode(payload []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Meta.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Meta.Version)
	}
	return snap, nil
}

func stamp(snap Snapshot, storage string) Snapshot {
	snap.Meta.Storage = storage
	snap.Meta.Version = SnapshotVersion
	snap.Meta.Timestamp = time.Now().UTC()
	return snap
}
