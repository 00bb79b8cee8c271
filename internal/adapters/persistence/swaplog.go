// Package persistence is the local transaction log: one append-only record
// per successfully submitted swap. The log is informational; losing it never
// affects quoting or execution.
package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/glidewallet/swap-engine/internal/domain"
)

const (
	SwapsBucket = "swaps"

	DefaultDBPath = "./data/swaplog.db"
)

// StoredSwap is the serialized log record. Amounts are canonical decimal
// strings so records survive schema-free across versions.
type StoredSwap struct {
	SubmissionHash string `json:"submissionHash"`
	WalletID       string `json:"walletId"`
	QuoteID        string `json:"quoteId"`
	SellToken      string `json:"sellToken"`
	BuyToken       string `json:"buyToken"`
	SellAmount     string `json:"sellAmount"`
	MinBuyAmount   string `json:"minBuyAmount"`
	Source         string `json:"source"`
	Sponsored      bool   `json:"sponsored"`
	CreatedAt      int64  `json:"createdAt"`
}

type SwapLog struct {
	db     *boltdb.BoltDatabase
	dbPath string
}

func NewSwapLog(dbPath string) (*SwapLog, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	os.MkdirAll(filepath.Dir(dbPath), 0755)

	db := boltdb.NewBoltDatabase(dbPath)
	if db == nil {
		return nil, fmt.Errorf("failed to open database at %s", dbPath)
	}

	log.Info().Str("path", dbPath).Msg("[swapLog] opened database")

	return &SwapLog{
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *SwapLog) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Append records a submitted swap, keyed by submission hash.
func (s *SwapLog) Append(quote *domain.Quote, result *domain.ExecutionResult) error {
	stored := &StoredSwap{
		SubmissionHash: result.SubmissionHash,
		WalletID:       quote.WalletID,
		QuoteID:        quote.ID,
		SellToken:      quote.SellToken.Symbol,
		BuyToken:       quote.BuyToken.Symbol,
		SellAmount:     quote.SellAmount.String(),
		MinBuyAmount:   quote.MinBuyAmount.String(),
		Source:         string(quote.Source),
		Sponsored:      result.Sponsored,
		CreatedAt:      time.Now().Unix(),
	}

	data, err := sonic.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal swap record: %w", err)
	}

	return s.db.Set(SwapsBucket, []byte(result.SubmissionHash), data)
}

// AppendBatch writes multiple records in one transaction. Used by replay
// tooling, not the live execution path.
func (s *SwapLog) AppendBatch(records []*StoredSwap) error {
	if len(records) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	for _, rec := range records {
		data, err := sonic.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal swap record %s: %w", rec.SubmissionHash, err)
		}

		value := data
		op := &boltdb.WriteOperation{
			Bucket: []byte(SwapsBucket),
			Key:    []byte(rec.SubmissionHash),
			Value:  &value,
			Op:     boltdb.OpSet,
		}
		if err := batch.Add(op); err != nil {
			return fmt.Errorf("failed to add swap record %s to batch: %w", rec.SubmissionHash, err)
		}
	}

	if err := batch.Execute(); err != nil {
		log.Error().Err(err).Int("count", len(records)).Msg("[swapLog] FAILED to execute batch")
		return err
	}

	log.Info().Int("count", len(records)).Msg("[swapLog] saved record batch")
	return nil
}

// ListByWallet returns all records for a wallet, newest first.
func (s *SwapLog) ListByWallet(walletID string) ([]*StoredSwap, error) {
	data, err := s.db.List(SwapsBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list swap records: %w", err)
	}

	records := make([]*StoredSwap, 0)
	skipped := 0
	for hash, value := range data {
		var stored StoredSwap
		if err := sonic.Unmarshal(value, &stored); err != nil {
			log.Warn().Str("hash", hash).Err(err).Msg("[swapLog] failed to unmarshal record, skipping")
			skipped++
			continue
		}
		if stored.WalletID == walletID {
			records = append(records, &stored)
		}
	}

	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("[swapLog] record listing completed with errors")
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})
	return records, nil
}

func (s *SwapLog) Count() (int, error) {
	data, err := s.db.List(SwapsBucket)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}
