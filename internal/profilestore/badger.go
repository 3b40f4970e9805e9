// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package profilestore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfinder/internal/learner"
	"github.com/tomtom215/wayfinder/internal/metrics"
)

// SchemaVersion is bumped whenever the persisted profile layout or the
// feature vector length changes.
const SchemaVersion = 1

// Key layout for BadgerDB storage
const (
	profileKeyPrefix = "profile:"
	schemaVersionKey = "schema_version"
	weightsKey       = "weights"
)

// ErrSchemaVersion is returned when the stored schema version is newer than
// this binary understands.
var ErrSchemaVersion = errors.New("unsupported schema version")

// BadgerStore implements learner.ProfileStore on BadgerDB.
// One key per profile keeps writes proportional to the mutated user instead
// of the whole population.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps an open BadgerDB handle and verifies the schema
// version, stamping it on first use.
func NewBadgerStore(db *badger.DB) (*BadgerStore, error) {
	s := &BadgerStore{db: db}
	if err := s.checkSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *BadgerStore) checkSchema() error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(schemaVersionKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return txn.Set([]byte(schemaVersionKey), []byte(strconv.Itoa(SchemaVersion)))
		}
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		return item.Value(func(val []byte) error {
			stored, err := strconv.Atoi(string(val))
			if err != nil {
				return fmt.Errorf("parse schema version %q: %w", val, err)
			}
			if stored > SchemaVersion {
				return fmt.Errorf("%w: stored %d, supported %d", ErrSchemaVersion, stored, SchemaVersion)
			}
			return nil
		})
	})
}

// Get returns the stored profile or learner.ErrProfileNotFound.
func (s *BadgerStore) Get(_ context.Context, userID string) (*learner.UserProfile, error) {
	defer observe("get", time.Now())

	var p learner.UserProfile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return learner.ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert stores the profile, overwriting any previous version.
func (s *BadgerStore) Upsert(_ context.Context, p *learner.UserProfile) error {
	defer observe("upsert", time.Now())

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %q: %w", p.UserID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKeyPrefix+p.UserID), data)
	})
}

// List returns all stored profiles.
func (s *BadgerStore) List(_ context.Context) ([]*learner.UserProfile, error) {
	defer observe("list", time.Now())

	var out []*learner.UserProfile
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profileKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var p learner.UserProfile
				if err := json.Unmarshal(val, &p); err != nil {
					return fmt.Errorf("unmarshal profile %s: %w", it.Item().Key(), err)
				}
				out = append(out, &p)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ProfileCount.Set(float64(len(out)))
	return out, nil
}

// SaveWeights persists the shared weight vector.
func (s *BadgerStore) SaveWeights(_ context.Context, weights []float64) error {
	defer observe("save_weights", time.Now())

	data, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(weightsKey), data)
	})
}

// LoadWeights returns the persisted weight vector or nil when absent.
func (s *BadgerStore) LoadWeights(_ context.Context) ([]float64, error) {
	var weights []float64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(weightsKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get weights: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &weights)
		})
	})
	if err != nil {
		return nil, err
	}
	return weights, nil
}

// UserIDFromKey extracts the user id from a profile key, for diagnostics.
func UserIDFromKey(key []byte) string {
	return strings.TrimPrefix(string(key), profileKeyPrefix)
}

func observe(op string, start time.Time) {
	metrics.ObserveStoreOperation(op, time.Since(start))
}
