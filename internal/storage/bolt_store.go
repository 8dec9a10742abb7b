package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samvad-hq/opengraphio-go/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	lookupBucket     = "lookups"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB. Each value is an 8 byte
// big-endian expiry followed by the JSON encoded lookup.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	lookupTTL       time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(lookupBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		lookupTTL:       opts.LookupTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Save archives a lookup under its id until the TTL elapses.
func (b *boltStore) Save(l domain.Lookup) error {
	if b == nil || b.db == nil {
		return nil
	}
	if l.ID == "" {
		return fmt.Errorf("lookup id is empty")
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	payload, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal lookup: %w", err)
	}
	value := make([]byte, expiryValueBytes, expiryValueBytes+len(payload))
	binary.BigEndian.PutUint64(value, uint64(now.Add(b.lookupTTL).Unix()))
	value = append(value, payload...)

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(lookupBucket))
		if bucket == nil {
			return fmt.Errorf("lookup bucket missing")
		}
		return bucket.Put([]byte(l.ID), value)
	})
}

// Get returns the archived lookup for id if it has not expired.
func (b *boltStore) Get(id string) (domain.Lookup, bool, error) {
	if b == nil || b.db == nil {
		return domain.Lookup{}, false, nil
	}

	now := b.now()
	var (
		out   domain.Lookup
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(lookupBucket))
		if bucket == nil {
			return fmt.Errorf("lookup bucket missing")
		}
		l, ok, err := decodeValue(bucket.Get([]byte(id)), now)
		if err != nil {
			return fmt.Errorf("decode lookup %s: %w", id, err)
		}
		out, found = l, ok
		return nil
	})
	return out, found, err
}

// List returns every live lookup, newest first.
func (b *boltStore) List() ([]domain.Lookup, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return nil, err
	}

	var out []domain.Lookup
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(lookupBucket))
		if bucket == nil {
			return fmt.Errorf("lookup bucket missing")
		}
		return bucket.ForEach(func(k, v []byte) error {
			l, ok, err := decodeValue(v, now)
			if err != nil {
				return fmt.Errorf("decode lookup %s: %w", k, err)
			}
			if ok {
				out = append(out, l)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FetchedAt.After(out[j].FetchedAt)
	})
	return out, nil
}

// maybeCleanupExpired removes expired lookups on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(lookupBucket))
		if bucket == nil {
			return fmt.Errorf("lookup bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

// decodeValue unpacks a stored value; ok is false for missing or expired entries.
func decodeValue(value []byte, now time.Time) (domain.Lookup, bool, error) {
	if value == nil {
		return domain.Lookup{}, false, nil
	}
	expiry, ok := decodeExpiry(value)
	if !ok || !expiry.After(now) {
		return domain.Lookup{}, false, nil
	}
	var l domain.Lookup
	if err := json.Unmarshal(value[expiryValueBytes:], &l); err != nil {
		return domain.Lookup{}, false, err
	}
	return l, true, nil
}

// decodeExpiry decodes the expiry time from the stored byte slice.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
