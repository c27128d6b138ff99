// Package store persists the OSPF6 startup configuration in a bbolt file.
//
// The configuration is one msgpack-encoded Snapshot under a fixed key.
// Older snapshots are kept under their save time so a bad save can be
// rolled back by hand.
package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

// SnapshotVersion is written into every saved snapshot.
const SnapshotVersion = 1

// DefaultHistory is how many previous snapshots are retained.
const DefaultHistory = 4

var (
	bucketStartup = []byte("startup")
	bucketHistory = []byte("history")
	keyCurrent    = []byte("current")
)

// ErrVersion is returned by Load for snapshots written by an incompatible
// version.
var ErrVersion = errors.New("store: unsupported snapshot version")

// Snapshot is the complete startup configuration.
type Snapshot struct {
	Version    int         `msgpack:"v"`
	SavedAt    time.Time   `msgpack:"at"`
	Instances  []Instance  `msgpack:"inst"`
	Interfaces []Interface `msgpack:"intf,omitempty"`
}

// Instance is the configuration of one OSPF6 instance.
type Instance struct {
	ID                    uint32    `msgpack:"id"`
	RouterID              uint32    `msgpack:"rid,omitempty"`
	RedistributeConnected bool      `msgpack:"rc,omitempty"`
	RedistributeStatic    bool      `msgpack:"rs,omitempty"`
	Distance              uint8     `msgpack:"dist"`
	Ranges                []Range   `msgpack:"ranges,omitempty"`
	Stubs                 []Stub    `msgpack:"stubs,omitempty"`
	Bindings              []Binding `msgpack:"bind,omitempty"`
}

// Range is an area range.
type Range struct {
	Area         uint32 `msgpack:"area"`
	Prefix       string `msgpack:"net"`
	NotAdvertise bool   `msgpack:"na,omitempty"`
	HasCost      bool   `msgpack:"hc,omitempty"`
	Cost         uint32 `msgpack:"cost,omitempty"`
}

// Stub is a stub area.
type Stub struct {
	Area      uint32 `msgpack:"area"`
	NoSummary bool   `msgpack:"ns,omitempty"`
}

// Binding attaches an interface to an area.
type Binding struct {
	IfIndex uint32 `msgpack:"ifx"`
	Area    uint32 `msgpack:"area"`
}

// Interface is the OSPF6 configuration of one interface.
type Interface struct {
	IfIndex       uint32 `msgpack:"ifx"`
	Priority      uint8  `msgpack:"prio"`
	Cost          uint32 `msgpack:"cost,omitempty"`
	MTUIgnore     bool   `msgpack:"mtu,omitempty"`
	Dead          uint32 `msgpack:"dead"`
	Hello         uint32 `msgpack:"hello"`
	Retransmit    uint32 `msgpack:"rxmt"`
	TransmitDelay uint32 `msgpack:"txd"`
	Passive       bool   `msgpack:"passive,omitempty"`
}

// Option configures Open.
type Option func(*config)

type config struct {
	timeout time.Duration
	history int
	noSync  bool
}

// WithTimeout bounds how long Open waits for the file lock.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithHistory sets how many previous snapshots Save keeps.
func WithHistory(n int) Option {
	return func(c *config) { c.history = n }
}

// WithNoSync skips fsync after each commit. Only for tests.
func WithNoSync() Option {
	return func(c *config) { c.noSync = true }
}

// Store is an open startup configuration file.
type Store struct {
	db      *bbolt.DB
	history int
}

// Open opens or creates the store at path.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := config{timeout: 10 * time.Second, history: DefaultHistory}
	for _, opt := range opts {
		opt(&cfg)
	}

	bopt := *bbolt.DefaultOptions
	bopt.Timeout = cfg.timeout
	bopt.NoSync = cfg.noSync

	db, err := bbolt.Open(path, 0o600, &bopt)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketStartup); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketHistory)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: %w", err)
	}
	return &Store{db: db, history: cfg.history}, nil
}

// Close closes the underlying file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// Save replaces the current snapshot. The previous one moves to history.
func (s *Store) Save(snap Snapshot) error {
	snap.Version = SnapshotVersion
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}
	data, err := encode(&snap)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketStartup)
		h := tx.Bucket(bucketHistory)
		if prev := b.Get(keyCurrent); prev != nil && s.history > 0 {
			var old Snapshot
			if err := decode(prev, &old); err == nil {
				if err := h.Put(timeKey(old.SavedAt), bytes.Clone(prev)); err != nil {
					return err
				}
				if err := trim(h, s.history); err != nil {
					return err
				}
			}
		}
		return b.Put(keyCurrent, data)
	})
}

// Load returns the current snapshot. ok is false if nothing was saved.
func (s *Store) Load() (snap Snapshot, ok bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStartup).Get(keyCurrent)
		if data == nil {
			return nil
		}
		ok = true
		return decode(data, &snap)
	})
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("store: load: %w", err)
	}
	if ok && snap.Version != SnapshotVersion {
		return Snapshot{}, false, fmt.Errorf("%w: %d", ErrVersion, snap.Version)
	}
	return snap, ok, nil
}

// History returns the retained previous snapshots, newest first.
func (s *Store) History() ([]Snapshot, error) {
	var res []Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketHistory).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var snap Snapshot
			if err := decode(v, &snap); err != nil {
				return fmt.Errorf("history %x: %w", k, err)
			}
			res = append(res, snap)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return res, nil
}

// Erase removes the current snapshot and all history.
func (s *Store) Erase() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketStartup, bucketHistory} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

func trim(h *bbolt.Bucket, keep int) error {
	var keys [][]byte
	c := h.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, bytes.Clone(k))
	}
	for len(keys) > keep {
		if err := h.Delete(keys[0]); err != nil {
			return err
		}
		keys = keys[1:]
	}
	return nil
}

func timeKey(t time.Time) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], uint64(t.UnixNano()))
	return k[:]
}

func encode(snap *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)
	enc.Reset(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, snap *Snapshot) error {
	dec := msgpack.GetDecoder()
	defer msgpack.PutDecoder(dec)
	dec.Reset(bytes.NewReader(data))
	return dec.Decode(snap)
}
