// Package upload tracks chunked, resumable uploads. The chunk-completion
// record is persisted so an interrupted upload resumes across a process
// restart without re-sending finished chunks.
package upload

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"partsbay/pkg/errors"
)

var sessionsBucket = []byte("upload_sessions")

// Session is one chunked upload in progress.
type Session struct {
	ID          string       `json:"id"`
	OrderID     string       `json:"order_id"`
	FileName    string       `json:"file_name"`
	TotalChunks int          `json:"total_chunks"`
	ChunkSize   int64        `json:"chunk_size"`
	Uploaded    map[int]bool `json:"uploaded"`
	Completed   bool         `json:"completed"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// MissingChunks returns the sorted chunk indexes not yet uploaded.
func (s *Session) MissingChunks() []int {
	missing := make([]int, 0, s.TotalChunks)
	for i := 0; i < s.TotalChunks; i++ {
		if !s.Uploaded[i] {
			missing = append(missing, i)
		}
	}
	sort.Ints(missing)
	return missing
}

// Store persists upload sessions in bbolt.
type Store struct {
	db *bolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open upload store: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Create starts a new session.
func (s *Store) Create(orderID, fileName string, totalChunks int, chunkSize int64) (*Session, error) {
	if totalChunks <= 0 {
		return nil, errors.BadRequest("total_chunks must be positive", nil)
	}
	now := time.Now().UTC()
	session := &Session{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		FileName:    fileName,
		TotalChunks: totalChunks,
		ChunkSize:   chunkSize,
		Uploaded:    make(map[int]bool),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.put(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Store) Get(id string) (*Session, error) {
	var session *Session
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(sessionsBucket).Get([]byte(id))
		if data == nil {
			return errors.NotFound("upload session", nil)
		}
		session = &Session{}
		return json.Unmarshal(data, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// MarkUploaded records chunk completion. Re-marking an uploaded chunk is a
// no-op, which makes chunk PUTs idempotent.
func (s *Store) MarkUploaded(id string, chunk int) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if chunk < 0 || chunk >= session.TotalChunks {
		return nil, errors.BadRequest("chunk index out of range", nil)
	}
	if session.Completed {
		return nil, errors.BadRequest("upload already completed", nil)
	}
	if session.Uploaded[chunk] {
		return session, nil
	}
	session.Uploaded[chunk] = true
	session.UpdatedAt = time.Now().UTC()
	if err := s.put(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Complete finalizes the session; every chunk must be present.
func (s *Store) Complete(id string) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if missing := session.MissingChunks(); len(missing) > 0 {
		return nil, errors.BadRequest(fmt.Sprintf("%d chunks still missing", len(missing)), nil)
	}
	session.Completed = true
	session.UpdatedAt = time.Now().UTC()
	if err := s.put(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(id))
	})
}

func (s *Store) put(session *Session) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(session)
		if err != nil {
			return err
		}
		return tx.Bucket(sessionsBucket).Put([]byte(session.ID), data)
	})
}
