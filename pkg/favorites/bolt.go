package favorites

import (
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
)

// BoltStorage keeps values in a bbolt database, in a single bucket.
type BoltStorage struct {
	db *bbolt.DB
}

// OpenBolt opens or creates the database at path.
func OpenBolt(path string) (*BoltStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("mkdir", filepath.Dir(path), err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: constants.BoltOpenTimeout})
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(constants.BoltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("init", path, err)
	}

	return &BoltStorage{db: db}, nil
}

// Get implements Storage.
func (b *BoltStorage) Get(key string) ([]byte, bool, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(constants.BoltBucket)).Get([]byte(key))
		if v != nil {
			// v is only valid for the life of the transaction.
			out = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, errors.WrapIO("read", b.db.Path(), err)
	}
	return out, out != nil, nil
}

// Set implements Storage.
func (b *BoltStorage) Set(key string, value []byte) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(constants.BoltBucket)).Put([]byte(key), value)
	})
	return errors.WrapIO("write", b.db.Path(), err)
}

// Close closes the database.
func (b *BoltStorage) Close() error {
	return b.db.Close()
}
