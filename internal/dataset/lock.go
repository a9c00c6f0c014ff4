package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
)

const lockRetryDelay = 25 * time.Millisecond

// Lock returns the advisory lock guarding the dataset file at path. Writers
// hold it exclusively for a whole read-modify-write cycle; readers share it.
func Lock(path string) *flock.Flock {
	return flock.New(path + ".lock")
}

// LoadShared loads path while holding a shared lock, so a concurrent
// exclusive writer is never observed half way through. When the lock file
// cannot be created because the directory is not writable, the file is read
// without a lock. log may be nil.
func LoadShared(ctx context.Context, path string, opt Options, log logrus.FieldLogger) (*Dataset, error) {
	if err := CheckFile(path); err != nil {
		return nil, err
	}
	fl := Lock(path)
	ok, err := fl.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		if lockUnavailable(err) {
			if log == nil {
				log = logrus.StandardLogger()
			}
			log.WithError(err).WithField("lock", fl.Path()).Debug("read lock unavailable, loading without it")
			return Load(path, opt)
		}
		return nil, fmt.Errorf("acquire read lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire read lock on %s: not granted", path)
	}
	defer fl.Unlock()
	return Load(path, opt)
}

func lockUnavailable(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EROFS)
}
