package coverdb

import (
	"errors"
	"fmt"
	"os"

	"github.com/oklog/ulid/v2"

	"github.com/covfix/covfix/internal/domain"
)

// Rewrite replaces the coverage database at dbPath with an equivalent one
// whose file identifiers have the originDir prefix replaced by newDir, so
// reports resolve against the visible source tree instead of the install
// location.
//
// The database is first renamed to a uniquely named sibling file, which
// keeps the swap on one filesystem and avoids partial writes at dbPath.
// The moved-aside file is deleted on every exit path; if it cannot be
// parsed the original data is lost (callers are expected to fail the
// session loudly rather than retry).
//
// Callers must serialize invocations against the same database path; the
// unique temp name only protects distinct invocations from colliding.
func Rewrite(originDir, newDir, dbPath string) (err error) {
	aliases := domain.NewPathAliases()
	aliases.Add(originDir, newDir)

	oldPath := fmt.Sprintf("%s.old-%s", dbPath, ulid.Make())
	if err := os.Rename(dbPath, oldPath); err != nil {
		return fmt.Errorf("move coverage database aside: %w", err)
	}
	defer func() {
		rmErr := os.Remove(oldPath)
		if rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = fmt.Errorf("remove old coverage database: %w", rmErr)
		}
	}()

	old, err := Load(oldPath)
	if err != nil {
		return fmt.Errorf("load old coverage database: %w", err)
	}

	fresh := New(old.Mode)
	if err := fresh.Merge(old, aliases); err != nil {
		return err
	}
	return fresh.WriteFile(dbPath)
}
