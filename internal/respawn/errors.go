package respawn

import "errors"

// ErrStoreUnavailable wraps load/save failures of the backing store.
// The module keeps running on its in-memory state when it is returned.
var ErrStoreUnavailable = errors.New("respawn store unavailable")
