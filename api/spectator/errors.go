package spectatorapi

import "errors"

var ErrMissingDependency = errors.New("spectator controller needs a source, an encoder and a hub")
