package sde

import "errors"

// ErrDataSourceNotFound indicates a required snapshot file is absent. Unlike
// malformed individual lines, which are skipped and recorded, a missing file
// fails the whole load.
var ErrDataSourceNotFound = errors.New("data source not found")
