package model

import "errors"

// ErrInconsistentIndex marks index data that cannot be decoded or breaks the feed invariants.
var ErrInconsistentIndex = errors.New("inconsistent index")
