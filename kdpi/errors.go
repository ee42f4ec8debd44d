package kdpi

import "errors"

// ErrUnmappable marks a risk index that falls outside every range in the
// percentile table. The record is excluded downstream, not failed.
var ErrUnmappable = errors.New("risk index outside every percentile range")
