package base

import "errors"

// ErrNoCoverageData marks a report that was located and read but carries
// no countable coverage units. Adapters map it to a no-data result rather
// than a failure.
var ErrNoCoverageData = errors.New("no coverage data")
