package errors

import "errors"

// ErrStaleSchedule means a conditional update found the schedule no
// longer in draft status. This is the expected loser of a validation
// race, not a fault.
var ErrStaleSchedule = errors.New("schedule is no longer in draft status")
