package clock

import "time"

// Clock provides time to the application.
// Services stamp createdAt/updatedAt from it so tests can pin time.
type Clock interface {
	Now() time.Time
}
