package scheduler

// JobKey derives the deterministic identity of a repeatable job. It is the
// sole dedup mechanism for scheduled jobs: re-registering the same
// class/entity pair is a no-op, and removal is by this key.
func JobKey(class JobClass, entityID string) string {
	return string(class) + "-" + entityID
}

// KeyFor is JobKey applied to a payload.
func KeyFor(p Payload) string {
	return JobKey(p.Class(), p.EntityID())
}
