package task

// DefaultFixture reproduces the four-task fixture the original implementation seeded
// every non-priority policy demo with (scheduler.cpp's {1,1,250,0,0,0} row set, burst
// units scaled down by 10 so they read naturally against the default quantum).
func DefaultFixture() *Set {
	s, _ := NewSet([]*Task{
		New(1, 0, 25, 1, 1000, 0),
		New(2, 0, 10, 1, 1000, 0),
		New(3, 0, 30, 1, 1000, 0),
		New(4, 0, 15, 1, 1000, 0),
	})
	return s
}

// PriorityFixture reproduces the original's priority-specific seed
// ({1,15,...},{2,5,...},{3,20,...},{4,10,...}), where the second field is priority.
func PriorityFixture() *Set {
	s, _ := NewSet([]*Task{
		New(1, 0, 25, 15, 1000, 0),
		New(2, 0, 10, 5, 1000, 0),
		New(3, 0, 30, 20, 1000, 0),
		New(4, 0, 15, 10, 1000, 0),
	})
	return s
}
