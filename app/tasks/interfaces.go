package tasks

// TaskSchedulerInterface is the scheduler surface used by the main
// application and the API handlers. The trigger mechanism (ticker) lives
// inside the scheduler; task logic never assumes one.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
