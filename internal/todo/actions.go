package todo

// Action is a state transition request. The variant set is closed: only
// types in this package implement it.
type Action interface {
	// Kind returns a stable name for logging.
	Kind() string
	isAction()
}

// Initialize replaces the task list wholesale and clears loading.
type Initialize struct {
	Tasks []Task
}

// AddTask appends a new task. Title is taken verbatim; callers trim.
type AddTask struct {
	Title string
}

// ToggleTask flips completed on the task with ID.
type ToggleTask struct {
	ID string
}

// UpdateTask replaces the title of the task with ID.
type UpdateTask struct {
	ID    string
	Title string
}

// DeleteTask removes the task with ID.
type DeleteTask struct {
	ID string
}

// SetLoading sets the loading flag.
type SetLoading struct {
	Loading bool
}

// SetError sets the error message.
type SetError struct {
	Message string
}

func (Initialize) Kind() string { return "INITIALIZE" }
func (AddTask) Kind() string    { return "ADD_TASK" }
func (ToggleTask) Kind() string { return "TOGGLE_TASK" }
func (UpdateTask) Kind() string { return "UPDATE_TASK" }
func (DeleteTask) Kind() string { return "DELETE_TASK" }
func (SetLoading) Kind() string { return "SET_LOADING" }
func (SetError) Kind() string   { return "SET_ERROR" }

func (Initialize) isAction() {}
func (AddTask) isAction()    {}
func (ToggleTask) isAction() {}
func (UpdateTask) isAction() {}
func (DeleteTask) isAction() {}
func (SetLoading) isAction() {}
func (SetError) isAction()   {}
