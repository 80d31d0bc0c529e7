package form

import (
	"strconv"
	"strings"
	"time"

	"taskmanager/internal/model"
)

const dateLayout = "2006-01-02"

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

type ProjectForm struct {
	Name        string `form:"name" binding:"required,max=200"`
	Description string `form:"description"`
	Manager     string `form:"manager"`
}

func (f *ProjectForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Manager = strings.TrimSpace(f.Manager)
}

// ManagerID parses the manager choice. It returns nil for an empty choice and
// records an error for a malformed one.
func (f *ProjectForm) ManagerID(errs Errors) *uint {
	return parseChoice("manager", f.Manager, errs)
}

type TaskForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description"`
	AssignedTo  string `form:"assigned_to"`
	Status      string `form:"status" binding:"omitempty,oneof=todo in_progress done"`
	DueDate     string `form:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

func (f *TaskForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.AssignedTo = strings.TrimSpace(f.AssignedTo)
	f.Status = strings.TrimSpace(f.Status)
	f.DueDate = strings.TrimSpace(f.DueDate)
}

func (f *TaskForm) AssignedToID(errs Errors) *uint {
	return parseChoice("assigned_to", f.AssignedTo, errs)
}

// StatusValue defaults to todo.
func (f *TaskForm) StatusValue() model.TaskStatus {
	if f.Status == "" {
		return model.StatusTodo
	}
	return model.TaskStatus(f.Status)
}

// DueDateValue returns nil when no date was submitted. The format has been
// validated by the binding tag.
func (f *TaskForm) DueDateValue() *time.Time {
	if f.DueDate == "" {
		return nil
	}
	d, err := time.Parse(dateLayout, f.DueDate)
	if err != nil {
		return nil
	}
	return &d
}

func parseChoice(field, raw string, errs Errors) *uint {
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		errs.Add(field, invalidChoice)
		return nil
	}
	v := uint(id)
	return &v
}

// InvalidChoice records that the submitted choice for field does not exist.
func InvalidChoice(errs Errors, field string) {
	errs.Add(field, invalidChoice)
}
