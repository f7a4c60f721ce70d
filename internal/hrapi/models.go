package hrapi

import (
	"fmt"

	"github.com/username/attendance-muster/internal/calendar"
	"github.com/username/attendance-muster/internal/muster"
)

// Employee is a directory entry as the HR backend serializes it. The id
// arrives as a JSON number from some deployments and as a string from others.
type Employee struct {
	ID          muster.FlexibleID `json:"id"`
	Code        string            `json:"employee_code"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Department  string            `json:"department_name"`
	Designation string            `json:"designation_name"`
}

func (e Employee) toMuster() (muster.Employee, error) {
	id, err := e.ID.Int64()
	if err != nil {
		return muster.Employee{}, err
	}
	return muster.Employee{
		ID:          id,
		Code:        e.Code,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Department:  e.Department,
		Designation: e.Designation,
	}, nil
}

// Holiday is a holiday row of the HR backend
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// APIError is a non-2xx response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether repeating the request may succeed
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

var _ interface {
	muster.Source
	muster.RecordStore
	muster.CalendarSource
} = (*Client)(nil)

var _ calendar.HolidaySource = (*Client)(nil)
