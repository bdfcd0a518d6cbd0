package models

// Profile is who a survey is being taken for. It is either an anonymous
// walk-in (AnonymousProfile) or a stored employee (EmployeeProfile); only the
// latter has history.
type Profile interface {
	DisplayName() string
	JobTitle() string
	YearsOld() int
	Avatar() string
	profile()
}

type AnonymousProfile struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Age   int    `json:"age"`
	Image string `json:"image,omitempty"`
}

func (p AnonymousProfile) DisplayName() string { return p.Name }
func (p AnonymousProfile) JobTitle() string    { return p.Role }
func (p AnonymousProfile) YearsOld() int       { return p.Age }
func (p AnonymousProfile) Avatar() string      { return p.Image }
func (AnonymousProfile) profile()              {}

type EmployeeProfile struct {
	Employee *Employee `json:"employee"`
}

func (p EmployeeProfile) DisplayName() string { return p.Employee.Name }
func (p EmployeeProfile) JobTitle() string    { return p.Employee.Role }
func (p EmployeeProfile) YearsOld() int       { return p.Employee.Age }
func (p EmployeeProfile) Avatar() string      { return p.Employee.Image }
func (EmployeeProfile) profile()              {}

// ID is the employee's email.
func (p EmployeeProfile) ID() string { return p.Employee.Email }

// EmployeeOf returns the employee behind p, if p is a stored employee.
func EmployeeOf(p Profile) (*Employee, bool) {
	ep, ok := p.(EmployeeProfile)
	if !ok || ep.Employee == nil {
		return nil, false
	}
	return ep.Employee, true
}
