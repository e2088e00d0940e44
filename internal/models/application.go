package models

// Appointment is one appointment row inside an approved carwash application.
type Appointment struct {
	ID        string `json:"appointmentId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

// CarwashApplication is an approved application with its nested appointments,
// as returned by the backend list endpoint. Order is preserved as received.
type CarwashApplication struct {
	CarwashName  string        `json:"carwashName"`
	Appointments []Appointment `json:"appointments"`
}

// PersonnelAssignment pairs a personnel identifier with a selected
// appointment. Both identifiers must be present before submission.
type PersonnelAssignment struct {
	PersonnelID   string `json:"personnelId"`
	AppointmentID string `json:"appointment_id"`
}

// Complete reports whether both identifiers are present.
func (a PersonnelAssignment) Complete() bool {
	return a.PersonnelID != "" && a.AppointmentID != ""
}
