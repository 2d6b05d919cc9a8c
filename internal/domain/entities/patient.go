package entities

// MedicalHistory is the clinical summary embedded in a patient profile
type MedicalHistory struct {
	BloodGroup  string   `json:"bloodGroup"`
	Conditions  []string `json:"conditions"`
	Allergies   []string `json:"allergies"`
	Medications []string `json:"medications"`
}

// Patient represents the read-only profile shown on the dashboard
type Patient struct {
	ID        string         `json:"id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	DOB       string         `json:"dob"`
	Address   string         `json:"address"`
	Medical   MedicalHistory `json:"medical"`
}

// FullName joins first and last name
func (p *Patient) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
