package notify

// ApplicationData feeds the application templates.
type ApplicationData struct {
	VolunteerName    string
	VolunteerEmail   string
	OpportunityTitle string
	OrganizationName string
	Status           string
}

// CertificateData feeds the certificate template.
type CertificateData struct {
	VolunteerName    string
	OrganizationName string
	Hours            string
	DownloadURL      string
	ValidFor         string
}

// PasswordResetData feeds the password reset template.
type PasswordResetData struct {
	Name     string
	ResetURL string
	ValidFor string
}

// ContactData feeds the contact templates.
type ContactData struct {
	Name         string
	Email        string
	Organization string
	Message      string
}
