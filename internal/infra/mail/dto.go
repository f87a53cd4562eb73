package mail

type LeadEmailData struct {
	AssigneeName string
	LeadName     string
	LeadURL      string
}

type EmailSender struct {
	From    string
	BaseURL string
	Dialer  Dialer
}
