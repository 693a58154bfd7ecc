package viewmodels

type LoginLog struct {
	Index       uint32 `json:"index"`
	ID          int64  `json:"id"`
	TicketID    string `json:"ticket_id"`
	Account     string `json:"account"`
	LoginType   string `json:"login_type"`
	LoginState  string `json:"login_state"`
	LoginResult string `json:"login_result,omitempty"`
	IP          string `json:"ip,omitempty"`
	Location    string `json:"location,omitempty"`
	Browser     string `json:"browser,omitempty"`
	OS          string `json:"os,omitempty"`
	Device      string `json:"device,omitempty"`
	Cts         string `json:"cts"`
	LoginCts    string `json:"login_cts"`
}
