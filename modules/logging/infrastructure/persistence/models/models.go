package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type LoginLog struct {
	ID          int64
	TicketID    string
	Account     string
	LoginType   string
	LoginState  string
	LoginResult pgtype.Text
	IP          pgtype.Text
	Location    pgtype.Text
	Browser     pgtype.Text
	OS          pgtype.Text
	Device      pgtype.Text
	Cts         time.Time
	LoginCts    time.Time
}
