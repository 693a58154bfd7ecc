package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/laurel-hq/laurel/modules/logging/domain/entities/loginlog"
	"github.com/laurel-hq/laurel/pkg/constants"
	"github.com/laurel-hq/laurel/pkg/testutils/pgxstub"
)

func txCtx(tx *pgxstub.Tx) context.Context {
	return context.WithValue(context.Background(), constants.TxKey, tx)
}

func TestLoginLogRepository_List_FiltersAndMapsRows(t *testing.T) {
	now := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	tx := &pgxstub.Tx{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &pgxstub.Rows{Data: [][]any{{
				int64(7), "t-1", "alice", "password", "success", pgtype.Text{String: "ok", Valid: true},
				pgtype.Text{String: "10.0.0.1", Valid: true}, pgtype.Text{}, pgtype.Text{String: "firefox", Valid: true},
				pgtype.Text{}, pgtype.Text{}, now, now,
			}}}, nil
		},
	}

	from := now.Add(-time.Hour)
	logs, err := NewLoginLogRepository().List(txCtx(tx), &loginlog.FindParams{
		Account:    "ali",
		LoginState: "success",
		LoginFrom:  &from,
		Limit:      15,
		Offset:     15,
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, int64(7), logs[0].ID)
	require.Equal(t, "10.0.0.1", logs[0].IP)
	require.Equal(t, "firefox", logs[0].Browser)
	require.Empty(t, logs[0].Location)
	require.Equal(t, now, logs[0].LoginAt)

	call := tx.Calls[0]
	require.Contains(t, call.SQL, "FROM login_log WHERE account ILIKE $1 AND login_state = $2 AND login_cts >= $3")
	require.Contains(t, call.SQL, "ORDER BY id DESC LIMIT 15 OFFSET 15")
	require.Equal(t, []any{"%ali%", "success", from}, call.Args)
}

func TestLoginLogRepository_Count_WithoutFilters(t *testing.T) {
	tx := &pgxstub.Tx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return pgxstub.Row{Values: []any{int64(3)}}
		},
	}
	count, err := NewLoginLogRepository().Count(txCtx(tx), nil)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	require.Equal(t, "SELECT COUNT(*) FROM login_log", tx.Calls[0].SQL)
	require.Empty(t, tx.Calls[0].Args)
}

func TestLoginLogRepository_Create_FillsTimestamps(t *testing.T) {
	tx := &pgxstub.Tx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return pgxstub.Row{Values: []any{int64(11)}}
		},
	}
	entry := &loginlog.LoginLog{TicketID: "t-2", Account: "bob", LoginType: "sms", LoginState: "failure"}

	require.NoError(t, NewLoginLogRepository().Create(txCtx(tx), entry))
	require.Equal(t, int64(11), entry.ID)
	require.False(t, entry.CreatedAt.IsZero())
	require.Equal(t, entry.CreatedAt, entry.LoginAt)

	call := tx.Calls[0]
	require.Contains(t, call.SQL, "INSERT INTO login_log")
	require.Len(t, call.Args, 12)
	require.Equal(t, pgtype.Text{}, call.Args[5])
}

func TestLoginLogRepository_Create_RejectsNil(t *testing.T) {
	tx := &pgxstub.Tx{}
	require.ErrorIs(t, NewLoginLogRepository().Create(txCtx(tx), nil), loginlog.ErrInvalid)
	require.Empty(t, tx.Calls)
}
