package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFilter_ScopeIsAlwaysFirst(t *testing.T) {
	f := Scoped("app_id", "console").
		Eq("menu_name", "Users").
		ILike("menu_route", "/users")

	require.Equal(t, []string{
		"app_id = $1",
		"menu_name = $2",
		"menu_route ILIKE $3",
	}, f.Clauses())
	require.Equal(t, []any{"console", "Users", "%/users%"}, f.Args())
	require.Equal(t, " WHERE app_id = $1 AND menu_name = $2 AND menu_route ILIKE $3", f.Where())
}

func TestFilter_EmptyEqualsAbsent(t *testing.T) {
	absent := Scoped("app_id", "console")
	empty := Scoped("app_id", "console").
		Eq("menu_id", "").
		Eq("menu_name", "   ").
		In("menu_status", nil).
		In("menu_type", []string{"", " "}).
		ILike("authority", "").
		EqInt("weight", nil).
		Range("cts", nil, &time.Time{})

	require.Equal(t, absent.Clauses(), empty.Clauses())
	require.Equal(t, absent.Args(), empty.Args())
}

func TestFilter_In(t *testing.T) {
	f := Scoped("app_id", "a").In("menu_status", []string{"open", "", "closed"})

	require.Equal(t, []string{"app_id = $1", "menu_status = ANY($2)"}, f.Clauses())
	require.Equal(t, []string{"open", "closed"}, f.Args()[1])
}

func TestFilter_Range(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		from   *time.Time
		to     *time.Time
		clause []string
		args   []any
	}{
		{"both", &from, &to, []string{"login_cts BETWEEN $1 AND $2"}, []any{from, to}},
		{"from only", &from, nil, []string{"login_cts >= $1"}, []any{from}},
		{"to only", nil, &to, []string{"login_cts <= $1"}, []any{to}},
		{"neither", nil, nil, nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := Unscoped().Range("login_cts", tc.from, tc.to)
			require.Equal(t, tc.clause, f.Clauses())
			require.Equal(t, tc.args, f.Args())
		})
	}
}

func TestFilter_UnscopedWithoutClausesHasNoWhere(t *testing.T) {
	require.Empty(t, Unscoped().Eq("dict_id", "").Where())
}

func TestFormatLimitOffset(t *testing.T) {
	require.Equal(t, "LIMIT 10 OFFSET 20", FormatLimitOffset(10, 20))
	require.Equal(t, "LIMIT 10", FormatLimitOffset(10, 0))
	require.Equal(t, "OFFSET 5", FormatLimitOffset(0, 5))
	require.Equal(t, "", FormatLimitOffset(0, 0))
}
