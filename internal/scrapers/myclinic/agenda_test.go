package myclinic

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var expectedAgenda = []AgendaItem{
	{
		Id:         101,
		Date:       "2025-10-24",
		DateTime:   "2025-10-24T09:00:00.000-03:00",
		StartTime:  "09:00",
		EndTime:    "10:00",
		PersonName: "Maria Silva",
		Phone:      "11987654321",
		Mobile:     "11987654321",
		Services:   []string{"Limpeza de pele"},
		Status:     "confirmed",
	},
	{
		Id:         102,
		Date:       "2025-10-24",
		DateTime:   "2025-10-24T10:30:00.000-03:00",
		StartTime:  "10:30",
		EndTime:    "11:00",
		PersonName: "João Pereira",
		Phone:      "2134567890",
		Mobile:     "2134567890",
		Services:   []string{},
		Status:     "Falta",
	},
	{
		Id:         103,
		Date:       "2025-10-24",
		DateTime:   "2025-10-24T11:00:00.000-03:00",
		StartTime:  "11:00",
		EndTime:    "12:00",
		PersonName: "Paula Costa",
		Services:   []string{"Massagem"},
		Status:     "Confirmed - falta justificada",
	},
	{
		Id:         104,
		Date:       "2025-10-24",
		DateTime:   "2025-10-24T14:00:00.000-03:00",
		StartTime:  "14:00",
		EndTime:    "15:00",
		PersonName: "Rita Gomes",
		Services:   []string{},
		Status:     "pending",
	},
}

func agendaIds(items []AgendaItem) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.Id
	}
	return ids
}

func TestAgenda(t *testing.T) {
	client, site, rec := newTestClient(t, Options{})
	ctx := context.Background()
	require.True(t, client.Login(ctx, testIdentity, testSecret))

	items, err := client.Agenda(ctx, AgendaQuery{
		StartDate: "2025-10-24",
		EndDate:   "2025-10-31",
	})
	require.NoError(t, err)
	if diff := cmp.Diff(expectedAgenda, items); diff != "" {
		t.Fatalf("agenda mismatch (-want +got):\n%s", diff)
	}

	site.locked(func() {
		require.Equal(t, 1, site.scheduleCalls)
		// only the start date is sent
		require.Equal(t, "2025-10-24", site.scheduleQuery.Get("date"))
		require.Len(t, site.scheduleQuery, 1)
		require.Equal(t, "login-token", site.scheduleHeaders.Get("X-Csrf-Token"))
		require.Equal(t, "XMLHttpRequest", site.scheduleHeaders.Get("X-Requested-With"))

		require.Len(t, site.detailStamps, 4)
		for _, stamp := range site.detailStamps {
			require.Equal(t, strconv.FormatInt(testNow.UnixMilli(), 10), stamp)
		}
	})

	// the failing detail is reported and the entry kept
	require.Len(t, rec.Reports("warning", report_agenda_detail), 1)
	require.Empty(t, rec.Reports("broken", report_agenda_list))
}

func TestAgendaIgnoresEndDate(t *testing.T) {
	client, _, _ := newTestClient(t, Options{})
	ctx := context.Background()
	require.True(t, client.Login(ctx, testIdentity, testSecret))

	first, err := client.Agenda(ctx, AgendaQuery{StartDate: "2025-10-24", EndDate: "2025-10-24"})
	require.NoError(t, err)
	second, err := client.Agenda(ctx, AgendaQuery{StartDate: "2025-10-24", EndDate: "2026-01-01"})
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(first, second))
}

func TestAgendaFilters(t *testing.T) {
	client, _, _ := newTestClient(t, Options{})
	ctx := context.Background()
	require.True(t, client.Login(ctx, testIdentity, testSecret))

	testCases := []struct {
		name     string
		query    AgendaQuery
		expected []int64
	}{
		{
			name:     "no filters",
			query:    AgendaQuery{},
			expected: []int64{101, 102, 103, 104},
		},
		{
			name:     "status is case insensitive",
			query:    AgendaQuery{StatusFilter: []string{"CONFIRMED"}},
			expected: []int64{101, 103},
		},
		{
			name:     "any status matches",
			query:    AgendaQuery{StatusFilter: []string{"pend", "falta"}},
			expected: []int64{102, 103, 104},
		},
		{
			name:     "blank statuses are ignored",
			query:    AgendaQuery{StatusFilter: []string{"", "  "}},
			expected: []int64{101, 102, 103, 104},
		},
		{
			name:     "exclude no show",
			query:    AgendaQuery{ExcludeNoShow: true},
			expected: []int64{101, 104},
		},
		{
			name:     "exclude no show after status",
			query:    AgendaQuery{StatusFilter: []string{"confirmed"}, ExcludeNoShow: true},
			expected: []int64{101},
		},
		{
			name:     "nothing matches",
			query:    AgendaQuery{StatusFilter: []string{"cancelado"}},
			expected: []int64{},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			test.query.StartDate = "2025-10-24"
			items, err := client.Agenda(ctx, test.query)
			require.NoError(t, err)
			require.NotNil(t, items)
			require.Equal(t, test.expected, agendaIds(items))
		})
	}
}

func TestAgendaNotAuthenticated(t *testing.T) {
	client, site, _ := newTestClient(t, Options{})

	_, err := client.Agenda(context.Background(), AgendaQuery{StartDate: "2025-10-24"})
	require.ErrorIs(t, err, ErrNotAuthenticated)
	site.locked(func() {
		require.Equal(t, 0, site.scheduleCalls)
	})
}

func TestAgendaReauthenticates(t *testing.T) {
	client, site, _ := newTestClient(t, Options{})
	ctx := context.Background()
	require.True(t, client.Login(ctx, testIdentity, testSecret))

	site.expireSessions()

	items, err := client.Agenda(ctx, AgendaQuery{StartDate: "2025-10-24"})
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(expectedAgenda, items))
	require.Equal(t, "session-2", client.SessionCookie())

	site.locked(func() {
		require.Equal(t, 2, site.loginPosts)
		require.Equal(t, 2, site.scheduleCalls)
	})
}

func TestAgendaReauthenticationFails(t *testing.T) {
	client, site, _ := newTestClient(t, Options{})
	ctx := context.Background()
	require.True(t, client.Login(ctx, testIdentity, testSecret))

	site.expireSessions()
	site.locked(func() {
		site.rejectLogins = true
	})

	_, err := client.Agenda(ctx, AgendaQuery{StartDate: "2025-10-24"})
	require.ErrorIs(t, err, ErrSessionRejected)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, 401, upstream.Status)
	require.Equal(t, pathSchedules, upstream.Path)

	site.locked(func() {
		require.Equal(t, 2, site.loginPosts)
		require.Equal(t, 1, site.scheduleCalls)
	})
}

func TestAgendaRetriesOnce(t *testing.T) {
	client, site, rec := newTestClient(t, Options{})
	ctx := context.Background()
	require.True(t, client.Login(ctx, testIdentity, testSecret))

	site.locked(func() {
		site.rejectSchedules = true
	})

	_, err := client.Agenda(ctx, AgendaQuery{StartDate: "2025-10-24"})
	require.ErrorIs(t, err, ErrSessionRejected)
	site.locked(func() {
		require.Equal(t, 2, site.loginPosts)
		require.Equal(t, 2, site.scheduleCalls)
	})
	require.Len(t, rec.Reports("broken", report_agenda_list), 2)
}

func TestAgendaDetailConcurrency(t *testing.T) {
	client, site, _ := newTestClient(t, Options{DetailConcurrency: 2})
	ctx := context.Background()
	require.True(t, client.Login(ctx, testIdentity, testSecret))

	site.locked(func() {
		site.detailDelay = 20 * time.Millisecond
	})

	items, err := client.Agenda(ctx, AgendaQuery{StartDate: "2025-10-24"})
	require.NoError(t, err)
	require.Len(t, items, 4)

	peak := site.maxInflightCount.Load()
	require.LessOrEqual(t, peak, int64(2))
	require.GreaterOrEqual(t, peak, int64(1))
}

func TestAgendaConcurrentCallers(t *testing.T) {
	client, site, _ := newTestClient(t, Options{})
	ctx := context.Background()
	require.True(t, client.Login(ctx, testIdentity, testSecret))

	site.expireSessions()

	wg := sync.WaitGroup{}
	results := make([][]AgendaItem, 5)
	errs := make([]error, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = client.Agenda(ctx, AgendaQuery{StartDate: "2025-10-24"})
		}()
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		require.Empty(t, cmp.Diff(expectedAgenda, results[i]))
	}
	site.locked(func() {
		require.Equal(t, 2, site.loginPosts)
	})
}

func TestAgendaCancelled(t *testing.T) {
	client, _, _ := newTestClient(t, Options{})
	require.True(t, client.Login(context.Background(), testIdentity, testSecret))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Agenda(ctx, AgendaQuery{StartDate: "2025-10-24"})
	require.ErrorIs(t, err, context.Canceled)
}
