package telemetry

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &RecordingAPI{}
	scoped := NewScopedAPI("myclinic_scraper", rec)

	scoped.ReportBroken("client.login", "boom")
	scoped.ReportWarning("agenda.detail", 42)
	scoped.ReportCount("agenda.items", 3)

	broken := rec.Reports("broken", "")
	require.Len(t, broken, 1)
	require.Equal(t, "myclinic_scraper: client.login", broken[0].Id)
	require.Equal(t, []any{"boom"}, broken[0].Params)

	warnings := rec.Reports("warning", "agenda.detail")
	require.Len(t, warnings, 1)
	require.Equal(t, []any{42}, warnings[0].Params)

	require.Len(t, rec.Reports("", "myclinic_scraper"), 3)
	require.Empty(t, rec.Reports("debug", ""))
}

func TestSlogAPI(t *testing.T) {
	var buff bytes.Buffer
	api := SlogAPI{Logger: slog.New(slog.NewTextHandler(&buff, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))}

	api.ReportWarning("agenda.detail", "timeout")
	out := buff.String()
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "id=agenda.detail")
	require.Contains(t, out, "params.0=timeout")

	buff.Reset()
	api.ReportCount("agenda.items", 7)
	require.Contains(t, buff.String(), "n=7")
}

func TestNopAPI(t *testing.T) {
	var api API = NopAPI{}
	require.NotPanics(t, func() {
		api.ReportBroken("x", 1)
		api.ReportWarning("x")
		api.ReportDebug("x")
		api.ReportCount("x", 1)
	})
}
