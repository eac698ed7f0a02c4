package myclinic

import (
	"context"
	"encoding/json"
	"fmt"
	"myclinic-backend/lib/textutil"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// statuses that mean the customer did not show up
var noShowMarkers = []string{"falta", "ausente"}

// Agenda lists the schedule of q.StartDate with each entry's phone filled in
// from its detail page, then applies the status and no-show filters.
func (c *Client) Agenda(ctx context.Context, q AgendaQuery) ([]AgendaItem, error) {
	ctx, span := tracer.Start(ctx, "client:Agenda")
	defer span.End()
	span.SetAttributes(attribute.String("start_date", q.StartDate))

	var items []AgendaItem
	err := c.withReauth(ctx, func(ctx context.Context) error {
		var err error
		items, err = c.agenda(ctx, q)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "agenda failed")
		return nil, err
	}
	return items, nil
}

func (c *Client) agenda(ctx context.Context, q AgendaQuery) ([]AgendaItem, error) {
	if c.csrfToken() == "" {
		c.RefreshCsrfToken(ctx)
	}

	// the listing only accepts a single day, q.EndDate has no upstream field
	res, err := c.send(
		c.xhrRequest(ctx).SetQueryParam("date", q.StartDate),
		http.MethodGet,
		pathSchedules,
	)
	if err != nil {
		c.tel.ReportBroken(report_agenda_list, err, q.StartDate)
		return nil, err
	}

	var listing schedulesResponse
	err = json.Unmarshal(res.Body(), &listing)
	if err != nil {
		err = &ParseError{What: "schedules listing", Err: err}
		c.tel.ReportBroken(report_agenda_list, err, q.StartDate)
		return nil, err
	}

	items := make([]AgendaItem, len(listing.Schedules))
	group := errgroup.Group{}
	if c.opts.DetailConcurrency > 0 {
		group.SetLimit(c.opts.DetailConcurrency)
	}
	for i, entry := range listing.Schedules {
		items[i] = agendaItemFromEntry(entry)
		group.Go(func() error {
			phone := c.detailPhone(ctx, entry.Id)
			items[i].Phone = phone
			items[i].Mobile = phone
			return nil
		})
	}
	group.Wait()

	err = ctx.Err()
	if err != nil {
		return nil, err
	}

	items = filterAgenda(items, q.StatusFilter, q.ExcludeNoShow)
	c.tel.ReportCount(report_agenda_items, int64(len(items)))
	return items, nil
}

func agendaItemFromEntry(entry ScheduleEntry) AgendaItem {
	date, startTime := splitTimestamp(entry.Start)
	_, endTime := splitTimestamp(entry.End)

	services := []string{}
	if entry.Note != "" {
		services = append(services, entry.Note)
	}

	return AgendaItem{
		Id:         entry.Id,
		Date:       date,
		DateTime:   entry.Start,
		StartTime:  startTime,
		EndTime:    endTime,
		PersonName: customerName(entry.Title),
		Services:   services,
		Status:     entry.Status,
	}
}

// detailPhone fetches the event detail of a schedule and returns the phone in
// its description. Every failure is reported and gives an empty phone.
func (c *Client) detailPhone(ctx context.Context, scheduleId int64) string {
	path := fmt.Sprintf(pathEventDetail, scheduleId)
	res, err := c.send(
		c.xhrRequest(ctx).SetQueryParam("_", strconv.FormatInt(c.time.Now().UnixMilli(), 10)),
		http.MethodGet,
		path,
	)
	if err != nil {
		c.tel.ReportWarning(report_agenda_detail, err, scheduleId)
		return ""
	}

	var detail eventDetail
	err = json.Unmarshal(res.Body(), &detail)
	if err != nil {
		c.tel.ReportWarning(
			report_agenda_detail,
			&ParseError{What: "event detail", Err: err},
			scheduleId,
		)
		return ""
	}
	return phoneFromDescription(detail.Description)
}

// filterAgenda keeps the items matching any of statusFilter and then, when
// excludeNoShow is set, drops the no-shows.
func filterAgenda(items []AgendaItem, statusFilter []string, excludeNoShow bool) []AgendaItem {
	statusFilter = textutil.NonEmpty(statusFilter)

	out := make([]AgendaItem, 0, len(items))
	for _, item := range items {
		if len(statusFilter) > 0 && !textutil.ContainsAnyFold(item.Status, statusFilter) {
			continue
		}
		if excludeNoShow && textutil.ContainsAnyFold(item.Status, noShowMarkers) {
			continue
		}
		out = append(out, item)
	}
	return out
}
