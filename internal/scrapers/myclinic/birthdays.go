package myclinic

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const birthdayForm = "report_customers_birthdays_report"

// BirthdayCelebrants submits the customers birthdays report for the range and
// parses the returned table. situationId is accepted but the report form has
// no situation field.
func (c *Client) BirthdayCelebrants(ctx context.Context, startDate, endDate, situationId string) ([]BirthdayEntry, error) {
	ctx, span := tracer.Start(ctx, "client:BirthdayCelebrants")
	defer span.End()
	span.SetAttributes(
		attribute.String("start_date", startDate),
		attribute.String("end_date", endDate),
		attribute.String("situation_id", situationId),
	)

	var entries []BirthdayEntry
	err := c.withReauth(ctx, func(ctx context.Context) error {
		var err error
		entries, err = c.birthdayCelebrants(ctx, startDate, endDate)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "birthday report failed")
		return nil, err
	}
	return entries, nil
}

func (c *Client) birthdayCelebrants(ctx context.Context, startDate, endDate string) ([]BirthdayEntry, error) {
	if c.csrfToken() == "" {
		c.RefreshCsrfToken(ctx)
	}

	// the report page carries the token the form expects, when it cannot be
	// read the current token is used
	token, err := c.pageCsrfToken(ctx, pathBirthdayReport)
	switch {
	case isUnauthorized(err):
		return nil, err
	case err != nil:
		c.tel.ReportWarning(report_birthdays_page, err)
	default:
		c.setCsrfToken(token)
	}
	token = c.csrfToken()

	req := c.request(ctx).
		SetFormDataFromValues(url.Values{
			"authenticity_token":                 {token},
			birthdayForm + "[start_date]":        {startDate},
			birthdayForm + "[end_date]":          {endDate},
			birthdayForm + "[merge_salon_ids][]": {c.opts.SalonId},
			"button":                             {""},
		}).
		SetHeaders(map[string]string{
			"X-Csrf-Token":       token,
			"Content-Type":       "application/x-www-form-urlencoded;charset=UTF-8",
			"Accept":             "text/vnd.turbo-stream.html, text/html, application/xhtml+xml",
			"Turbo-Frame":        "report",
			"X-Turbo-Request-Id": uuid.NewString(),
			"Origin":             c.opts.BaseUrl,
			"Referer":            c.referer(pathBirthdayReport),
			"Sec-Fetch-Site":     "same-origin",
			"Sec-Fetch-Mode":     "cors",
			"Sec-Fetch-Dest":     "empty",
		})
	res, err := c.send(req, http.MethodPost, pathBirthdayReport)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, &ParseError{What: "birthday report", Err: err}
	}

	rows := parseBirthdayRows(doc)
	if len(rows) == 0 {
		c.tel.ReportWarning(report_birthdays_parse, &ParseError{What: "birthday rows"}, startDate, endDate)
	}

	entries := make([]BirthdayEntry, len(rows))
	for i, r := range rows {
		entries[i] = r.entry()
	}
	return entries, nil
}
