package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shiftline-hq/shiftline-client/internal/domain"
	"github.com/shiftline-hq/shiftline-client/pkg/api"
)

// ScheduleQuery narrows the schedule list to a window and/or employee.
type ScheduleQuery struct {
	From       time.Time
	To         time.Time
	EmployeeID string
}

func (q ScheduleQuery) values() url.Values {
	v := url.Values{}
	if !q.From.IsZero() {
		v.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		v.Set("to", q.To.UTC().Format(time.RFC3339))
	}
	if q.EmployeeID != "" {
		v.Set("employee_id", q.EmployeeID)
	}
	return v
}

func (c *Client) ListSchedules(ctx context.Context, q ScheduleQuery) ([]domain.Schedule, error) {
	path, err := literal(api.KeySchedulesList, c.cfg.Endpoints().Schedules.List)
	if err != nil {
		return nil, err
	}
	return call[[]domain.Schedule](ctx, c, http.MethodGet, withQuery(path, q.values()), nil)
}

func (c *Client) CreateSchedule(ctx context.Context, in domain.ScheduleInput) (domain.Schedule, error) {
	if err := c.validatePayload(in); err != nil {
		return domain.Schedule{}, err
	}
	path, err := literal(api.KeySchedulesCreate, c.cfg.Endpoints().Schedules.Create)
	if err != nil {
		return domain.Schedule{}, err
	}
	return call[domain.Schedule](ctx, c, http.MethodPost, path, in)
}

func (c *Client) UpdateSchedule(ctx context.Context, id string, in domain.ScheduleInput) (domain.Schedule, error) {
	path, err := resolve(api.KeySchedulesUpdate, c.cfg.Endpoints().Schedules.Update, id)
	if err != nil {
		return domain.Schedule{}, err
	}
	if err := c.validatePayload(in); err != nil {
		return domain.Schedule{}, err
	}
	return call[domain.Schedule](ctx, c, http.MethodPut, path, in)
}

func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	path, err := resolve(api.KeySchedulesDelete, c.cfg.Endpoints().Schedules.Delete, id)
	if err != nil {
		return err
	}
	_, err = call[domain.Ack](ctx, c, http.MethodDelete, path, nil)
	return err
}
