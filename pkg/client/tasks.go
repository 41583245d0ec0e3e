package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/darmiel/tokenkeep/internal/api"
	"github.com/darmiel/tokenkeep/internal/tasks"
)

func (c *Client) ListTasks(ctx context.Context) ([]tasks.Status, string, error) {
	var res []tasks.Status
	correlation, err := c.get(ctx, c.url().
		setPath(api.ListTasksRoute).
		build(), &res)
	return res, correlation, err
}

func (c *Client) TriggerTask(ctx context.Context, name string) (string, error) {
	var res api.TriggerTaskResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.TriggerTaskRoute).
		setPathParam("name", name).
		build(), nil, &res)
	if err != nil {
		return correlation, err
	}
	if res.Status != "triggered" {
		return correlation, fmt.Errorf("unexpected response status: %s", res.Status)
	}
	return correlation, nil
}

func (c *Client) GetTaskLogs(ctx context.Context, name string) ([]tasks.LogEntry, string, error) {
	var res []tasks.LogEntry
	correlation, err := c.get(ctx, c.url().
		setPath(api.LogsForTaskRoute).
		setPathParam("name", name).
		build(), &res)
	return res, correlation, err
}

// Task returns the status of a single task. A missing task is reported as a 404 APIError.
func (c *Client) Task(ctx context.Context, name string) (tasks.Status, string, error) {
	list, correlation, err := c.ListTasks(ctx)
	if err != nil {
		return tasks.Status{}, correlation, err
	}
	for _, s := range list {
		if s.Name == name {
			return s, correlation, nil
		}
	}
	return tasks.Status{}, correlation, APIError{
		StatusCode:    http.StatusNotFound,
		CorrelationID: correlation,
		Message:       "Task not found",
		Detail:        name,
	}
}
