// Package googletasks implements the service.Service interface on one Google
// Tasks list.
package googletasks

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"orange/internal/config"
	"orange/internal/service"
	"orange/internal/todo"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc    *tasks.Service
	listID string

	// remote maps orange ids to Google task ids. Filled by LoadAll.
	remote map[int64]string
}

var _ service.Service = (*Client)(nil)

// New creates a client for the list named in cfg.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := loadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := loadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Create HTTP client with a token source that auto-refreshes
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	c, err := NewWithHTTPClient(ctx, httpClient, cfg.Secrets.Google.List)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrConnectionFailed, err)
	}
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...option.ClientOption) (*Client, error) {
	if listID == "" {
		listID = DefaultListID
	}
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listID: listID}, nil
}

// LoadAll implements service.Service. Items without an orange trailer are
// skipped, as are items failing task validation.
func (c *Client) LoadAll(ctx context.Context) ([]todo.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	remote := make(map[int64]string)
	var result []todo.Task
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, item := range resp.Items {
				task, err := decodeTask(item)
				if err != nil {
					log.WithError(err).WithField("remote", item.Id).Debug("skipping task")
					continue
				}
				if _, dup := remote[task.ID()]; dup {
					log.WithField("task", task.ID()).Debug("skipping duplicate task id")
					continue
				}
				remote[task.ID()] = item.Id
				result = append(result, task)
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}

	sortByID(result)
	c.remote = remote
	return result, nil
}

// Flush implements service.Service.
func (c *Client) Flush(ctx context.Context, list []todo.Task, removed []int64) error {
	if c.remote == nil {
		if _, err := c.LoadAll(ctx); err != nil {
			return err
		}
	}

	for _, id := range removed {
		remoteID, ok := c.remote[id]
		if !ok {
			continue
		}
		if err := c.call(ctx, func(ctx context.Context) error {
			return c.svc.Tasks.Delete(c.listID, remoteID).Context(ctx).Do()
		}); err != nil {
			return fmt.Errorf("delete todo %d: %w", id, err)
		}
		delete(c.remote, id)
	}

	for _, t := range list {
		if err := c.save(ctx, t); err != nil {
			return fmt.Errorf("save todo %d: %w", t.ID(), err)
		}
	}
	return nil
}

func (c *Client) save(ctx context.Context, t todo.Task) error {
	item, err := encodeTask(t)
	if err != nil {
		return err
	}

	if remoteID, ok := c.remote[t.ID()]; ok {
		return c.call(ctx, func(ctx context.Context) error {
			_, err := c.svc.Tasks.Patch(c.listID, remoteID, item).Context(ctx).Do()
			return err
		})
	}

	return c.call(ctx, func(ctx context.Context) error {
		created, err := c.svc.Tasks.Insert(c.listID, item).Context(ctx).Do()
		if err != nil {
			return err
		}
		c.remote[t.ID()] = created.Id
		return nil
	})
}

// call runs fn under APITimeout and translates API errors.
func (c *Client) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()
	return wrapError(fn(ctx))
}

// Close implements service.Service. The HTTP client holds no resources that
// need releasing.
func (c *Client) Close() error {
	return nil
}

func encodeTask(t todo.Task) (*tasks.Task, error) {
	notes, err := encodeNotes(t.ID(), t.Body(), t.Tags())
	if err != nil {
		return nil, err
	}
	status := statusNeedsAction
	if t.Checked() {
		status = statusCompleted
	}
	return &tasks.Task{
		Title:  t.Heading(),
		Notes:  notes,
		Status: status,
		// Patch omits empty fields; force them so cleared values are sent.
		ForceSendFields: []string{"Title", "Notes", "Status"},
	}, nil
}

func decodeTask(item *tasks.Task) (todo.Task, error) {
	id, body, tags, err := decodeNotes(item.Notes)
	if err != nil {
		return todo.Task{}, err
	}
	task, err := todo.New(id, item.Title, body)
	if err != nil {
		return todo.Task{}, err
	}
	task.SetChecked(item.Status == statusCompleted)
	task.AddTags(tags...)
	return task, nil
}

func sortByID(list []todo.Task) {
	slices.SortFunc(list, func(a, b todo.Task) int {
		return cmp.Compare(a.ID(), b.ID())
	})
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: orange login)")
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("list not found")
	}

	return err
}
