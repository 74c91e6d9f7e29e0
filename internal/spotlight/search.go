package spotlight

import (
	"context"
	"strings"

	"github.com/quillon/mdgate/internal/runner"
)

// Search runs a buffered metadata query and returns matching paths.
// Scopes restrict the search to directories; an empty scope list
// searches everywhere the index covers.
func (c *Client) Search(ctx context.Context, query string, scopes []string) ([]string, error) {
	inv, err := c.searchInvocation("search", query, scopes, false)
	if err != nil {
		return nil, err
	}

	res, err := c.run(ctx, "search", *inv)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, exitError("search", res)
	}
	return splitLines(res.Stdout), nil
}

// SearchLive starts a continuously updating query. Each result path is
// delivered to fn until the returned handle is cancelled.
func (c *Client) SearchLive(ctx context.Context, query string, scopes []string, fn LineFunc) (*Handle, error) {
	inv, err := c.searchInvocation("search-live", query, scopes, true)
	if err != nil {
		return nil, err
	}

	s, err := c.exec.Stream(ctx, *inv)
	if err != nil {
		return nil, &Error{Op: "search-live", Kind: KindSpawn, Err: err}
	}
	return newHandle("search-live", s, fn), nil
}

func (c *Client) searchInvocation(op, query string, scopes []string, live bool) (*runner.Invocation, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &Error{Op: op, Kind: KindInvalidArgument, Err: errEmptyQuery}
	}
	for _, scope := range scopes {
		if err := c.guardCheck(op, scope); err != nil {
			return nil, err
		}
	}

	args := []string{query}
	for _, scope := range scopes {
		args = append(args, "-onlyin", scope)
	}
	if live {
		args = append(args, "-live")
	}
	return &runner.Invocation{Program: c.cfg.Mdfind(), Args: args}, nil
}
