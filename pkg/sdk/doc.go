// Package sdk provides a typed Go client for the storyreview HTTP API.
//
// The client implements the story repository and the ingestion backend, so
// a process configured with the remote data source talks to a storyreview
// server exactly as it would to the in-memory repository. Every call is
// bounded by a fortify timeout; failures are never retried.
//
// Usage:
//
//	c, _ := sdk.NewClient("http://localhost:8080", sdk.WithTimeout(5*time.Second))
//	stories, _ := c.List(ctx)
//	published, err := c.Publish(ctx, stories[0].ID)
package sdk
