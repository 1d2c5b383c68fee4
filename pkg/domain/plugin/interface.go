// Package plugin defines the contract between storyreview and external
// tracker plugins.
package plugin

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// Publisher is the interface that tracker plugins must implement.
type Publisher interface {
	// Init passes the configured settings and checks that the plugin can
	// reach its tracker (auth check).
	Init(config map[string]string) error

	// CreateWorkItem creates the work item for an approved story.
	CreateWorkItem(s story.Story) (story.WorkItem, error)
}

// PublisherPlugin is the implementation of plugin.Plugin so we can serve/consume this.
type PublisherPlugin struct {
	Impl Publisher
}

func (p *PublisherPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &PublisherRPCServer{Impl: p.Impl}, nil
}

func (p *PublisherPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &PublisherRPCClient{Client: c}, nil
}

// RPC Client/Server wrappers
type PublisherRPCClient struct{ Client *rpc.Client }

func (g *PublisherRPCClient) Init(config map[string]string) error {
	var resp interface{}
	return g.Client.Call("Plugin.Init", config, &resp)
}

func (g *PublisherRPCClient) CreateWorkItem(s story.Story) (story.WorkItem, error) {
	var resp story.WorkItem
	err := g.Client.Call("Plugin.CreateWorkItem", &s, &resp)
	return resp, err
}

type PublisherRPCServer struct{ Impl Publisher }

func (s *PublisherRPCServer) Init(config map[string]string, resp *interface{}) error {
	return s.Impl.Init(config)
}

func (s *PublisherRPCServer) CreateWorkItem(args *story.Story, resp *story.WorkItem) error {
	item, err := s.Impl.CreateWorkItem(*args)
	if err != nil {
		return err
	}
	*resp = item
	return nil
}
