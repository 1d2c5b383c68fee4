package contract

import (
	"context"
	"fmt"

	domainPlugin "github.com/felixgeelhaar/storyreview/pkg/domain/plugin"
	infraPlugin "github.com/felixgeelhaar/storyreview/pkg/plugin"
)

// ContractSuite runs all contract assertions against a plugin binary.
type ContractSuite struct {
	loader *infraPlugin.Loader
}

// NewContractSuite creates a new contract suite.
func NewContractSuite() *ContractSuite {
	return &ContractSuite{
		loader: infraPlugin.NewLoader(),
	}
}

// SuiteResult aggregates results from running the full contract suite.
type SuiteResult struct {
	Results []Result
	Passed  int
	Failed  int
}

// RunWithPublisher runs the contract suite against an already-loaded publisher.
func (s *ContractSuite) RunWithPublisher(pub domainPlugin.Publisher) *SuiteResult {
	assertions := []func(domainPlugin.Publisher) Result{
		AssertInitSuccess,
		AssertInitWithBadConfig,
		AssertCreateWorkItem,
		AssertDistinctWorkItems,
		AssertEmptyStory,
	}

	sr := &SuiteResult{}
	for _, assert := range assertions {
		result := assert(pub)
		sr.Results = append(sr.Results, result)
		if result.Passed {
			sr.Passed++
		} else {
			sr.Failed++
		}
	}
	return sr
}

// RunBinary loads a plugin binary and runs the full contract suite.
func (s *ContractSuite) RunBinary(ctx context.Context, path string) (*SuiteResult, error) {
	defer s.loader.Cleanup()

	pub, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load plugin: %w", err)
	}

	return s.RunWithPublisher(pub), nil
}
