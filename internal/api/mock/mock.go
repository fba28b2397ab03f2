// Package mock provides a testify mock of api.Client in the shape mockery generates.
//
//	mockClient := mock.NewMockClient(t)
//	mockClient.On("GetStatus", testifymock.Anything).Return(&api.StatusResponse{Status: "SUCCESS"}, nil).Once()
package mock

import (
	"context"

	"github.com/autodev/autodev/internal/api"
	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of api.Client.
type MockClient struct {
	mock.Mock
}

var _ api.Client = (*MockClient)(nil)

// NewMockClient creates a MockClient whose expectations are asserted when the test ends.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Deploy provides a mock function with given fields: ctx, req
func (m *MockClient) Deploy(ctx context.Context, req api.DeployRequest) error {
	ret := m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Deploy")
	}

	if rf, ok := ret.Get(0).(func(context.Context, api.DeployRequest) error); ok {
		return rf(ctx, req)
	}
	return ret.Error(0)
}

// GetStatus provides a mock function with given fields: ctx
func (m *MockClient) GetStatus(ctx context.Context) (*api.StatusResponse, error) {
	ret := m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for GetStatus")
	}

	if rf, ok := ret.Get(0).(func(context.Context) (*api.StatusResponse, error)); ok {
		return rf(ctx)
	}

	var r0 *api.StatusResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*api.StatusResponse) //nolint:errcheck // Type fixed by the expectation
	}
	return r0, ret.Error(1)
}

// Stop provides a mock function with given fields: ctx
func (m *MockClient) Stop(ctx context.Context) error {
	ret := m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Stop")
	}

	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		return rf(ctx)
	}
	return ret.Error(0)
}
