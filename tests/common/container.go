// Package common provides shared test infrastructure: database containers
// and an in-memory StorageManager.
package common

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
)

// sharedContainer starts one container per test process and hands the same
// instance to every caller.
type sharedContainer struct {
	once      sync.Once
	name      string
	port      nat.Port
	request   testcontainers.ContainerRequest
	container testcontainers.Container
	host      string
	mapped    string
	err       error
}

func (s *sharedContainer) start(t *testing.T) {
	t.Helper()

	s.once.Do(func() {
		ctx := context.Background()

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: s.request,
			Started:          true,
		})
		if err != nil {
			s.err = fmt.Errorf("start %s container: %w", s.name, err)
			return
		}

		host, err := container.Host(ctx)
		if err != nil {
			container.Terminate(ctx)
			s.err = fmt.Errorf("get %s host: %w", s.name, err)
			return
		}

		mappedPort, err := container.MappedPort(ctx, s.port)
		if err != nil {
			container.Terminate(ctx)
			s.err = fmt.Errorf("get %s port: %w", s.name, err)
			return
		}

		s.container = container
		s.host = host
		s.mapped = mappedPort.Port()
	})

	if s.err != nil {
		t.Fatalf("%s container failed: %v", s.name, s.err)
	}
}

func (s *sharedContainer) terminate() {
	if s.container != nil {
		s.container.Terminate(context.Background())
	}
}

// RunWithContainers runs the package's tests and then stops any container
// they started. Use it from TestMain:
//
//	func TestMain(m *testing.M) { os.Exit(tcommon.RunWithContainers(m)) }
func RunWithContainers(m *testing.M) int {
	code := m.Run()
	surreal.terminate()
	postgres.terminate()
	return code
}
