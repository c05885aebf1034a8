//go:build integration
// +build integration

package testinfra

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const wiremockPort nat.Port = "8080/tcp"

// WiremockContainer stands in for the Merchant Warrior token and post hosts.
type WiremockContainer struct {
	Container testcontainers.Container
	BaseURL   string
}

// NewWiremock starts WireMock with the stub mappings found in mappingsPath.
func NewWiremock(ctx context.Context, mappingsPath string) (*WiremockContainer, error) {
	absPath, err := filepath.Abs(mappingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	req := testcontainers.ContainerRequest{
		Image:        "wiremock/wiremock:3.9.1",
		ExposedPorts: []string{string(wiremockPort)},
		WaitingFor:   wait.ForHTTP("/__admin/mappings").WithPort(wiremockPort),
		Cmd:          []string{"--disable-gzip", "--verbose"},
		Files: []testcontainers.ContainerFile{{
			HostFilePath:      absPath,
			ContainerFilePath: "/home/wiremock/mappings",
			FileMode:          0o755,
		}},
	}

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start wiremock container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("wiremock host: %w", err)
	}
	port, err := container.MappedPort(ctx, wiremockPort)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("wiremock port: %w", err)
	}

	return &WiremockContainer{
		Container: container,
		BaseURL:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}

// TokenURL and PostURL are the gateway base URLs served by the stub.
func (c *WiremockContainer) TokenURL() string { return c.BaseURL + "/token/" }
func (c *WiremockContainer) PostURL() string  { return c.BaseURL + "/post/" }

func (c *WiremockContainer) Cleanup(ctx context.Context) {
	if c.Container != nil {
		_ = c.Container.Terminate(ctx)
	}
}
