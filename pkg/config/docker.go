package config

import (
	"net"
	"os"
	"sync"
)

// DefaultDockerGateway is the hostname Docker Desktop assigns to the host.
const DefaultDockerGateway = "host.docker.internal"

const dockerEnvPath = "/.dockerenv"

var (
	inDocker     bool
	inDockerOnce sync.Once
)

// IsRunningInDocker reports whether the process runs inside a container.
// The result is cached after the first call.
func IsRunningInDocker() bool {
	inDockerOnce.Do(func() {
		_, err := os.Stat(dockerEnvPath)
		inDocker = err == nil
	})
	return inDocker
}

// resolveHostForDocker points loopback database hosts at the container
// host gateway (DOCKER_HOST_GATEWAY, else host.docker.internal) when running
// in a container. Any other host is returned as is.
func resolveHostForDocker(host string) string {
	return resolveLoopback(host, IsRunningInDocker())
}

func resolveLoopback(host string, containerized bool) string {
	if !containerized || !isLoopback(host) {
		return host
	}
	if gw := os.Getenv("DOCKER_HOST_GATEWAY"); gw != "" {
		return gw
	}
	return DefaultDockerGateway
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
