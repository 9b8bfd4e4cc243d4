// Package domain defines the watch service contracts
package domain

import (
	"context"

	routdom "protokoll/internal/services/routing/domain"
)

// RunnerPort runs the inbox watcher until the context is cancelled
type RunnerPort interface {
	Run(ctx context.Context) error
}

// Ports carries the routing dependency the watch module is wired with
type Ports struct {
	Router routdom.RouterPort
}
